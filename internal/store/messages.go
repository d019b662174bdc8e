package store

import (
	"fmt"
	"time"

	"github.com/peykchat/peyk/internal/models"
)

// AppendMessage persists a message from senderID to receiverID. The timestamp
// is assigned here, at persistence time. Account existence is not re-checked;
// callers pass ids they already resolved.
func (s *Store) AppendMessage(senderID, receiverID int, body string) (*models.Message, error) {
	if body == "" {
		return nil, fmt.Errorf("message body is empty: %w", ErrValidation)
	}
	if senderID <= 0 || receiverID <= 0 {
		return nil, fmt.Errorf("invalid sender or receiver id: %w", ErrValidation)
	}

	ts := time.Now().UTC()
	result, err := s.conn.Exec(
		"INSERT INTO messages (sender_id, receiver_id, body, timestamp) VALUES (?, ?, ?, ?)",
		senderID, receiverID, body, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to append message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get message id: %w", err)
	}

	return &models.Message{
		ID:         int(id),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Body:       body,
		Timestamp:  ts,
	}, nil
}

// Conversation returns every message exchanged between the two accounts,
// oldest first. Timestamp ties are broken by insertion order.
func (s *Store) Conversation(idA, idB int) ([]models.Message, error) {
	rows, err := s.conn.Query(`
		SELECT id, sender_id, receiver_id, body, timestamp
		FROM messages
		WHERE (sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)
		ORDER BY timestamp, id
	`, idA, idB, idB, idA)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversation: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.Body, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

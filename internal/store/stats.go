package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Stats aggregates row counts for the status command.
type Stats struct {
	Accounts        int64
	Contacts        int64
	Messages        int64
	MessagesLast24h int64
	LatestMessageAt string
}

func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}

	counts := []struct {
		query string
		dest  *int64
	}{
		{"SELECT COUNT(*) FROM accounts", &stats.Accounts},
		{"SELECT COUNT(*) FROM contacts", &stats.Contacts},
		{"SELECT COUNT(*) FROM messages", &stats.Messages},
	}
	for _, c := range counts {
		if err := s.conn.QueryRow(c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("failed to count rows: %w", err)
		}
	}

	cutoff := time.Now().UTC().Add(-24 * time.Hour)
	if err := s.conn.QueryRow(
		"SELECT COUNT(*) FROM messages WHERE timestamp >= ?", cutoff,
	).Scan(&stats.MessagesLast24h); err != nil {
		return nil, fmt.Errorf("failed to count recent messages: %w", err)
	}

	// MAX() drops the column's declared type, so read it back as text
	var latest sql.NullString
	if err := s.conn.QueryRow("SELECT MAX(timestamp) FROM messages").Scan(&latest); err != nil {
		return nil, fmt.Errorf("failed to query latest message: %w", err)
	}
	if latest.Valid {
		stats.LatestMessageAt = latest.String
	}

	return stats, nil
}

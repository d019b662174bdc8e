package store

import (
	"database/sql"
	"fmt"

	"github.com/peykchat/peyk/internal/models"
)

// CreateAccount persists a new account and returns it with its assigned id.
// Username and phone are each globally unique; a collision on either returns
// ErrConflict.
func (s *Store) CreateAccount(username, phone, password string, profilePicture *string) (*models.Account, error) {
	if username == "" || phone == "" || password == "" {
		return nil, fmt.Errorf("username, phone and password are required: %w", ErrValidation)
	}

	result, err := s.conn.Exec(
		"INSERT INTO accounts (username, phone, password, profile_picture) VALUES (?, ?, ?, ?)",
		username, phone, password, profilePicture,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("username or phone already taken: %w", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get account id: %w", err)
	}

	return s.FindAccountByID(int(id))
}

// FindAccountByUsername looks up an account by its unique username.
func (s *Store) FindAccountByUsername(username string) (*models.Account, error) {
	return s.findAccount("username = ?", username)
}

// FindAccountByPhone looks up an account by its unique phone number.
func (s *Store) FindAccountByPhone(phone string) (*models.Account, error) {
	return s.findAccount("phone = ?", phone)
}

// FindAccountByID looks up an account by id.
func (s *Store) FindAccountByID(id int) (*models.Account, error) {
	return s.findAccount("id = ?", id)
}

func (s *Store) findAccount(where string, arg interface{}) (*models.Account, error) {
	acct := &models.Account{}
	err := s.conn.QueryRow(
		"SELECT id, username, phone, password, profile_picture, created_at FROM accounts WHERE "+where,
		arg,
	).Scan(&acct.ID, &acct.Username, &acct.Phone, &acct.Password, &acct.ProfilePicture, &acct.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("account: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return acct, nil
}

// AddContact resolves contactUsername and inserts a directed contact edge for
// ownerID. Returns ErrNotFound when the username does not resolve and
// ErrConflict when the edge already exists.
func (s *Store) AddContact(ownerID int, contactUsername string) error {
	contact, err := s.FindAccountByUsername(contactUsername)
	if err != nil {
		return err
	}

	_, err = s.conn.Exec(
		"INSERT INTO contacts (owner_id, contact_id) VALUES (?, ?)",
		ownerID, contact.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("contact: %w", ErrConflict)
		}
		return fmt.Errorf("failed to add contact: %w", err)
	}
	return nil
}

// ListContacts returns the accounts ownerID has added, in no particular order.
func (s *Store) ListContacts(ownerID int) ([]models.Contact, error) {
	rows, err := s.conn.Query(`
		SELECT a.id, a.username, a.profile_picture
		FROM accounts a JOIN contacts c ON a.id = c.contact_id
		WHERE c.owner_id = ?
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.AccountID, &c.Username, &c.ProfilePicture); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// AccountUpdate carries a partial account update. Zero-valued fields are
// skipped, not written as NULLs.
type AccountUpdate struct {
	Username       string
	Phone          string
	Password       string
	ProfilePicture *string
}

// UpdateAccount applies the supplied fields to an existing account. An update
// that collides with another account's username or phone returns ErrConflict;
// an unknown id returns ErrNotFound; an empty update returns ErrValidation.
func (s *Store) UpdateAccount(id int, upd AccountUpdate) error {
	var sets []string
	var params []interface{}

	if upd.Username != "" {
		sets = append(sets, "username = ?")
		params = append(params, upd.Username)
	}
	if upd.Phone != "" {
		sets = append(sets, "phone = ?")
		params = append(params, upd.Phone)
	}
	if upd.Password != "" {
		sets = append(sets, "password = ?")
		params = append(params, upd.Password)
	}
	if upd.ProfilePicture != nil {
		sets = append(sets, "profile_picture = ?")
		params = append(params, *upd.ProfilePicture)
	}

	if len(sets) == 0 {
		return fmt.Errorf("no fields to update: %w", ErrValidation)
	}

	query := "UPDATE accounts SET "
	for i, set := range sets {
		if i > 0 {
			query += ", "
		}
		query += set
	}
	query += " WHERE id = ?"
	params = append(params, id)

	result, err := s.conn.Exec(query, params...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("username or phone already taken: %w", ErrConflict)
		}
		return fmt.Errorf("failed to update account: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("account: %w", ErrNotFound)
	}
	return nil
}

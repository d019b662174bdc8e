package models

import "time"

type Account struct {
	ID             int       `json:"id"`
	Username       string    `json:"username"`
	Phone          string    `json:"phone"`
	Password       string    `json:"-"`
	ProfilePicture *string   `json:"profile_picture,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Contact is one row of an account's contact list, joined with the
// contact's account row for display.
type Contact struct {
	AccountID      int     `json:"account_id"`
	Username       string  `json:"username"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
}

type Message struct {
	ID         int       `json:"id"`
	SenderID   int       `json:"sender_id"`
	ReceiverID int       `json:"receiver_id"`
	Body       string    `json:"body"`
	Timestamp  time.Time `json:"timestamp"`
}

package domain

import "time"

// LoginAttempt is an immutable record of one authentication attempt. Identifier
// is the customer's phone number, or the operator username for operator logins.
// Attempts are never updated or deleted.
type LoginAttempt struct {
	AttemptID  string    `json:"attemptID"` // Primary key (UUID)
	Identifier string    `json:"identifier"`
	IsAdmin    bool      `json:"isAdmin"`
	Success    bool      `json:"success"`
	CreatedAt  time.Time `json:"createdAt"` // Stamped by the store at commit
}

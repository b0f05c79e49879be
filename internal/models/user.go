package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique). Used for login.
	Email string

	// DisplayName is used as the participant name when the user creates a group.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// PaymentMethod and PaymentAccount seed the user's participants.
	PaymentMethod  PaymentMethod
	PaymentAccount string

	CreatedAt int64
	UpdatedAt int64
}

// NewUser creates a user with a fresh ID and timestamps.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

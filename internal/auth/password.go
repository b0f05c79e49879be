package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/dutchpay/internal/models"
	"github.com/mmynk/dutchpay/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidProfile     = errors.New("email and display name are required")
)

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	store storage.Store
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(store storage.Store) *PasswordAuthenticator {
	return &PasswordAuthenticator{store: store}
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// Register creates a new user account with a hashed password.
func (a *PasswordAuthenticator) Register(ctx context.Context, profile Profile, credential string) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(profile.Email))
	name := strings.TrimSpace(profile.DisplayName)
	if email == "" || name == "" {
		return nil, ErrInvalidProfile
	}
	if !profile.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", models.ErrInvalidArgument, profile.PaymentMethod)
	}
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(email, name, string(hashedPassword))
	user.PaymentMethod = profile.PaymentMethod
	user.PaymentAccount = profile.PaymentAccount

	err = a.store.InTx(ctx, func(tx storage.Tx) error {
		existing, err := tx.GetUserByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrEmailExists
		}
		return tx.CreateUser(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies the email and password, returning the user if valid.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, credential string) (*models.User, error) {
	user, err := a.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil || user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

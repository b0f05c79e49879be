package auth

import (
	"context"

	"github.com/mmynk/dutchpay/internal/models"
)

// Profile is the account information supplied at registration.
type Profile struct {
	Email          string
	DisplayName    string
	PaymentMethod  models.PaymentMethod
	PaymentAccount string
}

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password, OAuth, etc.)
// without changing the service layer code.
type Authenticator interface {
	// Register creates a new user account with the given profile and credential.
	Register(ctx context.Context, profile Profile, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}

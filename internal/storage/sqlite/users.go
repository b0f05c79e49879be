package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/dutchpay/internal/models"
)

const userColumns = "id, email, display_name, password_hash, payment_method, payment_account, created_at, updated_at"

// CreateUser inserts a new user into the database.
func (s *queries) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.q.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		user.ID,
		user.Email,
		user.DisplayName,
		user.PasswordHash,
		string(user.PaymentMethod),
		user.PaymentAccount,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by their email address.
// Returns nil, nil if no user has that email.
func (s *queries) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(s.q.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ?", email,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // User not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by their ID.
// Returns nil, nil if the user does not exist.
func (s *queries) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := scanUser(s.q.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // User not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

func scanUser(row scanner) (*models.User, error) {
	user := &models.User{}
	var method string
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.PasswordHash,
		&method,
		&user.PaymentAccount,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.PaymentMethod = models.PaymentMethod(method)
	return user, nil
}

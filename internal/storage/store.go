// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/dutchpay/internal/models"
)

// Reader is the read side shared by Store and Tx.
// Lookups of a missing record return an error wrapping models.ErrNotFound,
// except the user lookups, which return nil, nil.
type Reader interface {
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	GetGroupByInviteCode(ctx context.Context, code string) (*models.Group, error)
	// ListGroupsByUser returns groups in which userID has claimed a participant.
	ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error)

	GetParticipant(ctx context.Context, participantID string) (*models.Participant, error)
	// GetParticipantByUser returns the participant userID claimed in groupID.
	GetParticipantByUser(ctx context.Context, groupID, userID string) (*models.Participant, error)
	// ListParticipants returns a group's participants in join order.
	ListParticipants(ctx context.Context, groupID string) ([]models.Participant, error)
	// ParticipantInUse reports whether the participant pays for or holds a share of any expense.
	ParticipantInUse(ctx context.Context, participantID string) (bool, error)

	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	// ListExpenses returns a group's expenses with shares, newest first.
	ListExpenses(ctx context.Context, groupID string) ([]models.Expense, error)
	GetShare(ctx context.Context, shareID string) (*models.ExpenseShare, error)

	GetObligation(ctx context.Context, obligationID string) (*models.Obligation, error)
	ListObligations(ctx context.Context, groupID string) ([]models.Obligation, error)

	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Tx is a unit of work against the store. Writes become visible when the
// function passed to Store.InTx returns nil.
type Tx interface {
	Reader

	// CreateGroup persists a new group. ID and CreatedAt are filled in if unset.
	CreateGroup(ctx context.Context, group *models.Group) error
	UpdateInviteCode(ctx context.Context, groupID, code string) error

	// CreateParticipant persists a new participant. ID and JoinedAt are filled in if unset.
	CreateParticipant(ctx context.Context, p *models.Participant) error
	// ClaimParticipant links an unclaimed participant to userID.
	// Fails with models.ErrConflict if already claimed.
	ClaimParticipant(ctx context.Context, participantID, userID string) error
	UpdatePaymentInfo(ctx context.Context, participantID string, method models.PaymentMethod, account string) error
	DeleteParticipant(ctx context.Context, participantID string) error

	// CreateExpense persists an expense and its shares, filling in IDs.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	// UpdateExpense rewrites an expense and replaces its shares.
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, expenseID string) error
	MarkSharePaid(ctx context.Context, shareID string, at int64) error

	// ReplaceObligations discards the group's obligation set and stores obligations,
	// assigning IDs to new ones.
	ReplaceObligations(ctx context.Context, groupID string, obligations []models.Obligation) error
	MarkObligationCompleted(ctx context.Context, obligationID string, at int64) error

	CreateUser(ctx context.Context, user *models.User) error
}

// Store defines the storage backend used by the services.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	Reader

	// InTx runs fn in a single transaction, committing if fn returns nil.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any resources held by the store.
	Close() error
}

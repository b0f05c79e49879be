// Package registry manages groups and the participants that belong to them.
package registry

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/mmynk/dutchpay/internal/models"
	"github.com/mmynk/dutchpay/internal/storage"
)

const (
	inviteCodeLength   = 8
	inviteCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	inviteCodeAttempts = 5
)

// Registry owns group and participant lifecycle.
type Registry struct {
	store storage.Store
}

// New creates a Registry backed by store.
func New(store storage.Store) *Registry {
	return &Registry{store: store}
}

// CreateGroup creates a group owned by owner. The owner gets an admin
// participant claimed by their account; every extra name becomes an unclaimed
// participant. Names are deduplicated case-insensitively.
func (r *Registry) CreateGroup(ctx context.Context, owner *models.User, name, icon string, names []string) (*models.Group, []models.Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil, fmt.Errorf("%w: group name is required", models.ErrInvalidArgument)
	}

	group := &models.Group{Name: name, Icon: icon, OwnerID: owner.ID}
	participants := []models.Participant{{
		Name:           owner.DisplayName,
		UserID:         owner.ID,
		IsAdmin:        true,
		PaymentMethod:  owner.PaymentMethod,
		PaymentAccount: owner.PaymentAccount,
	}}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || containsName(participants, n) {
			continue
		}
		participants = append(participants, models.Participant{Name: n})
	}

	err := r.store.InTx(ctx, func(tx storage.Tx) error {
		code, err := uniqueInviteCode(ctx, tx)
		if err != nil {
			return err
		}
		group.InviteCode = code

		if err := tx.CreateGroup(ctx, group); err != nil {
			return err
		}
		for i := range participants {
			participants[i].GroupID = group.ID
			if err := tx.CreateParticipant(ctx, &participants[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	slog.Info("Group created", "group_id", group.ID, "participants", len(participants))
	return group, participants, nil
}

// GetGroup returns a group with its participants.
func (r *Registry) GetGroup(ctx context.Context, groupID string) (*models.Group, []models.Participant, error) {
	group, err := r.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	participants, err := r.store.ListParticipants(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	return group, participants, nil
}

// ListGroups returns the groups userID belongs to.
func (r *Registry) ListGroups(ctx context.Context, userID string) ([]*models.Group, error) {
	return r.store.ListGroupsByUser(ctx, userID)
}

// AddParticipant adds an unclaimed placeholder participant.
func (r *Registry) AddParticipant(ctx context.Context, groupID, name string) (*models.Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: participant name is required", models.ErrInvalidArgument)
	}

	p := &models.Participant{GroupID: groupID, Name: name}
	err := r.store.InTx(ctx, func(tx storage.Tx) error {
		if _, err := tx.GetGroup(ctx, groupID); err != nil {
			return err
		}
		existing, err := tx.ListParticipants(ctx, groupID)
		if err != nil {
			return err
		}
		if containsName(existing, name) {
			return fmt.Errorf("%w: participant name %q already exists", models.ErrInvalidArgument, name)
		}
		return tx.CreateParticipant(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// RemoveParticipant deletes a participant that no expense references.
// A participant who pays for or holds a share of an expense cannot be removed
// until those expenses are re-split without them.
func (r *Registry) RemoveParticipant(ctx context.Context, participantID string) error {
	return r.store.InTx(ctx, func(tx storage.Tx) error {
		p, err := tx.GetParticipant(ctx, participantID)
		if err != nil {
			return err
		}
		inUse, err := tx.ParticipantInUse(ctx, participantID)
		if err != nil {
			return err
		}
		if inUse {
			return fmt.Errorf("%w: participant %s is referenced by expenses", models.ErrInconsistentSplit, p.Name)
		}
		return tx.DeleteParticipant(ctx, participantID)
	})
}

// RegenerateInviteCode replaces a group's invite code and returns the new one.
func (r *Registry) RegenerateInviteCode(ctx context.Context, groupID string) (string, error) {
	var code string
	err := r.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		if code, err = uniqueInviteCode(ctx, tx); err != nil {
			return err
		}
		return tx.UpdateInviteCode(ctx, groupID, code)
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

// GetGroupByInviteCode looks up a group by invite code, case-insensitively.
func (r *Registry) GetGroupByInviteCode(ctx context.Context, code string) (*models.Group, []models.Participant, error) {
	group, err := r.store.GetGroupByInviteCode(ctx, normalizeCode(code))
	if err != nil {
		return nil, nil, err
	}
	participants, err := r.store.ListParticipants(ctx, group.ID)
	if err != nil {
		return nil, nil, err
	}
	return group, participants, nil
}

// JoinGroup adds user to the group behind code, either by claiming the
// unclaimed participant participantID or by creating a new participant
// named participantName. Exactly one of the two must be set.
func (r *Registry) JoinGroup(ctx context.Context, user *models.User, code, participantID, participantName string) (*models.Participant, error) {
	participantName = strings.TrimSpace(participantName)
	if (participantID == "") == (participantName == "") {
		return nil, fmt.Errorf("%w: choose an existing participant or a new name", models.ErrInvalidArgument)
	}

	var joined *models.Participant
	err := r.store.InTx(ctx, func(tx storage.Tx) error {
		group, err := tx.GetGroupByInviteCode(ctx, normalizeCode(code))
		if err != nil {
			return err
		}

		_, err = tx.GetParticipantByUser(ctx, group.ID, user.ID)
		if err == nil {
			return fmt.Errorf("%w: already a member of this group", models.ErrConflict)
		}
		if !errors.Is(err, models.ErrNotFound) {
			return err
		}

		if participantID != "" {
			p, err := tx.GetParticipant(ctx, participantID)
			if err != nil {
				return err
			}
			if p.GroupID != group.ID {
				return fmt.Errorf("%w: participant %s", models.ErrNotFound, participantID)
			}
			if err := tx.ClaimParticipant(ctx, p.ID, user.ID); err != nil {
				return err
			}
			if p.PaymentMethod == models.PaymentMethodNone && user.PaymentMethod != models.PaymentMethodNone {
				if err := tx.UpdatePaymentInfo(ctx, p.ID, user.PaymentMethod, user.PaymentAccount); err != nil {
					return err
				}
			}
			joined, err = tx.GetParticipant(ctx, p.ID)
			return err
		}

		existing, err := tx.ListParticipants(ctx, group.ID)
		if err != nil {
			return err
		}
		if containsName(existing, participantName) {
			return fmt.Errorf("%w: participant name %q already exists", models.ErrInvalidArgument, participantName)
		}
		joined = &models.Participant{
			GroupID:        group.ID,
			Name:           participantName,
			UserID:         user.ID,
			PaymentMethod:  user.PaymentMethod,
			PaymentAccount: user.PaymentAccount,
		}
		return tx.CreateParticipant(ctx, joined)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("User joined group", "group_id", joined.GroupID, "user_id", user.ID, "participant_id", joined.ID)
	return joined, nil
}

// UpdatePaymentInfo sets the payment method and account shown to debtors.
func (r *Registry) UpdatePaymentInfo(ctx context.Context, participantID string, method models.PaymentMethod, account string) (*models.Participant, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", models.ErrInvalidArgument, method)
	}

	var p *models.Participant
	err := r.store.InTx(ctx, func(tx storage.Tx) error {
		if err := tx.UpdatePaymentInfo(ctx, participantID, method, strings.TrimSpace(account)); err != nil {
			return err
		}
		var err error
		p, err = tx.GetParticipant(ctx, participantID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetParticipant returns a participant by ID.
func (r *Registry) GetParticipant(ctx context.Context, participantID string) (*models.Participant, error) {
	return r.store.GetParticipant(ctx, participantID)
}

// Authorize returns the participant userID claimed in groupID, or fails with
// models.ErrUnauthorized.
func (r *Registry) Authorize(ctx context.Context, groupID, userID string) (*models.Participant, error) {
	if _, err := r.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	p, err := r.store.GetParticipantByUser(ctx, groupID, userID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%w: user %s in group %s", models.ErrUnauthorized, userID, groupID)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func containsName(participants []models.Participant, name string) bool {
	for _, p := range participants {
		if models.SameName(p.Name, name) {
			return true
		}
	}
	return false
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewInviteCode returns a random invite code.
func NewInviteCode() (string, error) {
	var b strings.Builder
	limit := big.NewInt(int64(len(inviteCodeAlphabet)))
	for i := 0; i < inviteCodeLength; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate invite code: %w", err)
		}
		b.WriteByte(inviteCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

func uniqueInviteCode(ctx context.Context, tx storage.Tx) (string, error) {
	for i := 0; i < inviteCodeAttempts; i++ {
		code, err := NewInviteCode()
		if err != nil {
			return "", err
		}
		_, err = tx.GetGroupByInviteCode(ctx, code)
		if errors.Is(err, models.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("failed to find an unused invite code after %d attempts", inviteCodeAttempts)
}

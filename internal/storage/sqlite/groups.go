package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/dutchpay/internal/models"
)

const groupColumns = "id, name, icon, invite_code, owner_id, created_at"

const participantColumns = "id, group_id, name, user_id, is_admin, payment_method, payment_account, joined_at"

// CreateGroup persists a new group.
func (s *queries) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	_, err := s.q.ExecContext(ctx,
		"INSERT INTO groups ("+groupColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		group.ID, group.Name, group.Icon, group.InviteCode, group.OwnerID, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}
	return nil
}

// GetGroup retrieves a group by ID.
func (s *queries) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := scanGroup(s.q.QueryRowContext(ctx,
		"SELECT "+groupColumns+" FROM groups WHERE id = ?", groupID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: group %s", models.ErrNotFound, groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// GetGroupByInviteCode retrieves a group by its invite code.
func (s *queries) GetGroupByInviteCode(ctx context.Context, code string) (*models.Group, error) {
	group, err := scanGroup(s.q.QueryRowContext(ctx,
		"SELECT "+groupColumns+" FROM groups WHERE invite_code = ?", code,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: invite code %s", models.ErrNotFound, code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group by invite code: %w", err)
	}
	return group, nil
}

// ListGroupsByUser retrieves the groups a user has joined, newest first.
func (s *queries) ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT g.id, g.name, g.icon, g.invite_code, g.owner_id, g.created_at
		 FROM groups g JOIN participants p ON p.group_id = g.id
		 WHERE p.user_id = ?
		 ORDER BY g.created_at DESC, g.rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	return groups, nil
}

// UpdateInviteCode replaces a group's invite code.
func (s *queries) UpdateInviteCode(ctx context.Context, groupID, code string) error {
	res, err := s.q.ExecContext(ctx, "UPDATE groups SET invite_code = ? WHERE id = ?", code, groupID)
	if err != nil {
		return fmt.Errorf("failed to update invite code: %w", err)
	}
	return requireRow(res, "group", groupID)
}

// CreateParticipant persists a new participant.
func (s *queries) CreateParticipant(ctx context.Context, p *models.Participant) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.JoinedAt == 0 {
		p.JoinedAt = time.Now().Unix()
	}

	_, err := s.q.ExecContext(ctx,
		"INSERT INTO participants ("+participantColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.GroupID, p.Name, nullString(p.UserID), p.IsAdmin,
		string(p.PaymentMethod), p.PaymentAccount, p.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	return nil
}

// GetParticipant retrieves a participant by ID.
func (s *queries) GetParticipant(ctx context.Context, participantID string) (*models.Participant, error) {
	p, err := scanParticipant(s.q.QueryRowContext(ctx,
		"SELECT "+participantColumns+" FROM participants WHERE id = ?", participantID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: participant %s", models.ErrNotFound, participantID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return p, nil
}

// GetParticipantByUser retrieves the participant a user claimed in a group.
func (s *queries) GetParticipantByUser(ctx context.Context, groupID, userID string) (*models.Participant, error) {
	p, err := scanParticipant(s.q.QueryRowContext(ctx,
		"SELECT "+participantColumns+" FROM participants WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s in group %s", models.ErrNotFound, userID, groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant by user: %w", err)
	}
	return p, nil
}

// ListParticipants retrieves a group's participants in join order.
func (s *queries) ListParticipants(ctx context.Context, groupID string) ([]models.Participant, error) {
	rows, err := s.q.QueryContext(ctx,
		"SELECT "+participantColumns+" FROM participants WHERE group_id = ? ORDER BY joined_at, rowid",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

// ParticipantInUse reports whether any expense references the participant.
func (s *queries) ParticipantInUse(ctx context.Context, participantID string) (bool, error) {
	var inUse bool
	err := s.q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM expenses WHERE payer_id = ?)
		     OR EXISTS (SELECT 1 FROM expense_shares WHERE participant_id = ?)`,
		participantID, participantID,
	).Scan(&inUse)
	if err != nil {
		return false, fmt.Errorf("failed to check participant usage: %w", err)
	}
	return inUse, nil
}

// ClaimParticipant links an unclaimed participant to a user.
func (s *queries) ClaimParticipant(ctx context.Context, participantID, userID string) error {
	res, err := s.q.ExecContext(ctx,
		"UPDATE participants SET user_id = ? WHERE id = ? AND user_id IS NULL",
		userID, participantID,
	)
	if err != nil {
		return fmt.Errorf("failed to claim participant: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to claim participant: %w", err)
	}
	if n == 0 {
		if _, err := s.GetParticipant(ctx, participantID); err != nil {
			return err
		}
		return fmt.Errorf("%w: participant %s already claimed", models.ErrConflict, participantID)
	}
	return nil
}

// UpdatePaymentInfo sets a participant's payment method and account.
func (s *queries) UpdatePaymentInfo(ctx context.Context, participantID string, method models.PaymentMethod, account string) error {
	res, err := s.q.ExecContext(ctx,
		"UPDATE participants SET payment_method = ?, payment_account = ? WHERE id = ?",
		string(method), account, participantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment info: %w", err)
	}
	return requireRow(res, "participant", participantID)
}

// DeleteParticipant removes a participant by ID.
func (s *queries) DeleteParticipant(ctx context.Context, participantID string) error {
	res, err := s.q.ExecContext(ctx, "DELETE FROM participants WHERE id = ?", participantID)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	return requireRow(res, "participant", participantID)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGroup(row scanner) (*models.Group, error) {
	g := &models.Group{}
	if err := row.Scan(&g.ID, &g.Name, &g.Icon, &g.InviteCode, &g.OwnerID, &g.CreatedAt); err != nil {
		return nil, err
	}
	return g, nil
}

func scanParticipant(row scanner) (*models.Participant, error) {
	p := &models.Participant{}
	var userID sql.NullString
	var method string
	if err := row.Scan(&p.ID, &p.GroupID, &p.Name, &userID, &p.IsAdmin,
		&method, &p.PaymentAccount, &p.JoinedAt); err != nil {
		return nil, err
	}
	p.UserID = userID.String
	p.PaymentMethod = models.PaymentMethod(method)
	return p, nil
}

// requireRow turns a zero-row update or delete into models.ErrNotFound.
func requireRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s", models.ErrNotFound, kind, id)
	}
	return nil
}

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

const obligationColumns = "id, group_id, debtor_id, creditor_id, amount, is_completed, completed_at, batch, created_at"

// ReplaceObligations discards a group's obligations and stores the new set.
func (s *queries) ReplaceObligations(ctx context.Context, groupID string, obligations []models.Obligation) error {
	if _, err := s.q.ExecContext(ctx, "DELETE FROM obligations WHERE group_id = ?", groupID); err != nil {
		return fmt.Errorf("failed to clear obligations: %w", err)
	}

	now := time.Now().Unix()
	for i := range obligations {
		o := &obligations[i]
		if o.ID == "" {
			o.ID = uuid.New().String()
		}
		if o.CreatedAt == 0 {
			o.CreatedAt = now
		}
		o.GroupID = groupID

		_, err := s.q.ExecContext(ctx,
			"INSERT INTO obligations ("+obligationColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			o.ID, o.GroupID, o.DebtorID, o.CreditorID, o.Amount, o.IsCompleted, o.CompletedAt, o.Batch, o.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert obligation: %w", err)
		}
	}
	return nil
}

// GetObligation retrieves an obligation by ID.
func (s *queries) GetObligation(ctx context.Context, obligationID string) (*models.Obligation, error) {
	o, err := scanObligation(s.q.QueryRowContext(ctx,
		"SELECT "+obligationColumns+" FROM obligations WHERE id = ?", obligationID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: obligation %s", models.ErrNotFound, obligationID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get obligation: %w", err)
	}
	return o, nil
}

// ListObligations retrieves a group's obligations: open ones first, then
// completed ones, largest amount first within each.
func (s *queries) ListObligations(ctx context.Context, groupID string) ([]models.Obligation, error) {
	rows, err := s.q.QueryContext(ctx,
		"SELECT "+obligationColumns+` FROM obligations WHERE group_id = ?
		 ORDER BY is_completed, amount DESC, debtor_id, creditor_id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list obligations: %w", err)
	}
	defer rows.Close()

	var obligations []models.Obligation
	for rows.Next() {
		o, err := scanObligation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan obligation: %w", err)
		}
		obligations = append(obligations, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate obligations: %w", err)
	}
	return obligations, nil
}

// MarkObligationCompleted completes an open obligation.
func (s *queries) MarkObligationCompleted(ctx context.Context, obligationID string, at int64) error {
	res, err := s.q.ExecContext(ctx,
		"UPDATE obligations SET is_completed = 1, completed_at = ? WHERE id = ? AND is_completed = 0",
		at, obligationID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete obligation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to complete obligation: %w", err)
	}
	if n == 0 {
		if _, err := s.GetObligation(ctx, obligationID); err != nil {
			return err
		}
		return fmt.Errorf("%w: obligation %s", models.ErrAlreadyCompleted, obligationID)
	}
	return nil
}

func scanObligation(row scanner) (*models.Obligation, error) {
	o := &models.Obligation{}
	if err := row.Scan(&o.ID, &o.GroupID, &o.DebtorID, &o.CreditorID, &o.Amount,
		&o.IsCompleted, &o.CompletedAt, &o.Batch, &o.CreatedAt); err != nil {
		return nil, err
	}
	return o, nil
}

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

const expenseColumns = "id, group_id, title, icon, total_amount, payer_id, split_type, date, settles_obligation_id, created_at, updated_at"

const shareColumns = "id, expense_id, participant_id, position, amount, ratio, amount_owed, is_paid, paid_at"

// CreateExpense persists a new expense with its shares.
func (s *queries) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.UpdatedAt == 0 {
		expense.UpdatedAt = expense.CreatedAt
	}

	_, err := s.q.ExecContext(ctx,
		"INSERT INTO expenses ("+expenseColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		expense.ID, expense.GroupID, expense.Title, expense.Icon, expense.TotalAmount,
		expense.PayerID, string(expense.SplitType), expense.Date, nullString(expense.SettlesObligationID),
		expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	return s.insertShares(ctx, expense)
}

// UpdateExpense rewrites an expense row and replaces its shares.
func (s *queries) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.UpdatedAt == 0 {
		expense.UpdatedAt = time.Now().Unix()
	}

	res, err := s.q.ExecContext(ctx,
		`UPDATE expenses SET title = ?, icon = ?, total_amount = ?, payer_id = ?, split_type = ?,
		 date = ?, updated_at = ? WHERE id = ?`,
		expense.Title, expense.Icon, expense.TotalAmount, expense.PayerID, string(expense.SplitType),
		expense.Date, expense.UpdatedAt, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if err := requireRow(res, "expense", expense.ID); err != nil {
		return err
	}

	if _, err := s.q.ExecContext(ctx, "DELETE FROM expense_shares WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to delete shares: %w", err)
	}
	return s.insertShares(ctx, expense)
}

func (s *queries) insertShares(ctx context.Context, expense *models.Expense) error {
	for i := range expense.Shares {
		share := &expense.Shares[i]
		if share.ID == "" {
			share.ID = uuid.New().String()
		}
		share.ExpenseID = expense.ID
		share.Position = i

		_, err := s.q.ExecContext(ctx,
			"INSERT INTO expense_shares ("+shareColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			share.ID, share.ExpenseID, share.ParticipantID, share.Position, share.Amount,
			share.Ratio, share.AmountOwed, share.IsPaid, share.PaidAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}
	return nil
}

// GetExpense retrieves an expense by ID, including its shares.
func (s *queries) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense, err := scanExpense(s.q.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ?", expenseID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: expense %s", models.ErrNotFound, expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	rows, err := s.q.QueryContext(ctx,
		"SELECT "+shareColumns+" FROM expense_shares WHERE expense_id = ? ORDER BY position",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		share, err := scanShare(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		expense.Shares = append(expense.Shares, *share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}
	return expense, nil
}

// ListExpenses retrieves all of a group's expenses with shares, newest first.
func (s *queries) ListExpenses(ctx context.Context, groupID string) ([]models.Expense, error) {
	rows, err := s.q.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE group_id = ? ORDER BY date DESC, created_at DESC, rowid DESC",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	index := make(map[string]int)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		index[expense.ID] = len(expenses)
		expenses = append(expenses, *expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	rows.Close()

	shareRows, err := s.q.QueryContext(ctx,
		`SELECT s.id, s.expense_id, s.participant_id, s.position, s.amount, s.ratio, s.amount_owed, s.is_paid, s.paid_at
		 FROM expense_shares s JOIN expenses e ON e.id = s.expense_id
		 WHERE e.group_id = ? ORDER BY s.expense_id, s.position`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	defer shareRows.Close()

	for shareRows.Next() {
		share, err := scanShare(shareRows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		if i, ok := index[share.ExpenseID]; ok {
			expenses[i].Shares = append(expenses[i].Shares, *share)
		}
	}
	if err := shareRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}
	return expenses, nil
}

// DeleteExpense removes an expense and its shares.
func (s *queries) DeleteExpense(ctx context.Context, expenseID string) error {
	if _, err := s.q.ExecContext(ctx, "DELETE FROM expense_shares WHERE expense_id = ?", expenseID); err != nil {
		return fmt.Errorf("failed to delete shares: %w", err)
	}
	res, err := s.q.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return requireRow(res, "expense", expenseID)
}

// GetShare retrieves a single expense share.
func (s *queries) GetShare(ctx context.Context, shareID string) (*models.ExpenseShare, error) {
	share, err := scanShare(s.q.QueryRowContext(ctx,
		"SELECT "+shareColumns+" FROM expense_shares WHERE id = ?", shareID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: share %s", models.ErrNotFound, shareID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get share: %w", err)
	}
	return share, nil
}

// MarkSharePaid sets a share's legacy paid flag.
func (s *queries) MarkSharePaid(ctx context.Context, shareID string, at int64) error {
	res, err := s.q.ExecContext(ctx,
		"UPDATE expense_shares SET is_paid = 1, paid_at = ? WHERE id = ?", at, shareID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark share paid: %w", err)
	}
	return requireRow(res, "share", shareID)
}

func scanExpense(row scanner) (*models.Expense, error) {
	e := &models.Expense{}
	var splitType string
	var settles sql.NullString
	if err := row.Scan(&e.ID, &e.GroupID, &e.Title, &e.Icon, &e.TotalAmount, &e.PayerID,
		&splitType, &e.Date, &settles, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.SplitType = models.SplitType(splitType)
	e.SettlesObligationID = settles.String
	return e, nil
}

func scanShare(row scanner) (*models.ExpenseShare, error) {
	sh := &models.ExpenseShare{}
	if err := row.Scan(&sh.ID, &sh.ExpenseID, &sh.ParticipantID, &sh.Position, &sh.Amount,
		&sh.Ratio, &sh.AmountOwed, &sh.IsPaid, &sh.PaidAt); err != nil {
		return nil, err
	}
	return sh, nil
}

// Package ledger records expenses and keeps each group's obligation set in
// step with them. Every mutation validates, writes and regenerates the
// obligations inside one store transaction, so readers never observe a ledger
// whose obligations are stale.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/dutchpay/internal/calculator"
	"github.com/mmynk/dutchpay/internal/metrics"
	"github.com/mmynk/dutchpay/internal/models"
	"github.com/mmynk/dutchpay/internal/storage"
	"github.com/mmynk/dutchpay/internal/views"
)

// Repayment expenses recorded on obligation completion.
const (
	RepaymentTitle = "상환"
	RepaymentIcon  = "/icons/reimburse.png"
)

// ErrInconsistentLedger reports a ledger whose stored shares no longer add up.
// It is never caused by caller input.
var ErrInconsistentLedger = errors.New("ledger is internally inconsistent")

// Config configures a Ledger.
type Config struct {
	// RecordRepayments makes MarkObligationCompleted append a repayment
	// expense from debtor to creditor.
	RecordRepayments bool

	Views   *views.Views
	Hook    CompletionHook
	Metrics *metrics.Metrics

	// Now defaults to time.Now.
	Now func() time.Time
}

// Ledger is the expense ledger and obligation resolver of all groups.
type Ledger struct {
	store   storage.Store
	views   *views.Views
	hook    CompletionHook
	metrics *metrics.Metrics
	now     func() time.Time

	recordRepayments bool
}

// New creates a Ledger backed by store.
func New(store storage.Store, cfg Config) *Ledger {
	l := &Ledger{
		store:            store,
		views:            cfg.Views,
		hook:             cfg.Hook,
		metrics:          cfg.Metrics,
		now:              cfg.Now,
		recordRepayments: cfg.RecordRepayments,
	}
	if l.views == nil {
		l.views = views.New(nil)
	}
	if l.hook == nil {
		l.hook = LogHook{}
	}
	if l.now == nil {
		l.now = time.Now
	}
	return l
}

// ExpenseInput describes a new expense.
type ExpenseInput struct {
	GroupID      string
	Title        string
	Icon         string
	TotalAmount  int64
	PayerID      string
	SplitType    models.SplitType
	Participants []models.ShareInput

	// Date defaults to today.
	Date string
}

// ExpenseUpdate is a partial edit. Nil fields are left unchanged.
type ExpenseUpdate struct {
	Title       *string
	Icon        *string
	TotalAmount *int64
	PayerID     *string
	SplitType   *models.SplitType
	Date        *string

	// Participants replaces the split inputs when non-nil.
	Participants []models.ShareInput
}

// CreateExpense records an expense and regenerates the group's obligations.
func (l *Ledger) CreateExpense(ctx context.Context, in ExpenseInput) (*models.Expense, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", models.ErrInvalidArgument)
	}
	date, err := l.normalizeDate(in.Date)
	if err != nil {
		return nil, err
	}
	splitType := in.SplitType
	if splitType == "" {
		splitType = models.SplitEqual
	}

	expense := &models.Expense{
		GroupID:     in.GroupID,
		Title:       title,
		Icon:        in.Icon,
		TotalAmount: in.TotalAmount,
		PayerID:     in.PayerID,
		SplitType:   splitType,
		Date:        date,
	}

	err = l.store.InTx(ctx, func(tx storage.Tx) error {
		if _, err := tx.GetGroup(ctx, in.GroupID); err != nil {
			return err
		}
		if err := checkPayer(ctx, tx, in.GroupID, in.PayerID); err != nil {
			return err
		}
		shares, err := buildShares(ctx, tx, in.GroupID, splitType, in.TotalAmount, in.Participants, nil)
		if err != nil {
			return err
		}
		expense.Shares = shares

		if err := tx.CreateExpense(ctx, expense); err != nil {
			return err
		}
		return l.recompute(ctx, tx, in.GroupID)
	})
	if err != nil {
		return nil, err
	}

	l.metrics.LedgerMutation("create_expense")
	slog.Info("Expense created", "expense_id", expense.ID, "group_id", expense.GroupID,
		"total", expense.TotalAmount, "split_type", expense.SplitType, "shares", len(expense.Shares))
	return expense, nil
}

// UpdateExpense applies upd and regenerates the group's obligations.
// Shares are recomputed when the total, split type or participants change;
// paid flags survive for participants that keep a share.
func (l *Ledger) UpdateExpense(ctx context.Context, expenseID string, upd ExpenseUpdate) (*models.Expense, error) {
	var expense *models.Expense
	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		expense, err = tx.GetExpense(ctx, expenseID)
		if err != nil {
			return err
		}

		if upd.Title != nil {
			title := strings.TrimSpace(*upd.Title)
			if title == "" {
				return fmt.Errorf("%w: title is required", models.ErrInvalidArgument)
			}
			expense.Title = title
		}
		if upd.Icon != nil {
			expense.Icon = *upd.Icon
		}
		if upd.Date != nil {
			date, err := l.normalizeDate(*upd.Date)
			if err != nil {
				return err
			}
			expense.Date = date
		}
		if upd.PayerID != nil && *upd.PayerID != expense.PayerID {
			if err := checkPayer(ctx, tx, expense.GroupID, *upd.PayerID); err != nil {
				return err
			}
			expense.PayerID = *upd.PayerID
		}

		resplit := upd.Participants != nil
		if upd.TotalAmount != nil && *upd.TotalAmount != expense.TotalAmount {
			expense.TotalAmount = *upd.TotalAmount
			resplit = true
		}
		if upd.SplitType != nil && *upd.SplitType != expense.SplitType {
			if upd.Participants == nil && *upd.SplitType != models.SplitEqual {
				return fmt.Errorf("%w: switching to %s split requires participant inputs",
					models.ErrInconsistentSplit, *upd.SplitType)
			}
			expense.SplitType = *upd.SplitType
			resplit = true
		}

		if resplit {
			inputs := upd.Participants
			if inputs == nil {
				inputs = make([]models.ShareInput, len(expense.Shares))
				for i := range expense.Shares {
					inputs[i] = expense.Shares[i].Input()
				}
			}
			shares, err := buildShares(ctx, tx, expense.GroupID, expense.SplitType, expense.TotalAmount, inputs, expense.Shares)
			if err != nil {
				return err
			}
			expense.Shares = shares
		}

		expense.UpdatedAt = l.now().Unix()
		if err := tx.UpdateExpense(ctx, expense); err != nil {
			return err
		}
		return l.recompute(ctx, tx, expense.GroupID)
	})
	if err != nil {
		return nil, err
	}

	l.metrics.LedgerMutation("update_expense")
	slog.Info("Expense updated", "expense_id", expense.ID, "group_id", expense.GroupID, "total", expense.TotalAmount)
	return expense, nil
}

// DeleteExpense removes an expense and regenerates the group's obligations.
func (l *Ledger) DeleteExpense(ctx context.Context, expenseID string) error {
	var groupID string
	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		expense, err := tx.GetExpense(ctx, expenseID)
		if err != nil {
			return err
		}
		groupID = expense.GroupID
		if err := tx.DeleteExpense(ctx, expenseID); err != nil {
			return err
		}
		return l.recompute(ctx, tx, groupID)
	})
	if err != nil {
		return err
	}

	l.metrics.LedgerMutation("delete_expense")
	slog.Info("Expense deleted", "expense_id", expenseID, "group_id", groupID)
	return nil
}

// GetExpense returns an expense with its shares.
func (l *Ledger) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	return l.store.GetExpense(ctx, expenseID)
}

// GetGroupExpenses returns a group's expenses, newest first.
func (l *Ledger) GetGroupExpenses(ctx context.Context, groupID string) ([]models.Expense, error) {
	if _, err := l.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return l.store.ListExpenses(ctx, groupID)
}

// GetShare returns one expense share.
func (l *Ledger) GetShare(ctx context.Context, shareID string) (*models.ExpenseShare, error) {
	return l.store.GetShare(ctx, shareID)
}

// MarkSharePaid sets the per-share paid flag. It does not touch obligations.
func (l *Ledger) MarkSharePaid(ctx context.Context, shareID string) (*models.ExpenseShare, error) {
	var share *models.ExpenseShare
	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		share, err = tx.GetShare(ctx, shareID)
		if err != nil {
			return err
		}
		if err := share.MarkPaid(l.now().Unix()); err != nil {
			return err
		}
		return tx.MarkSharePaid(ctx, shareID, share.PaidAt)
	})
	if err != nil {
		return nil, err
	}

	l.metrics.LedgerMutation("mark_share_paid")
	slog.Info("Share marked paid", "share_id", shareID, "expense_id", share.ExpenseID)
	return share, nil
}

// recompute regenerates groupID's obligations from its full ledger. It must
// run inside the transaction that changed the ledger.
func (l *Ledger) recompute(ctx context.Context, tx storage.Tx, groupID string) error {
	start := time.Now()

	expenses, err := tx.ListExpenses(ctx, groupID)
	if err != nil {
		return err
	}
	for i := range expenses {
		if sum := expenses[i].ShareSum(); sum != expenses[i].TotalAmount {
			slog.Error("Expense shares do not sum to total",
				"expense_id", expenses[i].ID, "sum", sum, "total", expenses[i].TotalAmount)
			return fmt.Errorf("%w: expense %s shares sum to %d, total %d",
				ErrInconsistentLedger, expenses[i].ID, sum, expenses[i].TotalAmount)
		}
	}

	previous, err := tx.ListObligations(ctx, groupID)
	if err != nil {
		return err
	}

	res := calculator.Resolve(groupID, expenses, previous)

	batch := uuid.New().String()[:8]
	open := 0
	for i := range res.Obligations {
		if !res.Obligations[i].IsCompleted {
			res.Obligations[i].Batch = batch
			open++
		}
	}

	if err := tx.ReplaceObligations(ctx, groupID, res.Obligations); err != nil {
		return err
	}

	l.metrics.Recomputed(open, time.Since(start))
	slog.Debug("Obligations regenerated", "group_id", groupID, "batch", batch,
		"open", open, "total", len(res.Obligations))
	return nil
}

// Recompute regenerates a group's obligations without changing its ledger.
// Running it twice in a row leaves the obligation set unchanged.
func (l *Ledger) Recompute(ctx context.Context, groupID string) ([]models.Obligation, error) {
	var obligations []models.Obligation
	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		if _, err := tx.GetGroup(ctx, groupID); err != nil {
			return err
		}
		if err := l.recompute(ctx, tx, groupID); err != nil {
			return err
		}
		var err error
		obligations, err = tx.ListObligations(ctx, groupID)
		return err
	})
	return obligations, err
}

func (l *Ledger) normalizeDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return l.now().Format(models.DateLayout), nil
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return "", fmt.Errorf("%w: date %q must be YYYY-MM-DD", models.ErrInvalidArgument, date)
	}
	return date, nil
}

// checkPayer requires payerID to be a participant of groupID.
func checkPayer(ctx context.Context, tx storage.Reader, groupID, payerID string) error {
	if payerID == "" {
		return fmt.Errorf("%w: payer is required", models.ErrInvalidArgument)
	}
	payer, err := tx.GetParticipant(ctx, payerID)
	if err != nil {
		return err
	}
	if payer.GroupID != groupID {
		return fmt.Errorf("%w: payer %s", models.ErrUnauthorized, payerID)
	}
	return nil
}

// buildShares validates inputs against the group's participants and splits
// total among them. Shares of participants found in previous keep their ID
// and paid state.
func buildShares(ctx context.Context, tx storage.Reader, groupID string, splitType models.SplitType,
	total int64, inputs []models.ShareInput, previous []models.ExpenseShare) ([]models.ExpenseShare, error) {
	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		if seen[in.ParticipantID] {
			return nil, fmt.Errorf("%w: participant %s listed twice", models.ErrInvalidSplit, in.ParticipantID)
		}
		seen[in.ParticipantID] = true

		p, err := tx.GetParticipant(ctx, in.ParticipantID)
		if err != nil {
			return nil, err
		}
		if p.GroupID != groupID {
			return nil, fmt.Errorf("%w: participant %s is not in group %s", models.ErrNotFound, in.ParticipantID, groupID)
		}
	}

	amounts, err := calculator.Split(total, splitType, inputs)
	if err != nil {
		return nil, err
	}

	kept := make(map[string]models.ExpenseShare, len(previous))
	for _, s := range previous {
		kept[s.ParticipantID] = s
	}

	shares := make([]models.ExpenseShare, len(inputs))
	for i, in := range inputs {
		s := models.ExpenseShare{
			ParticipantID: in.ParticipantID,
			Position:      i,
			AmountOwed:    amounts[i],
		}
		switch splitType {
		case models.SplitAmount:
			s.Amount = in.Amount
		case models.SplitRatio:
			s.Ratio = in.Ratio
		}
		if prev, ok := kept[in.ParticipantID]; ok {
			s.ID = prev.ID
			s.IsPaid = prev.IsPaid
			s.PaidAt = prev.PaidAt
		}
		shares[i] = s
	}
	return shares, nil
}

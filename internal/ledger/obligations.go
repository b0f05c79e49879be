package ledger

import (
	"context"
	"log/slog"

	"github.com/mmynk/dutchpay/internal/models"
	"github.com/mmynk/dutchpay/internal/storage"
)

// CompletionHook is notified after an obligation completion commits.
type CompletionHook interface {
	ObligationCompleted(ctx context.Context, o models.Obligation)
}

// HookFunc adapts a function to CompletionHook.
type HookFunc func(ctx context.Context, o models.Obligation)

// ObligationCompleted calls f.
func (f HookFunc) ObligationCompleted(ctx context.Context, o models.Obligation) { f(ctx, o) }

// LogHook logs completions. It is the default hook.
type LogHook struct{}

// ObligationCompleted logs o.
func (LogHook) ObligationCompleted(_ context.Context, o models.Obligation) {
	slog.Info("Obligation completed", "obligation_id", o.ID, "group_id", o.GroupID,
		"debtor_id", o.DebtorID, "creditor_id", o.CreditorID, "amount", o.Amount)
}

// MarkObligationCompleted completes an open obligation. With repayment
// recording enabled, a repayment expense from debtor to creditor is appended
// to the ledger in the same transaction and obligations are regenerated.
func (l *Ledger) MarkObligationCompleted(ctx context.Context, obligationID string) (*models.Obligation, error) {
	var ob *models.Obligation
	err := l.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		ob, err = tx.GetObligation(ctx, obligationID)
		if err != nil {
			return err
		}

		now := l.now()
		if err := ob.MarkPaid(now.Unix()); err != nil {
			return err
		}
		if err := tx.MarkObligationCompleted(ctx, ob.ID, ob.CompletedAt); err != nil {
			return err
		}

		if !l.recordRepayments {
			return nil
		}
		repayment := &models.Expense{
			GroupID:             ob.GroupID,
			Title:               RepaymentTitle,
			Icon:                RepaymentIcon,
			TotalAmount:         ob.Amount,
			PayerID:             ob.DebtorID,
			SplitType:           models.SplitEqual,
			Date:                now.Format(models.DateLayout),
			SettlesObligationID: ob.ID,
			Shares: []models.ExpenseShare{{
				ParticipantID: ob.CreditorID,
				AmountOwed:    ob.Amount,
				IsPaid:        true,
				PaidAt:        ob.CompletedAt,
			}},
		}
		if err := tx.CreateExpense(ctx, repayment); err != nil {
			return err
		}
		return l.recompute(ctx, tx, ob.GroupID)
	})
	if err != nil {
		return nil, err
	}

	l.metrics.LedgerMutation("complete_obligation")
	l.metrics.Completed()
	l.hook.ObligationCompleted(ctx, *ob)
	return ob, nil
}

// GetObligation returns one obligation.
func (l *Ledger) GetObligation(ctx context.Context, obligationID string) (*models.Obligation, error) {
	return l.store.GetObligation(ctx, obligationID)
}

// ObligationResult is an obligation with display details of both parties.
// Payment details are the creditor's, since that is where money goes.
type ObligationResult struct {
	models.Obligation

	DebtorName     string
	CreditorName   string
	DebtorUserID   string
	CreditorUserID string

	CreditorPaymentMethod  models.PaymentMethod
	CreditorPaymentAccount string
}

// ObligationReport is a group's full obligation set.
type ObligationReport struct {
	GroupID string

	// Results lists open obligations first, largest amount first.
	Results []ObligationResult

	TotalTransactions int
}

// GetGroupObligations returns a group's obligations with participant details.
func (l *Ledger) GetGroupObligations(ctx context.Context, groupID string) (*ObligationReport, error) {
	if _, err := l.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	participants, err := l.store.ListParticipants(ctx, groupID)
	if err != nil {
		return nil, err
	}
	obligations, err := l.store.ListObligations(ctx, groupID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.Participant, len(participants))
	for _, p := range participants {
		byID[p.ID] = p
	}

	report := &ObligationReport{GroupID: groupID, Results: make([]ObligationResult, 0, len(obligations))}
	for _, o := range obligations {
		debtor, creditor := byID[o.DebtorID], byID[o.CreditorID]
		report.Results = append(report.Results, ObligationResult{
			Obligation:             o,
			DebtorName:             debtor.Name,
			CreditorName:           creditor.Name,
			DebtorUserID:           debtor.UserID,
			CreditorUserID:         creditor.UserID,
			CreditorPaymentMethod:  creditor.PaymentMethod,
			CreditorPaymentAccount: creditor.PaymentAccount,
		})
	}
	report.TotalTransactions = len(report.Results)
	return report, nil
}

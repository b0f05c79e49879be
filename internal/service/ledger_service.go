package service

import (
	"context"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/dutchpay/internal/ledger"
	"github.com/mmynk/dutchpay/internal/models"
	"github.com/mmynk/dutchpay/internal/registry"
	"github.com/mmynk/dutchpay/internal/storage"
	"github.com/mmynk/dutchpay/internal/views"
)

// LedgerService implements dutchpay.v1.LedgerService.
type LedgerService struct {
	ledger   *ledger.Ledger
	registry *registry.Registry
	users    storage.Reader
}

// NewLedgerService creates a LedgerService.
func NewLedgerService(l *ledger.Ledger, reg *registry.Registry, users storage.Reader) *LedgerService {
	return &LedgerService{ledger: l, registry: reg, users: users}
}

// CreateExpense records an expense in one of the caller's groups.
func (s *LedgerService) CreateExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	if _, err := authorize(ctx, s.registry, s.users, req.Msg.GroupID); err != nil {
		return nil, err
	}
	splitType, err := models.ParseSplitType(req.Msg.SplitType)
	if err != nil {
		return nil, toConnectError(err)
	}
	inputs, err := fromShareInputs(req.Msg.Participants)
	if err != nil {
		return nil, toConnectError(err)
	}

	expense, err := s.ledger.CreateExpense(ctx, ledger.ExpenseInput{
		GroupID:      req.Msg.GroupID,
		Title:        req.Msg.Title,
		Icon:         req.Msg.Icon,
		TotalAmount:  req.Msg.TotalAmount,
		PayerID:      req.Msg.PayerID,
		SplitType:    splitType,
		Participants: inputs,
		Date:         req.Msg.Date,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ExpenseResponse{Expense: toExpense(expense)}), nil
}

// GetExpense returns one expense with its shares.
func (s *LedgerService) GetExpense(ctx context.Context, req *connect.Request[GetExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	expense, err := s.authorizedExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&ExpenseResponse{Expense: toExpense(expense)}), nil
}

// UpdateExpense applies a partial edit.
func (s *LedgerService) UpdateExpense(ctx context.Context, req *connect.Request[UpdateExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	if _, err := s.authorizedExpense(ctx, req.Msg.ExpenseID); err != nil {
		return nil, err
	}

	upd := ledger.ExpenseUpdate{
		Title:       req.Msg.Title,
		Icon:        req.Msg.Icon,
		Date:        req.Msg.Date,
		PayerID:     req.Msg.PayerID,
		TotalAmount: req.Msg.TotalAmount,
	}
	if req.Msg.SplitType != nil {
		splitType, err := models.ParseSplitType(*req.Msg.SplitType)
		if err != nil {
			return nil, toConnectError(err)
		}
		upd.SplitType = &splitType
	}
	inputs, err := fromShareInputs(req.Msg.Participants)
	if err != nil {
		return nil, toConnectError(err)
	}
	upd.Participants = inputs

	expense, err := s.ledger.UpdateExpense(ctx, req.Msg.ExpenseID, upd)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ExpenseResponse{Expense: toExpense(expense)}), nil
}

// DeleteExpense removes an expense.
func (s *LedgerService) DeleteExpense(ctx context.Context, req *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error) {
	if _, err := s.authorizedExpense(ctx, req.Msg.ExpenseID); err != nil {
		return nil, err
	}
	if err := s.ledger.DeleteExpense(ctx, req.Msg.ExpenseID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&DeleteExpenseResponse{}), nil
}

// MarkSharePaid sets a share's paid flag.
func (s *LedgerService) MarkSharePaid(ctx context.Context, req *connect.Request[MarkSharePaidRequest]) (*connect.Response[MarkSharePaidResponse], error) {
	share, err := s.ledger.GetShare(ctx, req.Msg.ShareID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if _, err := s.authorizedExpense(ctx, share.ExpenseID); err != nil {
		return nil, err
	}

	share, err = s.ledger.MarkSharePaid(ctx, share.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&MarkSharePaidResponse{Share: toShare(share)}), nil
}

// MarkObligationCompleted completes an obligation. Only its debtor, its
// creditor or a group admin may do so.
func (s *LedgerService) MarkObligationCompleted(ctx context.Context, req *connect.Request[MarkObligationCompletedRequest]) (*connect.Response[MarkObligationCompletedResponse], error) {
	ob, err := s.ledger.GetObligation(ctx, req.Msg.ObligationID)
	if err != nil {
		return nil, toConnectError(err)
	}
	caller, err := authorize(ctx, s.registry, s.users, ob.GroupID)
	if err != nil {
		return nil, err
	}
	if caller.ID != ob.DebtorID && caller.ID != ob.CreditorID && !caller.IsAdmin {
		return nil, toConnectError(fmt.Errorf("%w: not a party to obligation %s", models.ErrUnauthorized, ob.ID))
	}

	ob, err = s.ledger.MarkObligationCompleted(ctx, ob.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&MarkObligationCompletedResponse{
		Obligation: toObligation(&ledger.ObligationResult{Obligation: *ob}),
	}), nil
}

// GetGroupObligations returns the group's obligations, open ones first.
func (s *LedgerService) GetGroupObligations(ctx context.Context, req *connect.Request[GetGroupObligationsRequest]) (*connect.Response[GetGroupObligationsResponse], error) {
	if _, err := authorize(ctx, s.registry, s.users, req.Msg.GroupID); err != nil {
		return nil, err
	}
	report, err := s.ledger.GetGroupObligations(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &GetGroupObligationsResponse{
		Results:           make([]Obligation, len(report.Results)),
		TotalTransactions: report.TotalTransactions,
	}
	for i := range report.Results {
		resp.Results[i] = toObligation(&report.Results[i])
	}
	return connect.NewResponse(resp), nil
}

// GetGroupExpenses returns the group's expenses, newest first.
func (s *LedgerService) GetGroupExpenses(ctx context.Context, req *connect.Request[GetGroupExpensesRequest]) (*connect.Response[GetGroupExpensesResponse], error) {
	if _, err := authorize(ctx, s.registry, s.users, req.Msg.GroupID); err != nil {
		return nil, err
	}
	expenses, err := s.ledger.GetGroupExpenses(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &GetGroupExpensesResponse{Expenses: make([]Expense, len(expenses))}
	for i := range expenses {
		resp.Expenses[i] = toExpense(&expenses[i])
	}
	return connect.NewResponse(resp), nil
}

// GetSummary returns the caller's spend, net owed and category breakdown.
func (s *LedgerService) GetSummary(ctx context.Context, req *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error) {
	caller, err := authorize(ctx, s.registry, s.users, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	summary, err := s.ledger.Summary(ctx, req.Msg.GroupID, caller.ID, views.Period{From: req.Msg.From, To: req.Msg.To})
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &GetSummaryResponse{
		ParticipantID: summary.ParticipantID,
		MySpend:       summary.Spend.Mine,
		TotalSpend:    summary.Spend.Total,
		NetOwed:       summary.NetOwed,
		Categories:    make([]CategoryTotal, len(summary.Categories)),
	}
	for i, c := range summary.Categories {
		resp.Categories[i] = CategoryTotal{Key: c.Key, Label: c.Label, Amount: c.Amount}
	}
	return connect.NewResponse(resp), nil
}

// GetRanking ranks the group's participants by spend, optionally in one category.
func (s *LedgerService) GetRanking(ctx context.Context, req *connect.Request[GetRankingRequest]) (*connect.Response[GetRankingResponse], error) {
	if _, err := authorize(ctx, s.registry, s.users, req.Msg.GroupID); err != nil {
		return nil, err
	}
	ranking, err := s.ledger.Ranking(ctx, req.Msg.GroupID, req.Msg.Category)
	if err != nil {
		return nil, toConnectError(err)
	}
	_, participants, err := s.registry.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	names := make(map[string]string, len(participants))
	for _, p := range participants {
		names[p.ID] = p.Name
	}

	resp := &GetRankingResponse{Entries: make([]RankEntry, len(ranking))}
	for i, r := range ranking {
		resp.Entries[i] = RankEntry{ParticipantID: r.ParticipantID, Name: names[r.ParticipantID], Amount: r.Amount}
	}
	return connect.NewResponse(resp), nil
}

// authorizedExpense loads an expense and requires the caller to belong to its group.
func (s *LedgerService) authorizedExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense, err := s.ledger.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if _, err := authorize(ctx, s.registry, s.users, expense.GroupID); err != nil {
		return nil, err
	}
	return expense, nil
}

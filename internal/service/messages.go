package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/dutchpay/internal/ledger"
	"github.com/mmynk/dutchpay/internal/models"
)

// Wire messages. Field names follow the snake_case JSON used by the web client.

type User struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	DisplayName    string `json:"display_name"`
	PaymentMethod  string `json:"payment_method,omitempty"`
	PaymentAccount string `json:"payment_account,omitempty"`
	CreatedAt      int64  `json:"created_at"`
}

type Group struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Icon       string `json:"icon,omitempty"`
	InviteCode string `json:"invite_code"`
	OwnerID    string `json:"owner_id"`
	CreatedAt  int64  `json:"created_at"`
}

type Participant struct {
	ID             string `json:"id"`
	GroupID        string `json:"group_id"`
	Name           string `json:"name"`
	UserID         string `json:"user_id,omitempty"`
	IsAdmin        bool   `json:"is_admin"`
	PaymentMethod  string `json:"payment_method,omitempty"`
	PaymentAccount string `json:"payment_account,omitempty"`
	JoinedAt       int64  `json:"joined_at"`
}

// ShareInput is one participant entry of a split request. Ratio is a decimal string.
type ShareInput struct {
	ParticipantID string `json:"participant_id"`
	Amount        int64  `json:"amount,omitempty"`
	Ratio         string `json:"ratio,omitempty"`
}

type Share struct {
	ID            string `json:"id"`
	ExpenseID     string `json:"expense_id"`
	ParticipantID string `json:"participant_id"`
	Amount        int64  `json:"amount,omitempty"`
	Ratio         string `json:"ratio,omitempty"`
	AmountOwed    int64  `json:"amount_owed"`
	IsPaid        bool   `json:"is_paid"`
	PaidAt        int64  `json:"paid_at,omitempty"`
}

type Expense struct {
	ID                  string  `json:"id"`
	GroupID             string  `json:"group_id"`
	Title               string  `json:"title"`
	Icon                string  `json:"icon,omitempty"`
	TotalAmount         int64   `json:"total_amount"`
	PayerID             string  `json:"payer_id"`
	SplitType           string  `json:"split_type"`
	Date                string  `json:"date"`
	SettlesObligationID string  `json:"settles_obligation_id,omitempty"`
	CreatedAt           int64   `json:"created_at"`
	UpdatedAt           int64   `json:"updated_at"`
	Shares              []Share `json:"shares"`
}

type Obligation struct {
	ID                     string `json:"id"`
	GroupID                string `json:"group_id"`
	DebtorID               string `json:"debtor_id"`
	DebtorName             string `json:"debtor_name"`
	CreditorID             string `json:"creditor_id"`
	CreditorName           string `json:"creditor_name"`
	Amount                 int64  `json:"amount"`
	IsCompleted            bool   `json:"is_completed"`
	CompletedAt            int64  `json:"completed_at,omitempty"`
	CreditorPaymentMethod  string `json:"creditor_payment_method,omitempty"`
	CreditorPaymentAccount string `json:"creditor_payment_account,omitempty"`
}

type CategoryTotal struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

type RankEntry struct {
	ParticipantID string `json:"participant_id"`
	Name          string `json:"name"`
	Amount        int64  `json:"amount"`
}

// AuthService messages.

type RegisterRequest struct {
	Email          string `json:"email"`
	DisplayName    string `json:"display_name"`
	Password       string `json:"password"`
	PaymentMethod  string `json:"payment_method,omitempty"`
	PaymentAccount string `json:"payment_account,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User User `json:"user"`
}

// GroupService messages.

type CreateGroupRequest struct {
	Name         string   `json:"name"`
	Icon         string   `json:"icon,omitempty"`
	Participants []string `json:"participants,omitempty"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GroupResponse struct {
	Group        Group         `json:"group"`
	Participants []Participant `json:"participants"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []Group `json:"groups"`
}

type AddParticipantRequest struct {
	GroupID string `json:"group_id"`
	Name    string `json:"name"`
}

type ParticipantResponse struct {
	Participant Participant `json:"participant"`
}

type RemoveParticipantRequest struct {
	ParticipantID string `json:"participant_id"`
}

type RemoveParticipantResponse struct{}

type RegenerateInviteCodeRequest struct {
	GroupID string `json:"group_id"`
}

type RegenerateInviteCodeResponse struct {
	InviteCode string `json:"invite_code"`
}

type GetInviteGroupRequest struct {
	InviteCode string `json:"invite_code"`
}

// JoinGroupRequest claims ParticipantID or adds ParticipantName; exactly one is set.
type JoinGroupRequest struct {
	InviteCode      string `json:"invite_code"`
	ParticipantID   string `json:"participant_id,omitempty"`
	ParticipantName string `json:"participant_name,omitempty"`
}

type JoinGroupResponse struct {
	Group       Group       `json:"group"`
	Participant Participant `json:"participant"`
}

type UpdatePaymentInfoRequest struct {
	ParticipantID  string `json:"participant_id"`
	PaymentMethod  string `json:"payment_method"`
	PaymentAccount string `json:"payment_account"`
}

// LedgerService messages.

type CreateExpenseRequest struct {
	GroupID      string       `json:"group_id"`
	Title        string       `json:"title"`
	Icon         string       `json:"icon,omitempty"`
	TotalAmount  int64        `json:"total_amount"`
	PayerID      string       `json:"payer_id"`
	SplitType    string       `json:"split_type,omitempty"`
	Participants []ShareInput `json:"participants"`
	Date         string       `json:"date,omitempty"`
}

type ExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

// UpdateExpenseRequest is a partial update: absent fields are left unchanged.
type UpdateExpenseRequest struct {
	ExpenseID    string       `json:"expense_id"`
	Title        *string      `json:"title,omitempty"`
	Icon         *string      `json:"icon,omitempty"`
	Date         *string      `json:"date,omitempty"`
	PayerID      *string      `json:"payer_id,omitempty"`
	TotalAmount  *int64       `json:"total_amount,omitempty"`
	SplitType    *string      `json:"split_type,omitempty"`
	Participants []ShareInput `json:"participants,omitempty"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

type MarkSharePaidRequest struct {
	ShareID string `json:"share_id"`
}

type MarkSharePaidResponse struct {
	Share Share `json:"share"`
}

type MarkObligationCompletedRequest struct {
	ObligationID string `json:"obligation_id"`
}

type MarkObligationCompletedResponse struct {
	Obligation Obligation `json:"obligation"`
}

type GetGroupObligationsRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupObligationsResponse struct {
	Results           []Obligation `json:"results"`
	TotalTransactions int          `json:"total_transactions"`
}

type GetGroupExpensesRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

// GetSummaryRequest bounds category totals by expense date, inclusive.
type GetSummaryRequest struct {
	GroupID string `json:"group_id"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
}

type GetSummaryResponse struct {
	ParticipantID string          `json:"participant_id"`
	MySpend       int64           `json:"my_spend"`
	TotalSpend    int64           `json:"total_spend"`
	NetOwed       int64           `json:"net_owed"`
	Categories    []CategoryTotal `json:"categories"`
}

type GetRankingRequest struct {
	GroupID  string `json:"group_id"`
	Category string `json:"category,omitempty"`
}

type GetRankingResponse struct {
	Entries []RankEntry `json:"entries"`
}

// Conversions.

func toUser(u *models.User) User {
	return User{
		ID:             u.ID,
		Email:          u.Email,
		DisplayName:    u.DisplayName,
		PaymentMethod:  string(u.PaymentMethod),
		PaymentAccount: u.PaymentAccount,
		CreatedAt:      u.CreatedAt,
	}
}

func toGroup(g *models.Group) Group {
	return Group{
		ID:         g.ID,
		Name:       g.Name,
		Icon:       g.Icon,
		InviteCode: g.InviteCode,
		OwnerID:    g.OwnerID,
		CreatedAt:  g.CreatedAt,
	}
}

func toParticipant(p *models.Participant) Participant {
	return Participant{
		ID:             p.ID,
		GroupID:        p.GroupID,
		Name:           p.Name,
		UserID:         p.UserID,
		IsAdmin:        p.IsAdmin,
		PaymentMethod:  string(p.PaymentMethod),
		PaymentAccount: p.PaymentAccount,
		JoinedAt:       p.JoinedAt,
	}
}

func toParticipants(ps []models.Participant) []Participant {
	out := make([]Participant, len(ps))
	for i := range ps {
		out[i] = toParticipant(&ps[i])
	}
	return out
}

func toShare(s *models.ExpenseShare) Share {
	share := Share{
		ID:            s.ID,
		ExpenseID:     s.ExpenseID,
		ParticipantID: s.ParticipantID,
		Amount:        s.Amount,
		AmountOwed:    s.AmountOwed,
		IsPaid:        s.IsPaid,
		PaidAt:        s.PaidAt,
	}
	if !s.Ratio.IsZero() {
		share.Ratio = s.Ratio.String()
	}
	return share
}

func toExpense(e *models.Expense) Expense {
	shares := make([]Share, len(e.Shares))
	for i := range e.Shares {
		shares[i] = toShare(&e.Shares[i])
	}
	return Expense{
		ID:                  e.ID,
		GroupID:             e.GroupID,
		Title:               e.Title,
		Icon:                e.Icon,
		TotalAmount:         e.TotalAmount,
		PayerID:             e.PayerID,
		SplitType:           string(e.SplitType),
		Date:                e.Date,
		SettlesObligationID: e.SettlesObligationID,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
		Shares:              shares,
	}
}

func toObligation(r *ledger.ObligationResult) Obligation {
	return Obligation{
		ID:                     r.ID,
		GroupID:                r.GroupID,
		DebtorID:               r.DebtorID,
		DebtorName:             r.DebtorName,
		CreditorID:             r.CreditorID,
		CreditorName:           r.CreditorName,
		Amount:                 r.Amount,
		IsCompleted:            r.IsCompleted,
		CompletedAt:            r.CompletedAt,
		CreditorPaymentMethod:  string(r.CreditorPaymentMethod),
		CreditorPaymentAccount: r.CreditorPaymentAccount,
	}
}

// fromShareInputs converts wire inputs. A nil slice stays nil.
func fromShareInputs(in []ShareInput) ([]models.ShareInput, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]models.ShareInput, len(in))
	for i, s := range in {
		out[i] = models.ShareInput{ParticipantID: s.ParticipantID, Amount: s.Amount}
		if s.Ratio == "" {
			continue
		}
		ratio, err := decimal.NewFromString(s.Ratio)
		if err != nil {
			return nil, fmt.Errorf("%w: ratio %q for participant %s", models.ErrInvalidArgument, s.Ratio, s.ParticipantID)
		}
		out[i].Ratio = ratio
	}
	return out, nil
}

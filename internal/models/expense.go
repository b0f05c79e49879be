package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SplitType selects how an expense total is divided among its participants.
type SplitType string

const (
	SplitEqual  SplitType = "equal"
	SplitAmount SplitType = "amount"
	SplitRatio  SplitType = "ratio"
)

// ParseSplitType validates s. An empty string defaults to SplitEqual.
func ParseSplitType(s string) (SplitType, error) {
	switch SplitType(s) {
	case "":
		return SplitEqual, nil
	case SplitEqual, SplitAmount, SplitRatio:
		return SplitType(s), nil
	}
	return "", fmt.Errorf("%w: unknown split type %q", ErrInvalidSplit, s)
}

// DateLayout is the calendar date format used for Expense.Date.
const DateLayout = "2006-01-02"

// Expense is a recorded shared cost.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	GroupID string
	Title   string

	// Icon is the category icon token, e.g. "/icons/food.png".
	Icon string

	// TotalAmount is in the smallest currency unit. Always > 0.
	TotalAmount int64

	// PayerID is the participant who paid the full amount.
	PayerID string

	SplitType SplitType

	// Date is the calendar date of the expense (DateLayout).
	Date string

	CreatedAt int64
	UpdatedAt int64

	// SettlesObligationID is set on repayment expenses recorded when an
	// obligation is completed.
	SettlesObligationID string

	// Shares are ordered by Position. Their AmountOwed values sum to TotalAmount.
	Shares []ExpenseShare
}

// IsRepayment reports whether the expense records money returned for an obligation.
func (e *Expense) IsRepayment() bool {
	return e.SettlesObligationID != ""
}

// ShareOf returns the share held by participantID, or nil.
func (e *Expense) ShareOf(participantID string) *ExpenseShare {
	for i := range e.Shares {
		if e.Shares[i].ParticipantID == participantID {
			return &e.Shares[i]
		}
	}
	return nil
}

// ShareSum returns the sum of all share amounts.
func (e *Expense) ShareSum() int64 {
	var sum int64
	for _, s := range e.Shares {
		sum += s.AmountOwed
	}
	return sum
}

// ShareInput is a caller-supplied participant entry for a split.
// Amount is used by SplitAmount, Ratio by SplitRatio; both are ignored by SplitEqual.
type ShareInput struct {
	ParticipantID string
	Amount        int64
	Ratio         decimal.Decimal
}

// ExpenseShare is one participant's responsibility within one expense.
type ExpenseShare struct {
	ID            string
	ExpenseID     string
	ParticipantID string
	Position      int

	// Amount and Ratio are the inputs the share was split from.
	Amount int64
	Ratio  decimal.Decimal

	AmountOwed int64

	IsPaid bool
	PaidAt int64
}

// Input returns the split input this share was created from.
func (s *ExpenseShare) Input() ShareInput {
	return ShareInput{ParticipantID: s.ParticipantID, Amount: s.Amount, Ratio: s.Ratio}
}

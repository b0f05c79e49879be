package models

import "fmt"

// Payable is the mark/query capability shared by ExpenseShare (legacy per-share
// flag) and Obligation (authoritative net debt). The two are independent state
// machines: marking one never changes the other.
type Payable interface {
	Paid() bool
	MarkPaid(at int64) error
}

var (
	_ Payable = (*ExpenseShare)(nil)
	_ Payable = (*Obligation)(nil)
)

// Paid reports whether the share was marked paid.
func (s *ExpenseShare) Paid() bool { return s.IsPaid }

// MarkPaid sets the share paid. It fails with ErrAlreadyCompleted if already set.
func (s *ExpenseShare) MarkPaid(at int64) error {
	if s.IsPaid {
		return fmt.Errorf("%w: share %s", ErrAlreadyCompleted, s.ID)
	}
	s.IsPaid = true
	s.PaidAt = at
	return nil
}

// Paid reports whether the obligation was completed.
func (o *Obligation) Paid() bool { return o.IsCompleted }

// MarkPaid completes the obligation. Completion is terminal.
func (o *Obligation) MarkPaid(at int64) error {
	if o.IsCompleted {
		return fmt.Errorf("%w: obligation %s", ErrAlreadyCompleted, o.ID)
	}
	o.IsCompleted = true
	o.CompletedAt = at
	return nil
}

package models

// Obligation is a net debt from one participant to another, derived from all
// of a group's expenses. Obligations are regenerated whenever the ledger
// changes; only completion state survives regeneration.
type Obligation struct {
	// ID is the unique identifier for the obligation (UUID format).
	ID string

	GroupID string

	// DebtorID owes Amount to CreditorID.
	DebtorID   string
	CreditorID string

	Amount int64

	IsCompleted bool
	CompletedAt int64

	// Batch identifies the recompute run that produced the obligation.
	Batch string

	CreatedAt int64
}

// Pair identifies an obligation by its debtor and creditor.
type Pair struct {
	DebtorID   string
	CreditorID string
}

// Pair returns the obligation's (debtor, creditor) key.
func (o *Obligation) Pair() Pair {
	return Pair{DebtorID: o.DebtorID, CreditorID: o.CreditorID}
}

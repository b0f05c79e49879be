package models

import "strings"

// Group is a collection of participants sharing expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Jeju Trip").
	Name string

	// Icon is an optional icon token for display.
	Icon string

	// InviteCode lets other users join. Unique, upper-case, regenerable.
	InviteCode string

	// OwnerID is the user who created the group.
	OwnerID string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// PaymentMethod is how a participant prefers to receive money.
type PaymentMethod string

const (
	PaymentMethodNone     PaymentMethod = ""
	PaymentMethodKakaoPay PaymentMethod = "kakaopay"
	PaymentMethodToss     PaymentMethod = "toss"
	PaymentMethodBank     PaymentMethod = "bank"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodNone, PaymentMethodKakaoPay, PaymentMethodToss, PaymentMethodBank:
		return true
	}
	return false
}

// Participant is a named party within a group.
// A participant with an empty UserID is unclaimed: a placeholder that a user
// can take over when joining. Once set, UserID never changes.
type Participant struct {
	ID      string
	GroupID string
	Name    string

	// UserID links the participant to a registered account. Empty if unclaimed.
	UserID string

	IsAdmin bool

	// PaymentMethod and PaymentAccount are shown to debtors only.
	PaymentMethod  PaymentMethod
	PaymentAccount string

	JoinedAt int64
}

// Claimed reports whether a user account has claimed the participant.
func (p *Participant) Claimed() bool {
	return p.UserID != ""
}

// SameName compares participant names case-insensitively after trimming.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

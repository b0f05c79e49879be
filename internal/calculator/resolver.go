package calculator

import (
	"sort"

	"github.com/mmynk/dutchpay/internal/models"
)

// Transfer is one computed payment from a debtor to a creditor.
type Transfer struct {
	DebtorID   string
	CreditorID string
	Amount     int64
}

// Resolution is the output of Resolve.
type Resolution struct {
	// Obligations is the complete new obligation set for the group: freshly
	// computed obligations first, then completed obligations kept as history.
	// New obligations have an empty ID; the store assigns one.
	Obligations []models.Obligation

	// Transfers are the computed debts before completion state was relinked.
	Transfers []Transfer

	// Nets maps participant ID to net position (paid minus owed).
	Nets map[string]int64
}

// NetPositions computes each participant's total paid minus total owed.
// A payer who also holds a share nets their own share out automatically.
func NetPositions(expenses []models.Expense) map[string]int64 {
	nets := make(map[string]int64)
	for _, e := range expenses {
		nets[e.PayerID] += e.TotalAmount
		for _, s := range e.Shares {
			nets[s.ParticipantID] -= s.AmountOwed
		}
	}
	return nets
}

type position struct {
	id     string
	amount int64
}

// SimplifyDebts turns net positions into transfers by repeatedly matching the
// largest remaining creditor with the largest remaining debtor. This is the
// usual greedy heuristic: it keeps the transfer count low but is not
// guaranteed minimal. Ties are broken by participant ID so output is stable.
func SimplifyDebts(nets map[string]int64) []Transfer {
	var creditors, debtors []position
	for id, net := range nets {
		switch {
		case net > 0:
			creditors = append(creditors, position{id: id, amount: net})
		case net < 0:
			debtors = append(debtors, position{id: id, amount: -net})
		}
	}

	var transfers []Transfer
	for len(creditors) > 0 && len(debtors) > 0 {
		ci := largest(creditors)
		di := largest(debtors)

		amount := min(creditors[ci].amount, debtors[di].amount)
		transfers = append(transfers, Transfer{
			DebtorID:   debtors[di].id,
			CreditorID: creditors[ci].id,
			Amount:     amount,
		})

		creditors[ci].amount -= amount
		debtors[di].amount -= amount
		if creditors[ci].amount == 0 {
			creditors = append(creditors[:ci], creditors[ci+1:]...)
		}
		if debtors[di].amount == 0 {
			debtors = append(debtors[:di], debtors[di+1:]...)
		}
	}
	return transfers
}

func largest(ps []position) int {
	best := 0
	for i := 1; i < len(ps); i++ {
		if ps[i].amount > ps[best].amount ||
			(ps[i].amount == ps[best].amount && ps[i].id < ps[best].id) {
			best = i
		}
	}
	return best
}

// Resolve regenerates a group's obligation set from its full ledger.
//
// The previous set is consulted only to keep identities and completion state:
//   - a computed pair with a previous open obligation reuses its ID
//   - a computed pair with a previous completed obligation that no repayment
//     expense accounts for, and whose amount covers the new amount, stays
//     completed (the old ID and completion time carry forward)
//   - every other completed obligation is kept unchanged as history
//
// Open obligations that no longer match a computed pair are dropped.
func Resolve(groupID string, expenses []models.Expense, previous []models.Obligation) Resolution {
	nets := NetPositions(expenses)
	transfers := SimplifyDebts(nets)

	reflected := make(map[string]bool)
	for _, e := range expenses {
		if e.IsRepayment() {
			reflected[e.SettlesObligationID] = true
		}
	}

	open := make(map[models.Pair]*models.Obligation)
	completed := make(map[models.Pair][]*models.Obligation)
	var history []*models.Obligation
	for i := range previous {
		o := &previous[i]
		switch {
		case !o.IsCompleted:
			if _, seen := open[o.Pair()]; !seen {
				open[o.Pair()] = o
			}
		case reflected[o.ID]:
			history = append(history, o)
		default:
			completed[o.Pair()] = append(completed[o.Pair()], o)
			history = append(history, o)
		}
	}
	for _, list := range completed {
		sort.SliceStable(list, func(a, b int) bool { return list[a].CompletedAt < list[b].CompletedAt })
	}

	consumed := make(map[string]bool)
	result := make([]models.Obligation, 0, len(transfers)+len(history))
	for _, t := range transfers {
		pair := models.Pair{DebtorID: t.DebtorID, CreditorID: t.CreditorID}
		ob := models.Obligation{
			GroupID:    groupID,
			DebtorID:   t.DebtorID,
			CreditorID: t.CreditorID,
			Amount:     t.Amount,
		}

		if prev := carryForward(completed[pair], consumed, t.Amount); prev != nil {
			consumed[prev.ID] = true
			ob.ID = prev.ID
			ob.IsCompleted = true
			ob.CompletedAt = prev.CompletedAt
			ob.Batch = prev.Batch
			ob.CreatedAt = prev.CreatedAt
		} else if prev, ok := open[pair]; ok {
			delete(open, pair)
			ob.ID = prev.ID
			ob.CreatedAt = prev.CreatedAt
		}
		result = append(result, ob)
	}

	for _, o := range history {
		if !consumed[o.ID] {
			result = append(result, *o)
		}
	}

	return Resolution{Obligations: result, Transfers: transfers, Nets: nets}
}

func carryForward(candidates []*models.Obligation, consumed map[string]bool, amount int64) *models.Obligation {
	for _, c := range candidates {
		if !consumed[c.ID] && c.Amount >= amount {
			return c
		}
	}
	return nil
}

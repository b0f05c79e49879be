// Package views derives read-side projections from a group's ledger and
// obligation set. Every function is pure: the same snapshot always yields the
// same numbers.
package views

import (
	"sort"

	"github.com/mmynk/dutchpay/internal/models"
)

// Views computes projections using a category table.
type Views struct {
	table *CategoryTable
}

// New creates Views over table. A nil table uses DefaultCategoryTable.
func New(table *CategoryTable) *Views {
	if table == nil {
		table = DefaultCategoryTable()
	}
	return &Views{table: table}
}

// Table returns the category table in use.
func (v *Views) Table() *CategoryTable {
	return v.table
}

// Spend compares one participant's spend with the whole group's.
type Spend struct {
	Mine  int64
	Total int64
}

// CategoryTotal is one participant's spend in one category.
type CategoryTotal struct {
	Key    string
	Label  string
	Amount int64
}

// RankEntry is one participant's total in a ranking.
type RankEntry struct {
	ParticipantID string
	Amount        int64
}

// Period bounds expense dates, inclusive. Empty bounds are open.
type Period struct {
	From string
	To   string
}

func (p Period) contains(date string) bool {
	if p.From != "" && date < p.From {
		return false
	}
	if p.To != "" && date > p.To {
		return false
	}
	return true
}

// Summary bundles every per-participant view.
type Summary struct {
	ParticipantID string
	Spend         Spend
	NetOwed       int64
	Categories    []CategoryTotal
}

// Spend sums total spend and participantID's owed shares, excluding reimbursements.
func (v *Views) Spend(expenses []models.Expense, participantID string) Spend {
	var s Spend
	for i := range expenses {
		e := &expenses[i]
		if v.table.IsReimbursement(e) {
			continue
		}
		s.Total += e.TotalAmount
		if share := e.ShareOf(participantID); share != nil {
			s.Mine += share.AmountOwed
		}
	}
	return s
}

// NetOwed is what others still owe participantID minus what participantID
// still owes, over open obligations.
func NetOwed(obligations []models.Obligation, participantID string) int64 {
	var net int64
	for _, o := range obligations {
		if o.IsCompleted {
			continue
		}
		if o.CreditorID == participantID {
			net += o.Amount
		}
		if o.DebtorID == participantID {
			net -= o.Amount
		}
	}
	return net
}

// CategoryTotals groups participantID's owed shares by category for expenses
// dated within period. Categories come back in table order, followed by
// CategoryOther; every category is present even when zero.
func (v *Views) CategoryTotals(expenses []models.Expense, participantID string, period Period) []CategoryTotal {
	amounts := make(map[string]int64)
	for i := range expenses {
		e := &expenses[i]
		if v.table.IsReimbursement(e) || !period.contains(e.Date) {
			continue
		}
		if share := e.ShareOf(participantID); share != nil {
			amounts[v.table.Classify(e.Icon)] += share.AmountOwed
		}
	}

	totals := make([]CategoryTotal, 0, len(v.table.Categories)+1)
	for _, c := range v.table.Categories {
		totals = append(totals, CategoryTotal{Key: c.Key, Label: c.Label, Amount: amounts[c.Key]})
	}
	totals = append(totals, CategoryTotal{Key: CategoryOther, Label: CategoryOther, Amount: amounts[CategoryOther]})
	return totals
}

// Ranking totals every participant's owed shares, optionally restricted to one
// category key (empty means all), highest first. Ties keep participant order.
func (v *Views) Ranking(expenses []models.Expense, participants []models.Participant, category string) []RankEntry {
	totals := make(map[string]int64)
	for i := range expenses {
		e := &expenses[i]
		if v.table.IsReimbursement(e) {
			continue
		}
		if category != "" && v.table.Classify(e.Icon) != category {
			continue
		}
		for _, s := range e.Shares {
			totals[s.ParticipantID] += s.AmountOwed
		}
	}

	ranking := make([]RankEntry, len(participants))
	for i, p := range participants {
		ranking[i] = RankEntry{ParticipantID: p.ID, Amount: totals[p.ID]}
	}
	sort.SliceStable(ranking, func(a, b int) bool { return ranking[a].Amount > ranking[b].Amount })
	return ranking
}

// Summarize computes every view for participantID.
func (v *Views) Summarize(expenses []models.Expense, obligations []models.Obligation, participantID string, period Period) Summary {
	return Summary{
		ParticipantID: participantID,
		Spend:         v.Spend(expenses, participantID),
		NetOwed:       NetOwed(obligations, participantID),
		Categories:    v.CategoryTotals(expenses, participantID, period),
	}
}

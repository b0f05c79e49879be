package views

import (
	"testing"

	"github.com/mmynk/dutchpay/internal/models"
)

func expense(title, icon, date, payer string, shares map[string]int64) models.Expense {
	e := models.Expense{Title: title, Icon: icon, Date: date, PayerID: payer}
	for _, p := range []string{"A", "B", "C"} {
		if amt, ok := shares[p]; ok {
			e.Shares = append(e.Shares, models.ExpenseShare{ParticipantID: p, AmountOwed: amt})
			e.TotalAmount += amt
		}
	}
	return e
}

func fixture() []models.Expense {
	return []models.Expense{
		expense("Dinner", "/icons/food.png", "2026-03-01", "A", map[string]int64{"A": 3000, "B": 3000, "C": 3000}),
		expense("Beer", "/icons/beers.png", "2026-03-02", "B", map[string]int64{"B": 1500, "C": 1500}),
		expense("Taxi", "/icons/taxi.png", "2026-04-10", "C", map[string]int64{"A": 1000, "C": 1000}),
		expense("Gift", "/icons/unknown.png", "2026-04-11", "A", map[string]int64{"A": 500}),
		expense("환급", "/icons/food.png", "2026-04-12", "B", map[string]int64{"A": 2000}),
		expense("Back", "/icons/reimburse.png", "2026-04-12", "C", map[string]int64{"A": 700}),
	}
}

func TestSpend(t *testing.T) {
	v := New(nil)
	expenses := fixture()

	tests := []struct {
		participant string
		want        Spend
	}{
		{participant: "A", want: Spend{Mine: 4500, Total: 14500}},
		{participant: "B", want: Spend{Mine: 4500, Total: 14500}},
		{participant: "C", want: Spend{Mine: 5500, Total: 14500}},
		{participant: "Z", want: Spend{Mine: 0, Total: 14500}},
	}
	for _, tt := range tests {
		t.Run(tt.participant, func(t *testing.T) {
			if got := v.Spend(expenses, tt.participant); got != tt.want {
				t.Errorf("Spend(%s) = %+v, want %+v", tt.participant, got, tt.want)
			}
		})
	}
}

func TestNetOwed(t *testing.T) {
	obligations := []models.Obligation{
		{DebtorID: "B", CreditorID: "A", Amount: 1500},
		{DebtorID: "C", CreditorID: "A", Amount: 4500},
		{DebtorID: "A", CreditorID: "D", Amount: 1000},
		{DebtorID: "C", CreditorID: "A", Amount: 9999, IsCompleted: true},
	}

	tests := map[string]int64{"A": 5000, "B": -1500, "C": -4500, "D": 1000, "E": 0}
	for p, want := range tests {
		if got := NetOwed(obligations, p); got != want {
			t.Errorf("NetOwed(%s) = %d, want %d", p, got, want)
		}
	}
}

func TestCategoryTotals(t *testing.T) {
	v := New(nil)
	expenses := fixture()

	totals := v.CategoryTotals(expenses, "A", Period{})
	got := make(map[string]int64)
	for _, c := range totals {
		got[c.Key] = c.Amount
	}
	want := map[string]int64{"food": 3000, "drinks": 0, "transport": 1000, "other": 500}
	for k, w := range want {
		if got[k] != w {
			t.Errorf("category %s = %d, want %d", k, got[k], w)
		}
	}
	if last := totals[len(totals)-1]; last.Key != CategoryOther {
		t.Errorf("last category = %s, want %s", last.Key, CategoryOther)
	}
	if len(totals) != len(v.Table().Categories)+1 {
		t.Errorf("got %d categories, want %d", len(totals), len(v.Table().Categories)+1)
	}

	april := v.CategoryTotals(expenses, "A", Period{From: "2026-04-01", To: "2026-04-30"})
	for _, c := range april {
		if c.Key == "food" && c.Amount != 0 {
			t.Errorf("april food = %d, want 0", c.Amount)
		}
		if c.Key == "transport" && c.Amount != 1000 {
			t.Errorf("april transport = %d, want 1000", c.Amount)
		}
	}
}

func TestRanking(t *testing.T) {
	v := New(nil)
	participants := []models.Participant{{ID: "A"}, {ID: "B"}, {ID: "C"}}

	all := v.Ranking(fixture(), participants, "")
	want := []RankEntry{{"C", 5500}, {"A", 4500}, {"B", 4500}}
	for i := range want {
		if all[i] != want[i] {
			t.Errorf("ranking[%d] = %+v, want %+v", i, all[i], want[i])
		}
	}

	drinks := v.Ranking(fixture(), participants, "drinks")
	if drinks[0].Amount != 1500 || drinks[2].ParticipantID != "A" || drinks[2].Amount != 0 {
		t.Errorf("drinks ranking = %+v", drinks)
	}
}

func TestSummarizeIsIdempotent(t *testing.T) {
	v := New(nil)
	expenses := fixture()
	obligations := []models.Obligation{{DebtorID: "B", CreditorID: "A", Amount: 1500}}

	first := v.Summarize(expenses, obligations, "A", Period{})
	second := v.Summarize(expenses, obligations, "A", Period{})
	if first.Spend != second.Spend || first.NetOwed != second.NetOwed {
		t.Fatalf("summaries differ: %+v vs %+v", first, second)
	}
	for i := range first.Categories {
		if first.Categories[i] != second.Categories[i] {
			t.Errorf("category %d differs: %+v vs %+v", i, first.Categories[i], second.Categories[i])
		}
	}
}

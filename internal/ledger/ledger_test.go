package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/dutchpay/internal/models"
	"github.com/mmynk/dutchpay/internal/storage"
	"github.com/mmynk/dutchpay/internal/storage/sqlite"
	"github.com/mmynk/dutchpay/internal/views"
)

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	ledger  *Ledger
	store   *sqlite.SQLiteStore
	group   *models.Group
	a, b, c models.Participant
}

func setupLedger(t *testing.T, cfg Config) *fixture {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if cfg.Now == nil {
		cfg.Now = func() time.Time { return fixedNow }
	}
	f := &fixture{ledger: New(store, cfg), store: store}
	f.group, f.a, f.b, f.c = seedGroup(t, store, "TRIP0001")
	return f
}

func seedGroup(t *testing.T, store storage.Store, code string) (*models.Group, models.Participant, models.Participant, models.Participant) {
	t.Helper()
	ctx := context.Background()
	group := &models.Group{Name: "Trip", InviteCode: code, OwnerID: "user-a"}
	var ps []models.Participant
	err := store.InTx(ctx, func(tx storage.Tx) error {
		if err := tx.CreateGroup(ctx, group); err != nil {
			return err
		}
		for _, name := range []string{"A", "B", "C"} {
			p := &models.Participant{GroupID: group.ID, Name: name, PaymentMethod: models.PaymentMethodBank, PaymentAccount: name + "-acct"}
			if err := tx.CreateParticipant(ctx, p); err != nil {
				return err
			}
			ps = append(ps, *p)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return group, ps[0], ps[1], ps[2]
}

func shares(ids ...string) []models.ShareInput {
	in := make([]models.ShareInput, len(ids))
	for i, id := range ids {
		in[i] = models.ShareInput{ParticipantID: id}
	}
	return in
}

// seedScenario records two expenses leaving B owing A 1500 and C owing A 4500.
func (f *fixture) seedScenario(t *testing.T) (*models.Expense, *models.Expense) {
	t.Helper()
	ctx := context.Background()
	dinner, err := f.ledger.CreateExpense(ctx, ExpenseInput{
		GroupID: f.group.ID, Title: "Dinner", Icon: "/icons/food.png", TotalAmount: 3000,
		PayerID: f.a.ID, SplitType: models.SplitEqual, Participants: shares(f.a.ID, f.b.ID, f.c.ID),
		Date: "2024-05-01",
	})
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	taxi, err := f.ledger.CreateExpense(ctx, ExpenseInput{
		GroupID: f.group.ID, Title: "Taxi", Icon: "/icons/taxi.png", TotalAmount: 4000,
		PayerID: f.a.ID, SplitType: models.SplitAmount,
		Participants: []models.ShareInput{{ParticipantID: f.b.ID, Amount: 500}, {ParticipantID: f.c.ID}},
		Date:         "2024-05-02",
	})
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	return dinner, taxi
}

func (f *fixture) obligations(t *testing.T) []models.Obligation {
	t.Helper()
	obs, err := f.store.ListObligations(context.Background(), f.group.ID)
	if err != nil {
		t.Fatalf("ListObligations failed: %v", err)
	}
	return obs
}

func find(obs []models.Obligation, debtor, creditor string) *models.Obligation {
	for i := range obs {
		if obs[i].DebtorID == debtor && obs[i].CreditorID == creditor {
			return &obs[i]
		}
	}
	return nil
}

func TestCreateExpenseResolvesObligations(t *testing.T) {
	f := setupLedger(t, Config{})
	dinner, taxi := f.seedScenario(t)

	if got := []int64{dinner.Shares[0].AmountOwed, dinner.Shares[1].AmountOwed, dinner.Shares[2].AmountOwed}; got[0] != 1000 || got[1] != 1000 || got[2] != 1000 {
		t.Errorf("dinner shares = %v, want 1000 each", got)
	}
	if taxi.Shares[1].AmountOwed != 3500 {
		t.Errorf("taxi remainder = %d, want 3500", taxi.Shares[1].AmountOwed)
	}

	obs := f.obligations(t)
	if len(obs) != 2 {
		t.Fatalf("got %d obligations, want 2: %+v", len(obs), obs)
	}
	if obs[0].DebtorID != f.c.ID || obs[0].Amount != 4500 {
		t.Errorf("first obligation = %+v, want C owes 4500", obs[0])
	}
	if obs[1].DebtorID != f.b.ID || obs[1].Amount != 1500 {
		t.Errorf("second obligation = %+v, want B owes 1500", obs[1])
	}
	for _, o := range obs {
		if o.CreditorID != f.a.ID || o.IsCompleted || o.ID == "" || o.Batch == "" {
			t.Errorf("unexpected obligation %+v", o)
		}
	}
}

func TestCreateExpenseDefaultsDate(t *testing.T) {
	f := setupLedger(t, Config{})
	e, err := f.ledger.CreateExpense(context.Background(), ExpenseInput{
		GroupID: f.group.ID, Title: "Snacks", TotalAmount: 100, PayerID: f.a.ID, Participants: shares(f.a.ID, f.b.ID),
	})
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if e.Date != "2024-05-10" {
		t.Errorf("Date = %q, want 2024-05-10", e.Date)
	}
	if e.SplitType != models.SplitEqual {
		t.Errorf("SplitType = %q, want equal", e.SplitType)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	f := setupLedger(t, Config{})
	other, x, _, _ := seedGroup(t, f.store, "OTHER001")
	_ = other

	valid := func() ExpenseInput {
		return ExpenseInput{
			GroupID: f.group.ID, Title: "Lunch", TotalAmount: 900, PayerID: f.a.ID,
			SplitType: models.SplitEqual, Participants: shares(f.a.ID, f.b.ID), Date: "2024-05-03",
		}
	}

	tests := []struct {
		name   string
		mutate func(in *ExpenseInput)
		want   error
	}{
		{name: "empty title", mutate: func(in *ExpenseInput) { in.Title = "  " }, want: models.ErrInvalidArgument},
		{name: "bad date", mutate: func(in *ExpenseInput) { in.Date = "05/03/2024" }, want: models.ErrInvalidArgument},
		{name: "zero total", mutate: func(in *ExpenseInput) { in.TotalAmount = 0 }, want: models.ErrInvalidAmount},
		{name: "negative total", mutate: func(in *ExpenseInput) { in.TotalAmount = -5 }, want: models.ErrInvalidAmount},
		{name: "no participants", mutate: func(in *ExpenseInput) { in.Participants = nil }, want: models.ErrInvalidSplit},
		{name: "unknown split type", mutate: func(in *ExpenseInput) { in.SplitType = "shares" }, want: models.ErrInvalidSplit},
		{name: "duplicate participant", mutate: func(in *ExpenseInput) { in.Participants = shares(f.a.ID, f.a.ID) }, want: models.ErrInvalidSplit},
		{name: "unknown group", mutate: func(in *ExpenseInput) { in.GroupID = "nope" }, want: models.ErrNotFound},
		{name: "unknown payer", mutate: func(in *ExpenseInput) { in.PayerID = "nope" }, want: models.ErrNotFound},
		{name: "missing payer", mutate: func(in *ExpenseInput) { in.PayerID = "" }, want: models.ErrInvalidArgument},
		{name: "payer from other group", mutate: func(in *ExpenseInput) { in.PayerID = x.ID }, want: models.ErrUnauthorized},
		{name: "participant from other group", mutate: func(in *ExpenseInput) { in.Participants = shares(f.a.ID, x.ID) }, want: models.ErrNotFound},
		{
			name: "over allocated",
			mutate: func(in *ExpenseInput) {
				in.SplitType = models.SplitAmount
				in.Participants = []models.ShareInput{{ParticipantID: f.a.ID, Amount: 1000}, {ParticipantID: f.b.ID}}
			},
			want: models.ErrOverAllocated,
		},
		{
			name: "zero ratios",
			mutate: func(in *ExpenseInput) {
				in.SplitType = models.SplitRatio
				in.Participants = shares(f.a.ID, f.b.ID)
			},
			want: models.ErrInvalidSplit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			_, err := f.ledger.CreateExpense(context.Background(), in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	expenses, err := f.store.ListExpenses(context.Background(), f.group.ID)
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(expenses) != 0 {
		t.Errorf("failed creates persisted %d expenses", len(expenses))
	}
	if obs := f.obligations(t); len(obs) != 0 {
		t.Errorf("failed creates produced obligations: %+v", obs)
	}
}

func TestRatioExpense(t *testing.T) {
	f := setupLedger(t, Config{})
	e, err := f.ledger.CreateExpense(context.Background(), ExpenseInput{
		GroupID: f.group.ID, Title: "Hotel", TotalAmount: 1000, PayerID: f.a.ID, SplitType: models.SplitRatio,
		Participants: []models.ShareInput{
			{ParticipantID: f.a.ID, Ratio: decimal.NewFromInt(1)},
			{ParticipantID: f.b.ID, Ratio: decimal.NewFromInt(1)},
			{ParticipantID: f.c.ID, Ratio: decimal.NewFromInt(1)},
		},
	})
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	want := []int64{334, 333, 333}
	for i, s := range e.Shares {
		if s.AmountOwed != want[i] {
			t.Errorf("share %d = %d, want %d", i, s.AmountOwed, want[i])
		}
		if !s.Ratio.Equal(decimal.NewFromInt(1)) {
			t.Errorf("share %d ratio = %s, want 1", i, s.Ratio)
		}
	}
}

func TestUpdateExpense(t *testing.T) {
	f := setupLedger(t, Config{})
	ctx := context.Background()
	dinner, _ := f.seedScenario(t)
	before := f.obligations(t)

	if _, err := f.ledger.MarkSharePaid(ctx, dinner.Shares[1].ID); err != nil {
		t.Fatalf("MarkSharePaid failed: %v", err)
	}

	total := int64(6000)
	updated, err := f.ledger.UpdateExpense(ctx, dinner.ID, ExpenseUpdate{TotalAmount: &total})
	if err != nil {
		t.Fatalf("UpdateExpense failed: %v", err)
	}
	for _, s := range updated.Shares {
		if s.AmountOwed != 2000 {
			t.Errorf("share %s = %d, want 2000", s.ParticipantID, s.AmountOwed)
		}
	}
	if !updated.Shares[1].IsPaid || updated.Shares[1].ID != dinner.Shares[1].ID {
		t.Errorf("paid share lost its state: %+v", updated.Shares[1])
	}
	if updated.UpdatedAt != fixedNow.Unix() {
		t.Errorf("UpdatedAt = %d, want %d", updated.UpdatedAt, fixedNow.Unix())
	}

	after := f.obligations(t)
	bOwes := find(after, f.b.ID, f.a.ID)
	cOwes := find(after, f.c.ID, f.a.ID)
	if bOwes == nil || bOwes.Amount != 2500 || cOwes == nil || cOwes.Amount != 5500 {
		t.Fatalf("obligations after update = %+v", after)
	}
	if bOwes.ID != find(before, f.b.ID, f.a.ID).ID || cOwes.ID != find(before, f.c.ID, f.a.ID).ID {
		t.Error("open obligations did not keep their IDs")
	}
}

func TestUpdateExpenseChangesParticipants(t *testing.T) {
	f := setupLedger(t, Config{})
	ctx := context.Background()
	dinner, _ := f.seedScenario(t)

	updated, err := f.ledger.UpdateExpense(ctx, dinner.ID, ExpenseUpdate{Participants: shares(f.a.ID, f.b.ID)})
	if err != nil {
		t.Fatalf("UpdateExpense failed: %v", err)
	}
	if len(updated.Shares) != 2 || updated.Shares[0].AmountOwed != 1500 || updated.Shares[1].AmountOwed != 1500 {
		t.Errorf("shares = %+v", updated.Shares)
	}

	// B owes 1500+500, C owes 3500.
	obs := f.obligations(t)
	if o := find(obs, f.b.ID, f.a.ID); o == nil || o.Amount != 2000 {
		t.Errorf("B obligation = %+v, want 2000", o)
	}
	if o := find(obs, f.c.ID, f.a.ID); o == nil || o.Amount != 3500 {
		t.Errorf("C obligation = %+v, want 3500", o)
	}
}

func TestUpdateExpenseErrors(t *testing.T) {
	f := setupLedger(t, Config{})
	dinner, taxi := f.seedScenario(t)

	amount := models.SplitAmount
	tooSmall := int64(100)
	empty := ""
	stranger := "nope"

	tests := []struct {
		name string
		id   string
		upd  ExpenseUpdate
		want error
	}{
		{name: "missing expense", id: "nope", upd: ExpenseUpdate{}, want: models.ErrNotFound},
		{name: "split type change without inputs", id: dinner.ID, upd: ExpenseUpdate{SplitType: &amount}, want: models.ErrInconsistentSplit},
		{name: "total below explicit amounts", id: taxi.ID, upd: ExpenseUpdate{TotalAmount: &tooSmall}, want: models.ErrOverAllocated},
		{name: "empty title", id: dinner.ID, upd: ExpenseUpdate{Title: &empty}, want: models.ErrInvalidArgument},
		{name: "unknown payer", id: dinner.ID, upd: ExpenseUpdate{PayerID: &stranger}, want: models.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ledger.UpdateExpense(context.Background(), tt.id, tt.upd)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	got, err := f.ledger.GetExpense(context.Background(), taxi.ID)
	if err != nil {
		t.Fatalf("GetExpense failed: %v", err)
	}
	if got.TotalAmount != 4000 || got.SplitType != models.SplitAmount {
		t.Errorf("failed update changed the expense: %+v", got)
	}
}

func TestDeleteExpense(t *testing.T) {
	f := setupLedger(t, Config{})
	ctx := context.Background()
	dinner, taxi := f.seedScenario(t)

	if err := f.ledger.DeleteExpense(ctx, taxi.ID); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}
	obs := f.obligations(t)
	if len(obs) != 2 || find(obs, f.b.ID, f.a.ID).Amount != 1000 || find(obs, f.c.ID, f.a.ID).Amount != 1000 {
		t.Errorf("obligations after delete = %+v", obs)
	}

	if err := f.ledger.DeleteExpense(ctx, dinner.ID); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}
	if obs := f.obligations(t); len(obs) != 0 {
		t.Errorf("obligations remain after deleting everything: %+v", obs)
	}

	if err := f.ledger.DeleteExpense(ctx, dinner.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	f := setupLedger(t, Config{})
	ctx := context.Background()
	f.seedScenario(t)

	first, err := f.ledger.Recompute(ctx, f.group.ID)
	if err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}
	second, err := f.ledger.Recompute(ctx, f.group.ID)
	if err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("recompute changed obligation count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		if a.ID != b.ID || a.DebtorID != b.DebtorID || a.CreditorID != b.CreditorID || a.Amount != b.Amount || a.IsCompleted != b.IsCompleted {
			t.Errorf("obligation %d changed: %+v vs %+v", i, a, b)
		}
	}

	if _, err := f.ledger.Recompute(ctx, "nope"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Recompute(unknown) err = %v, want ErrNotFound", err)
	}
}

func TestMarkSharePaid(t *testing.T) {
	f := setupLedger(t, Config{})
	ctx := context.Background()
	dinner, _ := f.seedScenario(t)
	before := f.obligations(t)

	share, err := f.ledger.MarkSharePaid(ctx, dinner.Shares[2].ID)
	if err != nil {
		t.Fatalf("MarkSharePaid failed: %v", err)
	}
	if !share.Paid() || share.PaidAt != fixedNow.Unix() {
		t.Errorf("share = %+v", share)
	}

	if _, err := f.ledger.MarkSharePaid(ctx, dinner.Shares[2].ID); !errors.Is(err, models.ErrAlreadyCompleted) {
		t.Errorf("second mark err = %v, want ErrAlreadyCompleted", err)
	}
	if _, err := f.ledger.MarkSharePaid(ctx, "nope"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("unknown share err = %v, want ErrNotFound", err)
	}

	after := f.obligations(t)
	for i := range before {
		if before[i].Amount != after[i].Amount || after[i].IsCompleted {
			t.Errorf("marking a share changed obligations: %+v -> %+v", before[i], after[i])
		}
	}
}

func TestMarkObligationCompletedRecordsRepayment(t *testing.T) {
	var notified []models.Obligation
	f := setupLedger(t, Config{
		RecordRepayments: true,
		Hook:             HookFunc(func(_ context.Context, o models.Obligation) { notified = append(notified, o) }),
	})
	ctx := context.Background()
	f.seedScenario(t)

	target := find(f.obligations(t), f.c.ID, f.a.ID)
	open := find(f.obligations(t), f.b.ID, f.a.ID)

	done, err := f.ledger.MarkObligationCompleted(ctx, target.ID)
	if err != nil {
		t.Fatalf("MarkObligationCompleted failed: %v", err)
	}
	if !done.IsCompleted || done.CompletedAt != fixedNow.Unix() {
		t.Errorf("completed obligation = %+v", done)
	}
	if len(notified) != 1 || notified[0].ID != target.ID {
		t.Errorf("hook saw %+v", notified)
	}

	expenses, err := f.ledger.GetGroupExpenses(ctx, f.group.ID)
	if err != nil {
		t.Fatalf("GetGroupExpenses failed: %v", err)
	}
	var repayment *models.Expense
	for i := range expenses {
		if expenses[i].IsRepayment() {
			repayment = &expenses[i]
		}
	}
	if repayment == nil {
		t.Fatal("no repayment expense recorded")
	}
	if repayment.SettlesObligationID != target.ID || repayment.PayerID != f.c.ID ||
		repayment.TotalAmount != 4500 || repayment.Title != RepaymentTitle || repayment.Icon != RepaymentIcon {
		t.Errorf("repayment = %+v", repayment)
	}
	if len(repayment.Shares) != 1 || repayment.Shares[0].ParticipantID != f.a.ID || !repayment.Shares[0].IsPaid {
		t.Errorf("repayment shares = %+v", repayment.Shares)
	}

	report, err := f.ledger.GetGroupObligations(ctx, f.group.ID)
	if err != nil {
		t.Fatalf("GetGroupObligations failed: %v", err)
	}
	if report.TotalTransactions != 2 || len(report.Results) != 2 {
		t.Fatalf("report = %+v", report)
	}
	first, second := report.Results[0], report.Results[1]
	if first.ID != open.ID || first.IsCompleted || first.Amount != 1500 {
		t.Errorf("open obligation = %+v", first)
	}
	if first.DebtorName != "B" || first.CreditorName != "A" || first.CreditorPaymentAccount != "A-acct" {
		t.Errorf("display details = %+v", first)
	}
	if second.ID != target.ID || !second.IsCompleted || second.Amount != 4500 {
		t.Errorf("history obligation = %+v", second)
	}

	if _, err := f.ledger.MarkObligationCompleted(ctx, target.ID); !errors.Is(err, models.ErrAlreadyCompleted) {
		t.Errorf("second completion err = %v, want ErrAlreadyCompleted", err)
	}
	if len(notified) != 1 {
		t.Errorf("hook fired on failed completion")
	}
}

func TestCompletionCarriesForwardWithoutRepayments(t *testing.T) {
	f := setupLedger(t, Config{})
	ctx := context.Background()
	dinner, _ := f.seedScenario(t)

	target := find(f.obligations(t), f.c.ID, f.a.ID)
	if _, err := f.ledger.MarkObligationCompleted(ctx, target.ID); err != nil {
		t.Fatalf("MarkObligationCompleted failed: %v", err)
	}

	// An unrelated edit regenerates obligations; C still owes 4500.
	title := "Dinner at Jeju"
	if _, err := f.ledger.UpdateExpense(ctx, dinner.ID, ExpenseUpdate{Title: &title}); err != nil {
		t.Fatalf("UpdateExpense failed: %v", err)
	}

	obs := f.obligations(t)
	carried := find(obs, f.c.ID, f.a.ID)
	if carried == nil || carried.ID != target.ID || !carried.IsCompleted || carried.CompletedAt != fixedNow.Unix() {
		t.Errorf("completion did not carry forward: %+v", carried)
	}

	report, err := f.ledger.GetGroupObligations(ctx, f.group.ID)
	if err != nil {
		t.Fatalf("GetGroupObligations failed: %v", err)
	}
	open := 0
	for _, r := range report.Results {
		if !r.IsCompleted {
			open++
		}
	}
	if open != 1 || report.TotalTransactions != 2 {
		t.Errorf("open = %d, total = %d, want 1 open of 2", open, report.TotalTransactions)
	}
}

func TestSummaryAndRanking(t *testing.T) {
	f := setupLedger(t, Config{RecordRepayments: true})
	ctx := context.Background()
	f.seedScenario(t)

	summary, err := f.ledger.Summary(ctx, f.group.ID, f.b.ID, views.Period{})
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.Spend.Total != 7000 || summary.Spend.Mine != 1500 || summary.NetOwed != -1500 {
		t.Errorf("summary = %+v", summary)
	}

	// Completing records a repayment, which must not count as spend.
	target := find(f.obligations(t), f.b.ID, f.a.ID)
	if _, err := f.ledger.MarkObligationCompleted(ctx, target.ID); err != nil {
		t.Fatalf("MarkObligationCompleted failed: %v", err)
	}
	summary, err = f.ledger.Summary(ctx, f.group.ID, f.b.ID, views.Period{From: "2024-05-02", To: "2024-05-31"})
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.Spend.Total != 7000 || summary.NetOwed != 0 {
		t.Errorf("summary after repayment = %+v", summary)
	}
	for _, c := range summary.Categories {
		want := int64(0)
		if c.Key == "transport" {
			want = 500
		}
		if c.Amount != want {
			t.Errorf("category %s = %d, want %d", c.Key, c.Amount, want)
		}
	}

	ranking, err := f.ledger.Ranking(ctx, f.group.ID, "")
	if err != nil {
		t.Fatalf("Ranking failed: %v", err)
	}
	if len(ranking) != 3 || ranking[0].ParticipantID != f.c.ID || ranking[0].Amount != 4500 {
		t.Errorf("ranking = %+v", ranking)
	}

	food, err := f.ledger.Ranking(ctx, f.group.ID, "food")
	if err != nil {
		t.Fatalf("Ranking failed: %v", err)
	}
	for _, r := range food {
		if r.Amount != 1000 {
			t.Errorf("food ranking entry = %+v, want 1000", r)
		}
	}

	if _, err := f.ledger.Ranking(ctx, f.group.ID, "space"); !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("unknown category err = %v, want ErrInvalidArgument", err)
	}
	if _, err := f.ledger.Summary(ctx, f.group.ID, f.b.ID, views.Period{From: "2024-06-01", To: "2024-05-01"}); !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("inverted period err = %v, want ErrInvalidArgument", err)
	}
}

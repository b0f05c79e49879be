package views

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mmynk/dutchpay/internal/models"
)

func TestIconToken(t *testing.T) {
	tests := map[string]string{
		"/icons/food.png": "food",
		"food":            "food",
		"/icons/sea.svg":  "sea",
		"":                "",
		"  /a/b/taxi.png": "taxi",
	}
	for in, want := range tests {
		if got := IconToken(in); got != want {
			t.Errorf("IconToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDefaultClassify(t *testing.T) {
	table := DefaultCategoryTable()
	tests := map[string]string{
		"/icons/food.png":     "food",
		"/icons/beers.png":    "drinks",
		"/icons/bus.png":      "transport",
		"/icons/movie.png":    "leisure",
		"/icons/shopping.png": "shopping",
		"/icons/mountain.png": "travel",
		"/icons/cat.png":      CategoryOther,
		"":                    CategoryOther,
	}
	for icon, want := range tests {
		if got := table.Classify(icon); got != want {
			t.Errorf("Classify(%q) = %q, want %q", icon, got, want)
		}
	}
}

func TestIsReimbursement(t *testing.T) {
	table := DefaultCategoryTable()
	tests := []struct {
		name    string
		expense models.Expense
		want    bool
	}{
		{name: "reimburse icon", expense: models.Expense{Icon: "/icons/reimburse.png"}, want: true},
		{name: "repayment title", expense: models.Expense{Title: "상환"}, want: true},
		{name: "refund title", expense: models.Expense{Title: "환급"}, want: true},
		{name: "linked repayment", expense: models.Expense{Title: "x", SettlesObligationID: "ob"}, want: true},
		{name: "normal expense", expense: models.Expense{Title: "Dinner", Icon: "/icons/food.png"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.IsReimbursement(&tt.expense); got != tt.want {
				t.Errorf("IsReimbursement = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadCategoryTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "categories.yaml")
	data := `
categories:
  - key: coffee
    label: Coffee
    icons: [coffee, cafe]
  - key: food
    icons: [food]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("failed to write table: %v", err)
	}

	table, err := LoadCategoryTable(path)
	if err != nil {
		t.Fatalf("LoadCategoryTable failed: %v", err)
	}
	if got := table.Classify("/icons/cafe.png"); got != "coffee" {
		t.Errorf("Classify(cafe) = %q, want coffee", got)
	}
	if got := table.Classify("/icons/beers.png"); got != CategoryOther {
		t.Errorf("Classify(beers) = %q, want other", got)
	}
	if !table.IsReimbursement(&models.Expense{Title: "상환"}) {
		t.Error("expected default reimbursement titles to apply")
	}

	empty, err := LoadCategoryTable("")
	if err != nil || len(empty.Categories) != 6 {
		t.Errorf("LoadCategoryTable(\"\") = %v, %v; want default table", empty, err)
	}
}

func TestParseCategoryTableErrors(t *testing.T) {
	tests := map[string]string{
		"duplicate icon": "categories:\n  - key: a\n    icons: [x]\n  - key: b\n    icons: [x]\n",
		"reserved key":   "categories:\n  - key: other\n    icons: [x]\n",
		"no categories":  "reimbursement:\n  titles: [r]\n",
		"bad yaml":       "categories: [",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseCategoryTable([]byte(data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

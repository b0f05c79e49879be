package views

import (
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/dutchpay/internal/models"
)

// CategoryOther collects expenses whose icon maps to no category.
const CategoryOther = "other"

// Category maps a category key to the icon tokens classified under it.
type Category struct {
	Key   string   `yaml:"key"`
	Label string   `yaml:"label"`
	Icons []string `yaml:"icons"`
}

// Reimbursement identifies expenses that return money rather than spend it.
type Reimbursement struct {
	Icons  []string `yaml:"icons"`
	Titles []string `yaml:"titles"`
}

// CategoryTable is the explicit category → icon token mapping used by the
// aggregation views.
type CategoryTable struct {
	Categories    []Category    `yaml:"categories"`
	Reimbursement Reimbursement `yaml:"reimbursement"`

	byIcon map[string]string
}

// DefaultCategoryTable returns the built-in table.
func DefaultCategoryTable() *CategoryTable {
	t := &CategoryTable{
		Categories: []Category{
			{Key: "food", Label: "식비", Icons: []string{"food"}},
			{Key: "drinks", Label: "음주", Icons: []string{"beers", "drinks"}},
			{Key: "transport", Label: "교통", Icons: []string{"bus", "taxi"}},
			{Key: "leisure", Label: "여가", Icons: []string{"bowling", "friendship", "fun", "game", "movie", "music"}},
			{Key: "shopping", Label: "쇼핑", Icons: []string{"shopping"}},
			{Key: "travel", Label: "여행", Icons: []string{"travel", "sea", "mountain", "relax"}},
		},
		Reimbursement: Reimbursement{
			Icons:  []string{"reimburse"},
			Titles: []string{"상환", "환급"},
		},
	}
	t.index()
	return t
}

// LoadCategoryTable reads a YAML category table from path.
// An empty path returns DefaultCategoryTable.
func LoadCategoryTable(path string) (*CategoryTable, error) {
	if path == "" {
		return DefaultCategoryTable(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read category table %s: %w", path, err)
	}
	return ParseCategoryTable(data)
}

// ParseCategoryTable parses a YAML category table. Missing reimbursement
// sentinels fall back to the defaults.
func ParseCategoryTable(data []byte) (*CategoryTable, error) {
	t := &CategoryTable{}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("failed to parse category table: %w", err)
	}
	if len(t.Categories) == 0 {
		return nil, fmt.Errorf("category table defines no categories")
	}

	seen := make(map[string]string)
	for _, c := range t.Categories {
		if c.Key == "" || c.Key == CategoryOther {
			return nil, fmt.Errorf("invalid category key %q", c.Key)
		}
		for _, icon := range c.Icons {
			if prev, ok := seen[icon]; ok {
				return nil, fmt.Errorf("icon %q mapped to both %s and %s", icon, prev, c.Key)
			}
			seen[icon] = c.Key
		}
	}

	defaults := DefaultCategoryTable().Reimbursement
	if len(t.Reimbursement.Icons) == 0 {
		t.Reimbursement.Icons = defaults.Icons
	}
	if len(t.Reimbursement.Titles) == 0 {
		t.Reimbursement.Titles = defaults.Titles
	}

	t.index()
	return t, nil
}

func (t *CategoryTable) index() {
	t.byIcon = make(map[string]string)
	for _, c := range t.Categories {
		for _, icon := range c.Icons {
			t.byIcon[icon] = c.Key
		}
	}
}

// IconToken normalizes an icon reference such as "/icons/food.png" to "food".
func IconToken(icon string) string {
	icon = strings.TrimSpace(icon)
	if icon == "" {
		return ""
	}
	base := path.Base(icon)
	return strings.TrimSuffix(base, path.Ext(base))
}

// Classify returns the category key for an icon, or CategoryOther.
func (t *CategoryTable) Classify(icon string) string {
	if key, ok := t.byIcon[IconToken(icon)]; ok {
		return key
	}
	return CategoryOther
}

// IsReimbursement reports whether e returns money rather than spends it.
func (t *CategoryTable) IsReimbursement(e *models.Expense) bool {
	if e.IsRepayment() {
		return true
	}
	token := IconToken(e.Icon)
	for _, icon := range t.Reimbursement.Icons {
		if token == icon {
			return true
		}
	}
	title := strings.TrimSpace(e.Title)
	for _, s := range t.Reimbursement.Titles {
		if title == s {
			return true
		}
	}
	return false
}

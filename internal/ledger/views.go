package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/mmynk/dutchpay/internal/models"
	"github.com/mmynk/dutchpay/internal/views"
)

// Summary computes participantID's spend, net owed and category breakdown.
func (l *Ledger) Summary(ctx context.Context, groupID, participantID string, period views.Period) (*views.Summary, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	p, err := l.store.GetParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if p.GroupID != groupID {
		return nil, fmt.Errorf("%w: participant %s", models.ErrUnauthorized, participantID)
	}

	expenses, err := l.store.ListExpenses(ctx, groupID)
	if err != nil {
		return nil, err
	}
	obligations, err := l.store.ListObligations(ctx, groupID)
	if err != nil {
		return nil, err
	}

	summary := l.views.Summarize(expenses, obligations, participantID, period)
	return &summary, nil
}

// Ranking orders a group's participants by owed spend, optionally within one
// category key.
func (l *Ledger) Ranking(ctx context.Context, groupID, category string) ([]views.RankEntry, error) {
	if category != "" && !l.knownCategory(category) {
		return nil, fmt.Errorf("%w: unknown category %q", models.ErrInvalidArgument, category)
	}
	if _, err := l.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	participants, err := l.store.ListParticipants(ctx, groupID)
	if err != nil {
		return nil, err
	}
	expenses, err := l.store.ListExpenses(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return l.views.Ranking(expenses, participants, category), nil
}

// Categories returns the category table in use.
func (l *Ledger) Categories() *views.CategoryTable {
	return l.views.Table()
}

func (l *Ledger) knownCategory(key string) bool {
	if key == views.CategoryOther {
		return true
	}
	for _, c := range l.views.Table().Categories {
		if c.Key == key {
			return true
		}
	}
	return false
}

func validatePeriod(p views.Period) error {
	for _, d := range []string{p.From, p.To} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(models.DateLayout, d); err != nil {
			return fmt.Errorf("%w: date %q must be YYYY-MM-DD", models.ErrInvalidArgument, d)
		}
	}
	if p.From != "" && p.To != "" && p.From > p.To {
		return fmt.Errorf("%w: period starts after it ends", models.ErrInvalidArgument)
	}
	return nil
}

package ledger

import (
	"github.com/tally-fin/tally/internal/model"
)

// EligibleCategories returns the categories a transaction of the given kind
// may be assigned to. The editor offers only these; the data layer itself
// never enforces kind agreement.
func EligibleCategories(categories []model.Category, kind model.Kind) []model.Category {
	eligible := make([]model.Category, 0, len(categories))
	for _, cat := range categories {
		if cat.Kind == kind {
			eligible = append(eligible, cat)
		}
	}
	return eligible
}

// ReconcileSelection re-checks a category selection against the current
// eligible set, after the user switches the transaction's kind in the editor.
// A still-eligible selection is kept; an ineligible or empty one defaults to
// the first eligible category, or to no selection when none exist. A
// selection is never left silently pointing at an ineligible category.
func ReconcileSelection(selected *string, eligible []model.Category) *string {
	if selected != nil {
		for _, cat := range eligible {
			if cat.ID == *selected {
				return selected
			}
		}
	}
	if len(eligible) > 0 {
		id := eligible[0].ID
		return &id
	}
	return nil
}

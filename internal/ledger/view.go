// Package ledger derives everything the presentation layer shows: the
// filtered transaction view, its income/expense/balance totals, and the
// grouped-by-date structure. Derivations are pure functions over explicit
// inputs; nothing here caches or patches state incrementally.
package ledger

import (
	"github.com/tally-fin/tally/internal/model"
)

// TypeFilter restricts the view to one transaction kind, or to none.
type TypeFilter string

const (
	// FilterAll keeps every transaction regardless of kind.
	FilterAll TypeFilter = "all"
	// FilterExpense keeps only expense transactions.
	FilterExpense TypeFilter = "expense"
	// FilterIncome keeps only income transactions.
	FilterIncome TypeFilter = "income"
)

// Valid reports whether f is one of the known filters.
func (f TypeFilter) Valid() bool {
	return f == FilterAll || f == FilterExpense || f == FilterIncome
}

// matches reports whether a transaction of the given kind passes the filter.
func (f TypeFilter) matches(kind model.Kind) bool {
	return f == FilterAll || string(f) == string(kind)
}

// Totals holds the aggregates of a filtered view. Balance may be negative;
// Income and Expenses never are.
type Totals struct {
	Income   model.Money
	Expenses model.Money
	Balance  model.Money
}

// DeriveView returns the transactions passing both the type filter and the
// period filter. The two compose by logical AND. Input order is preserved;
// an empty result is an empty slice, never an error.
func DeriveView(all []model.Transaction, typeFilter TypeFilter, period model.Month) []model.Transaction {
	filtered := make([]model.Transaction, 0, len(all))
	for _, txn := range all {
		if !typeFilter.matches(txn.Kind) {
			continue
		}
		if !period.Contains(txn.Day()) {
			continue
		}
		filtered = append(filtered, txn)
	}
	return filtered
}

// ComputeTotals reduces a filtered view to its totals. This is always a full
// pass over the view, never an incrementally maintained counter, so the
// result can never drift from the source data. An empty view yields all
// zeros.
func ComputeTotals(filtered []model.Transaction) Totals {
	var t Totals
	for _, txn := range filtered {
		switch txn.Kind {
		case model.KindIncome:
			t.Income = t.Income.Add(txn.Amount)
		case model.KindExpense:
			t.Expenses = t.Expenses.Add(txn.Amount)
		}
	}
	t.Balance = t.Income.Sub(t.Expenses)
	return t
}

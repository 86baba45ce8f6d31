package model

import (
	"strings"
	"time"
)

// Transaction is a single income or expense row. Amount is always positive;
// Kind supplies the direction. CategoryID is a weak reference: it may be nil
// (uncategorized) and becomes nil when the referenced category is deleted.
type Transaction struct {
	Date        time.Time // calendar date, no time component
	CreatedAt   time.Time // bookkeeping only, not part of domain logic
	ID          string
	OwnerID     string
	Description string
	Kind        Kind
	Amount      Money
	CategoryID  *string

	// Resolved at list time from the linked category, when present.
	CategoryName  string
	CategoryColor string
}

// Validate checks the fields the user controls.
func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the transaction's calendar date truncated to UTC midnight.
// Grouping and month containment both work on this normalized form.
func (t Transaction) Day() time.Time {
	return time.Date(t.Date.Year(), t.Date.Month(), t.Date.Day(), 0, 0, 0, 0, time.UTC)
}

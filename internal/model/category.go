package model

import (
	"errors"
	"strings"
	"time"
)

// Validation errors shared by categories and transactions. These are caught
// locally, before any store call is issued.
var (
	ErrEmptyName        = errors.New("category name cannot be empty")
	ErrEmptyDescription = errors.New("description cannot be empty")
	ErrInvalidKind      = errors.New("kind must be expense or income")
	ErrInvalidDate      = errors.New("date cannot be zero")
)

// Category is a user-defined grouping for transactions. Each category belongs
// to exactly one owner and is never shared.
type Category struct {
	CreatedAt time.Time
	ID        string
	OwnerID   string
	Name      string
	Kind      Kind
	Color     string // display only; two categories may share a color
	Icon      string // display hint, no behavioral meaning
}

// Validate checks the fields the user controls.
func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Kind.Valid() {
		return ErrInvalidKind
	}
	return nil
}

// DefaultCategories is the starter set inserted the first time an owner loads
// the dashboard with no categories of their own: six expense categories and
// four income categories.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Groceries", Kind: KindExpense, Color: "#4ECDC4", Icon: "cart"},
		{Name: "Transport", Kind: KindExpense, Color: "#45B7D1", Icon: "bus"},
		{Name: "Housing", Kind: KindExpense, Color: "#FF6B6B", Icon: "home"},
		{Name: "Entertainment", Kind: KindExpense, Color: "#A88BEB", Icon: "film"},
		{Name: "Health", Kind: KindExpense, Color: "#6BCB77", Icon: "heart"},
		{Name: "Shopping", Kind: KindExpense, Color: "#FFA45B", Icon: "bag"},
		{Name: "Salary", Kind: KindIncome, Color: "#4D96FF", Icon: "briefcase"},
		{Name: "Freelance", Kind: KindIncome, Color: "#9D4EDD", Icon: "laptop"},
		{Name: "Investments", Kind: KindIncome, Color: "#2EC4B6", Icon: "chart"},
		{Name: "Gifts", Kind: KindIncome, Color: "#FF8FAB", Icon: "gift"},
	}
}

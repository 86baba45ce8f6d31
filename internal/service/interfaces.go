// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/tally-fin/tally/internal/model"
)

// CategoryFields carries the user-editable fields of a category for create
// and update calls.
type CategoryFields struct {
	Name  string
	Kind  model.Kind
	Color string
	Icon  string
}

// TransactionFields carries the user-editable fields of a transaction for
// create and update calls. CategoryID is a weak reference and may be nil.
type TransactionFields struct {
	Date        time.Time
	Description string
	Kind        model.Kind
	Amount      model.Money
	CategoryID  *string
}

// Store defines the contract for the persistence collaborator. Every query is
// scoped to a single owner identity; the store rejects cross-owner access on
// mutations, and callers never re-check ownership beyond scoping their own
// queries.
type Store interface {
	// Category operations
	ListCategories(ctx context.Context, ownerID string) ([]model.Category, error)
	ListCategoriesByKind(ctx context.Context, ownerID string, kind model.Kind) ([]model.Category, error)
	GetCategory(ctx context.Context, ownerID, id string) (*model.Category, error)
	CreateCategory(ctx context.Context, ownerID string, fields CategoryFields) (*model.Category, error)
	UpdateCategory(ctx context.Context, ownerID, id string, fields CategoryFields) error
	DeleteCategory(ctx context.Context, ownerID, id string) error
	EnsureDefaultCategories(ctx context.Context, ownerID string) (bool, error)

	// Transaction operations. ListTransactions resolves the linked category's
	// name and color and orders rows by date descending, newest first within
	// the same day.
	ListTransactions(ctx context.Context, ownerID string) ([]model.Transaction, error)
	GetTransaction(ctx context.Context, ownerID, id string) (*model.Transaction, error)
	CreateTransaction(ctx context.Context, ownerID string, fields TransactionFields) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, ownerID, id string, fields TransactionFields) error
	DeleteTransaction(ctx context.Context, ownerID, id string) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// Package testutil provides test helpers: in-memory databases with seeded
// owners, categories, and transactions.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/tally-fin/tally/internal/model"
	"github.com/tally-fin/tally/internal/service"
	"github.com/tally-fin/tally/internal/storage"
)

// DefaultOwner is the owner identity test databases are seeded under.
const DefaultOwner = "test-owner"

// TestDB wraps an in-memory store scoped to one owner.
type TestDB struct {
	Store   service.Store
	t       *testing.T
	OwnerID string
}

// SetupTestDB creates a migrated in-memory database. Cleanup is registered
// automatically.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Store: store, t: t, OwnerID: DefaultOwner}
}

// SeedDefaults runs first-load seeding for the test owner and returns the
// resulting categories.
func (db *TestDB) SeedDefaults(ctx context.Context) []model.Category {
	db.t.Helper()

	if _, err := db.Store.EnsureDefaultCategories(ctx, db.OwnerID); err != nil {
		db.t.Fatalf("failed to seed default categories: %v", err)
	}
	cats, err := db.Store.ListCategories(ctx, db.OwnerID)
	if err != nil {
		db.t.Fatalf("failed to list categories: %v", err)
	}
	return cats
}

// MustCreateCategory creates a category or fails the test.
func (db *TestDB) MustCreateCategory(ctx context.Context, name string, kind model.Kind) model.Category {
	db.t.Helper()

	cat, err := db.Store.CreateCategory(ctx, db.OwnerID, service.CategoryFields{Name: name, Kind: kind})
	if err != nil {
		db.t.Fatalf("failed to create category %q: %v", name, err)
	}
	return *cat
}

// MustCreateTransaction creates a transaction or fails the test.
func (db *TestDB) MustCreateTransaction(ctx context.Context, description string, kind model.Kind, cents int64, date time.Time) model.Transaction {
	db.t.Helper()

	txn, err := db.Store.CreateTransaction(ctx, db.OwnerID, service.TransactionFields{
		Date:        date,
		Description: description,
		Kind:        kind,
		Amount:      model.Money{Cents: cents},
	})
	if err != nil {
		db.t.Fatalf("failed to create transaction %q: %v", description, err)
	}
	return *txn
}

package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-fin/tally/internal/common"
	"github.com/tally-fin/tally/internal/model"
	"github.com/tally-fin/tally/internal/service"
)

const (
	testOwner  = "owner-1"
	otherOwner = "owner-2"
)

func TestCategoryCRUD(t *testing.T) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		cat, err := store.CreateCategory(ctx, testOwner, service.CategoryFields{
			Name:  "Groceries",
			Kind:  model.KindExpense,
			Color: "#4ECDC4",
			Icon:  "cart",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, cat.ID)
		assert.Equal(t, testOwner, cat.OwnerID)
		assert.Equal(t, model.KindExpense, cat.Kind)

		got, err := store.GetCategory(ctx, testOwner, cat.ID)
		require.NoError(t, err)
		assert.Equal(t, "Groceries", got.Name)
		assert.Equal(t, "#4ECDC4", got.Color)
		assert.Equal(t, "cart", got.Icon)
	})

	t.Run("create applies display defaults", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		cat, err := store.CreateCategory(ctx, testOwner, service.CategoryFields{
			Name: "Misc",
			Kind: model.KindExpense,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, cat.Color)
		assert.NotEmpty(t, cat.Icon)
	})

	t.Run("create rejects invalid fields", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		_, err := store.CreateCategory(ctx, testOwner, service.CategoryFields{Name: "", Kind: model.KindExpense})
		assert.ErrorIs(t, err, model.ErrEmptyName)

		_, err = store.CreateCategory(ctx, testOwner, service.CategoryFields{Name: "Misc", Kind: "savings"})
		assert.ErrorIs(t, err, model.ErrInvalidKind)
	})

	t.Run("update rewrites fields including kind", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		cat, err := store.CreateCategory(ctx, testOwner, service.CategoryFields{
			Name: "Consulting", Kind: model.KindExpense, Color: "#111111", Icon: "tag",
		})
		require.NoError(t, err)

		err = store.UpdateCategory(ctx, testOwner, cat.ID, service.CategoryFields{
			Name: "Consulting", Kind: model.KindIncome, Color: "#222222", Icon: "laptop",
		})
		require.NoError(t, err)

		got, err := store.GetCategory(ctx, testOwner, cat.ID)
		require.NoError(t, err)
		assert.Equal(t, model.KindIncome, got.Kind)
		assert.Equal(t, "#222222", got.Color)
	})

	t.Run("delete removes the category", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		cat, err := store.CreateCategory(ctx, testOwner, service.CategoryFields{
			Name: "Temp", Kind: model.KindExpense,
		})
		require.NoError(t, err)

		require.NoError(t, store.DeleteCategory(ctx, testOwner, cat.ID))

		_, err = store.GetCategory(ctx, testOwner, cat.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("update and delete report missing rows", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		err := store.UpdateCategory(ctx, testOwner, "no-such-id", service.CategoryFields{
			Name: "X", Kind: model.KindExpense,
		})
		assert.ErrorIs(t, err, ErrNotFound)

		assert.ErrorIs(t, store.DeleteCategory(ctx, testOwner, "no-such-id"), ErrNotFound)
	})
}

func TestListCategories(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	for _, c := range []service.CategoryFields{
		{Name: "Transport", Kind: model.KindExpense},
		{Name: "Groceries", Kind: model.KindExpense},
		{Name: "Salary", Kind: model.KindIncome},
	} {
		_, err := store.CreateCategory(ctx, testOwner, c)
		require.NoError(t, err)
	}
	_, err := store.CreateCategory(ctx, otherOwner, service.CategoryFields{
		Name: "Rent", Kind: model.KindExpense,
	})
	require.NoError(t, err)

	t.Run("scoped to owner, ordered by name", func(t *testing.T) {
		cats, err := store.ListCategories(ctx, testOwner)
		require.NoError(t, err)
		require.Len(t, cats, 3)
		assert.Equal(t, "Groceries", cats[0].Name)
		assert.Equal(t, "Salary", cats[1].Name)
		assert.Equal(t, "Transport", cats[2].Name)
	})

	t.Run("filtered by kind", func(t *testing.T) {
		expense, err := store.ListCategoriesByKind(ctx, testOwner, model.KindExpense)
		require.NoError(t, err)
		require.Len(t, expense, 2)

		income, err := store.ListCategoriesByKind(ctx, testOwner, model.KindIncome)
		require.NoError(t, err)
		require.Len(t, income, 1)
		assert.Equal(t, "Salary", income[0].Name)
	})

	t.Run("cross-owner reads see nothing", func(t *testing.T) {
		cats, err := store.ListCategories(ctx, otherOwner)
		require.NoError(t, err)
		require.Len(t, cats, 1)
		assert.Equal(t, "Rent", cats[0].Name)

		_, err = store.GetCategory(ctx, otherOwner, "")
		assert.Error(t, err)
	})
}

func TestEnsureDefaultCategories(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds an empty owner exactly once", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		seeded, err := store.EnsureDefaultCategories(ctx, testOwner)
		require.NoError(t, err)
		assert.True(t, seeded)

		cats, err := store.ListCategories(ctx, testOwner)
		require.NoError(t, err)
		require.Len(t, cats, 10)

		expense, err := store.ListCategoriesByKind(ctx, testOwner, model.KindExpense)
		require.NoError(t, err)
		assert.Len(t, expense, 6)

		income, err := store.ListCategoriesByKind(ctx, testOwner, model.KindIncome)
		require.NoError(t, err)
		assert.Len(t, income, 4)

		// A second triggering load is a no-op.
		seeded, err = store.EnsureDefaultCategories(ctx, testOwner)
		require.NoError(t, err)
		assert.False(t, seeded)

		cats, err = store.ListCategories(ctx, testOwner)
		require.NoError(t, err)
		assert.Len(t, cats, 10)
	})

	t.Run("never seeds an owner with existing categories", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		_, err := store.CreateCategory(ctx, testOwner, service.CategoryFields{
			Name: "Custom", Kind: model.KindExpense,
		})
		require.NoError(t, err)

		seeded, err := store.EnsureDefaultCategories(ctx, testOwner)
		require.NoError(t, err)
		assert.False(t, seeded)

		cats, err := store.ListCategories(ctx, testOwner)
		require.NoError(t, err)
		assert.Len(t, cats, 1)
	})

	t.Run("deleting every category does not re-trigger seeding", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		seeded, err := store.EnsureDefaultCategories(ctx, testOwner)
		require.NoError(t, err)
		require.True(t, seeded)

		cats, err := store.ListCategories(ctx, testOwner)
		require.NoError(t, err)
		for _, cat := range cats {
			require.NoError(t, store.DeleteCategory(ctx, testOwner, cat.ID))
		}

		seeded, err = store.EnsureDefaultCategories(ctx, testOwner)
		require.NoError(t, err)
		assert.False(t, seeded)

		cats, err = store.ListCategories(ctx, testOwner)
		require.NoError(t, err)
		assert.Empty(t, cats)
	})

	t.Run("seeding one owner leaves another untouched", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		_, err := store.EnsureDefaultCategories(ctx, testOwner)
		require.NoError(t, err)

		cats, err := store.ListCategories(ctx, otherOwner)
		require.NoError(t, err)
		assert.Empty(t, cats)
	})
}

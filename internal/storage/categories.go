package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tally-fin/tally/internal/model"
	"github.com/tally-fin/tally/internal/service"
)

// ListCategories returns all of an owner's categories, ordered by name.
func (s *SQLiteStorage) ListCategories(ctx context.Context, ownerID string) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, owner_id, name, kind, color, icon, created_at
		FROM categories
		WHERE owner_id = ?
		ORDER BY name`

	return s.queryCategories(ctx, query, ownerID)
}

// ListCategoriesByKind returns the owner's categories of a single kind,
// ordered by name.
func (s *SQLiteStorage) ListCategoriesByKind(ctx context.Context, ownerID string, kind model.Kind) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, model.ErrInvalidKind
	}

	query := `
		SELECT id, owner_id, name, kind, color, icon, created_at
		FROM categories
		WHERE owner_id = ? AND kind = ?
		ORDER BY name`

	return s.queryCategories(ctx, query, ownerID, string(kind))
}

func (s *SQLiteStorage) queryCategories(ctx context.Context, query string, args ...any) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.OwnerID, &cat.Name, &cat.Kind, &cat.Color, &cat.Icon, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// GetCategory returns a single category owned by ownerID, or ErrNotFound.
func (s *SQLiteStorage) GetCategory(ctx context.Context, ownerID, id string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, owner_id, name, kind, color, icon, created_at
		FROM categories
		WHERE owner_id = ? AND id = ?`

	var cat model.Category
	err := s.db.QueryRowContext(ctx, query, ownerID, id).Scan(
		&cat.ID, &cat.OwnerID, &cat.Name, &cat.Kind, &cat.Color, &cat.Icon, &cat.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return &cat, nil
}

// CreateCategory creates a new category for the owner.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, ownerID string, fields service.CategoryFields) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return nil, err
	}
	if err := validateCategoryFields(fields); err != nil {
		return nil, err
	}

	cat := &model.Category{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      fields.Name,
		Kind:      fields.Kind,
		Color:     fields.Color,
		Icon:      fields.Icon,
		CreatedAt: time.Now().UTC(),
	}
	if cat.Color == "" {
		cat.Color = "#6366F1"
	}
	if cat.Icon == "" {
		cat.Icon = "tag"
	}

	query := `
		INSERT INTO categories (id, owner_id, name, kind, color, icon, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	if _, err := s.db.ExecContext(ctx, query,
		cat.ID, cat.OwnerID, cat.Name, string(cat.Kind), cat.Color, cat.Icon, cat.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	slog.Info("created category", "id", cat.ID, "name", cat.Name, "kind", cat.Kind)
	return cat, nil
}

// UpdateCategory rewrites the user-editable fields of an owner's category.
// Changing the kind does not touch transactions already assigned to it; any
// resulting kind mismatch is tolerated, not corrected.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, ownerID, id string, fields service.CategoryFields) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if err := validateCategoryFields(fields); err != nil {
		return err
	}

	query := `
		UPDATE categories
		SET name = ?, kind = ?, color = ?, icon = ?
		WHERE owner_id = ? AND id = ?`

	result, err := s.db.ExecContext(ctx, query,
		fields.Name, string(fields.Kind), fields.Color, fields.Icon, ownerID, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}

	slog.Info("updated category", "id", id)
	return nil
}

// DeleteCategory removes an owner's category. Transactions referencing it
// survive: their category_id resolves to NULL from then on.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, ownerID, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM categories WHERE owner_id = ? AND id = ?`, ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}

	slog.Info("deleted category", "id", id)
	return nil
}

// EnsureDefaultCategories inserts the starter category set for an owner who
// has never had any. The check and the insert run in one transaction together
// with a seeded_owners marker, so seeding happens at most once per owner even
// across reloads and concurrent initial loads, and never repeats for an owner
// who later deletes every category.
func (s *SQLiteStorage) EnsureDefaultCategories(ctx context.Context, ownerID string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// The INSERT OR IGNORE is the gate: losing the race, or having been
	// seeded in any earlier session, means no rows and no seeding.
	result, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO seeded_owners (owner_id) VALUES (?)`, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to mark owner as seeded: %w", err)
	}
	marked, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check seed marker: %w", err)
	}
	if marked == 0 {
		return false, nil
	}

	var existing int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE owner_id = ?`, ownerID).Scan(&existing)
	if err != nil {
		return false, fmt.Errorf("failed to count categories: %w", err)
	}
	if existing > 0 {
		// Owner already created categories by hand; remember that and skip.
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("failed to commit seed marker: %w", err)
		}
		return false, nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO categories (id, owner_id, name, kind, color, icon, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return false, fmt.Errorf("failed to prepare seed statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC()
	for _, cat := range model.DefaultCategories() {
		if _, err := stmt.ExecContext(ctx,
			uuid.NewString(), ownerID, cat.Name, string(cat.Kind), cat.Color, cat.Icon, now,
		); err != nil {
			return false, fmt.Errorf("failed to seed category %q: %w", cat.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit seeding: %w", err)
	}

	slog.Info("seeded default categories", "owner", ownerID, "count", len(model.DefaultCategories()))
	return true, nil
}

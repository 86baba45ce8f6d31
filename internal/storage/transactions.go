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

const transactionColumns = `
	t.id, t.owner_id, t.date, t.description, t.kind, t.amount_cents,
	t.category_id, c.name, c.color, t.created_at`

// ListTransactions returns every transaction of an owner with the linked
// category's name and color resolved, ordered by date descending and newest
// first within the same day. A deleted category resolves to no category.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, ownerID string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.owner_id = ?
		ORDER BY t.date DESC, t.created_at DESC, t.rowid DESC`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	slog.Debug("retrieved transactions", "owner", ownerID, "count", len(transactions))
	return transactions, nil
}

// GetTransaction returns a single transaction owned by ownerID, or ErrNotFound.
func (s *SQLiteStorage) GetTransaction(ctx context.Context, ownerID, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.owner_id = ? AND t.id = ?`

	row := s.db.QueryRowContext(ctx, query, ownerID, id)
	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (model.Transaction, error) {
	var (
		txn        model.Transaction
		cents      int64
		categoryID sql.NullString
		catName    sql.NullString
		catColor   sql.NullString
	)

	err := row.Scan(
		&txn.ID, &txn.OwnerID, &txn.Date, &txn.Description, &txn.Kind, &cents,
		&categoryID, &catName, &catColor, &txn.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Transaction{}, err
		}
		return model.Transaction{}, fmt.Errorf("failed to scan transaction: %w", err)
	}

	txn.Amount = model.Money{Cents: cents}
	if categoryID.Valid {
		id := categoryID.String
		txn.CategoryID = &id
		txn.CategoryName = catName.String
		txn.CategoryColor = catColor.String
	}
	return txn, nil
}

// CreateTransaction creates a new transaction for the owner.
func (s *SQLiteStorage) CreateTransaction(ctx context.Context, ownerID string, fields service.TransactionFields) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return nil, err
	}
	if err := validateTransactionFields(fields); err != nil {
		return nil, err
	}

	if err := s.checkCategoryOwner(ctx, ownerID, fields.CategoryID); err != nil {
		return nil, err
	}

	txn := &model.Transaction{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Date:        normalizeDate(fields.Date),
		Description: fields.Description,
		Kind:        fields.Kind,
		Amount:      fields.Amount,
		CategoryID:  fields.CategoryID,
		CreatedAt:   time.Now().UTC(),
	}

	query := `
		INSERT INTO transactions (id, owner_id, date, description, kind, amount_cents, category_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	if _, err := s.db.ExecContext(ctx, query,
		txn.ID, txn.OwnerID, txn.Date, txn.Description, string(txn.Kind),
		txn.Amount.Cents, nullable(txn.CategoryID), txn.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	slog.Info("created transaction",
		"id", txn.ID,
		"kind", txn.Kind,
		"amount", txn.Amount.String(),
		"date", txn.Date.Format("2006-01-02"))
	return txn, nil
}

// UpdateTransaction rewrites the user-editable fields of an owner's
// transaction. Any field may change, including kind and the category
// reference; no kind-consistency with the linked category is enforced.
func (s *SQLiteStorage) UpdateTransaction(ctx context.Context, ownerID, id string, fields service.TransactionFields) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if err := validateTransactionFields(fields); err != nil {
		return err
	}

	if err := s.checkCategoryOwner(ctx, ownerID, fields.CategoryID); err != nil {
		return err
	}

	query := `
		UPDATE transactions
		SET date = ?, description = ?, kind = ?, amount_cents = ?, category_id = ?
		WHERE owner_id = ? AND id = ?`

	result, err := s.db.ExecContext(ctx, query,
		normalizeDate(fields.Date), fields.Description, string(fields.Kind),
		fields.Amount.Cents, nullable(fields.CategoryID), ownerID, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}

	slog.Info("updated transaction", "id", id)
	return nil
}

// DeleteTransaction removes an owner's transaction.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE owner_id = ? AND id = ?`, ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}

	slog.Info("deleted transaction", "id", id)
	return nil
}

// checkCategoryOwner rejects a category reference that belongs to another
// owner. A nil reference is always fine.
func (s *SQLiteStorage) checkCategoryOwner(ctx context.Context, ownerID string, categoryID *string) error {
	if categoryID == nil {
		return nil
	}
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE id = ? AND owner_id = ?`,
		*categoryID, ownerID).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check category owner: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("category %s: %w", *categoryID, ErrNotFound)
	}
	return nil
}

// normalizeDate strips the time component; transactions carry calendar dates.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

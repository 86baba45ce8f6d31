package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tally-fin/tally/internal/common"
	"github.com/tally-fin/tally/internal/model"
	"github.com/tally-fin/tally/internal/service"
)

// Session holds the visible state for one owner: the last loaded transaction
// list, the current filters, and the view and totals derived from them.
// Every mutating operation reloads the full list from the store instead of
// patching the in-memory copy, so the view can never diverge from stored
// state. Loads carry a generation number; when loads overlap, only the most
// recently issued one is applied and late stale responses are discarded.
type Session struct {
	store   service.Store
	ownerID string

	mu         sync.Mutex
	typeFilter TypeFilter
	period     model.Month
	all        []model.Transaction
	filtered   []model.Transaction
	totals     Totals
	issued     uint64 // newest load generation handed out
}

// NewSession creates a session scoped to one owner identity.
func NewSession(store service.Store, ownerID string) (*Session, error) {
	if ownerID == "" {
		return nil, common.ErrNoOwner
	}
	return &Session{
		store:      store,
		ownerID:    ownerID,
		typeFilter: FilterAll,
	}, nil
}

// Owner returns the owner identity every store call is scoped to.
func (s *Session) Owner() string {
	return s.ownerID
}

// Start seeds the owner's default categories if this is their very first
// load, then performs the initial transaction load.
func (s *Session) Start(ctx context.Context) error {
	seeded, err := s.store.EnsureDefaultCategories(ctx, s.ownerID)
	if err != nil {
		return fmt.Errorf("failed to ensure default categories: %w", err)
	}
	if seeded {
		common.LogInfo("seeded starter categories", common.Fields{"owner": s.ownerID})
	}
	return s.Reload(ctx)
}

// Reload fetches the owner's full transaction list and rederives the view.
// If a newer load was issued while this one was in flight, the result is
// discarded: the visible view always reflects the most recently issued
// request, not the most recently completed one. A failed load keeps the
// previous view intact.
func (s *Session) Reload(ctx context.Context) error {
	s.mu.Lock()
	s.issued++
	gen := s.issued
	s.mu.Unlock()

	all, err := s.store.ListTransactions(ctx, s.ownerID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.issued {
		slog.Debug("discarding superseded load", "generation", gen, "newest", s.issued)
		return nil
	}
	if err != nil {
		common.LogError(err, "transaction load failed, keeping previous view", common.Fields{
			"owner": s.ownerID,
		})
		return fmt.Errorf("failed to load transactions: %w", err)
	}

	s.all = all
	s.rederive()
	return nil
}

// rederive recomputes the filtered view and its totals from the full list.
// Callers must hold s.mu.
func (s *Session) rederive() {
	s.filtered = DeriveView(s.all, s.typeFilter, s.period)
	s.totals = ComputeTotals(s.filtered)
}

// SelectFilter changes the type filter and rederives the view from the
// already loaded list.
func (s *Session) SelectFilter(f TypeFilter) error {
	if !f.Valid() {
		return fmt.Errorf("invalid type filter %q", f)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.typeFilter = f
	s.rederive()
	return nil
}

// SelectPeriod changes the period filter; the zero month clears it.
func (s *Session) SelectPeriod(m model.Month) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.period = m
	s.rederive()
}

// Filter returns the current type filter.
func (s *Session) Filter() TypeFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typeFilter
}

// Period returns the current period filter.
func (s *Session) Period() model.Month {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.period
}

// View returns the current filtered view.
func (s *Session) View() []model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Transaction, len(s.filtered))
	copy(out, s.filtered)
	return out
}

// Totals returns the totals of the current filtered view.
func (s *Session) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totals
}

// Groups returns the current view grouped by calendar date, newest first.
func (s *Session) Groups() []DayGroup {
	return GroupByDate(s.View())
}

// SubmitTransaction creates a transaction, or updates one when id is
// non-empty. Local validation failures block the store call and surface as a
// UserError; on success the full list is reloaded.
func (s *Session) SubmitTransaction(ctx context.Context, fields service.TransactionFields, id string) error {
	draft := model.Transaction{
		Date:        fields.Date,
		Description: fields.Description,
		Kind:        fields.Kind,
		Amount:      fields.Amount,
	}
	if err := draft.Validate(); err != nil {
		return common.NewUserError("invalid transaction", err)
	}

	if id == "" {
		if _, err := s.store.CreateTransaction(ctx, s.ownerID, fields); err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}
	} else {
		if err := s.store.UpdateTransaction(ctx, s.ownerID, id, fields); err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}
	}

	return s.Reload(ctx)
}

// DeleteTransaction removes a transaction and reloads. The caller gates this
// on explicit user confirmation; there is no undo.
func (s *Session) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.store.DeleteTransaction(ctx, s.ownerID, id); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return s.Reload(ctx)
}

// Categories lists the owner's categories for the editor.
func (s *Session) Categories(ctx context.Context) ([]model.Category, error) {
	return s.store.ListCategories(ctx, s.ownerID)
}

// CategoriesByKind lists only the categories eligible for a transaction of
// the given kind.
func (s *Session) CategoriesByKind(ctx context.Context, kind model.Kind) ([]model.Category, error) {
	return s.store.ListCategoriesByKind(ctx, s.ownerID, kind)
}

// SubmitCategory creates a category, or updates one when id is non-empty.
// The reload afterwards picks up renamed or recolored categories resolved
// into the transaction list.
func (s *Session) SubmitCategory(ctx context.Context, fields service.CategoryFields, id string) error {
	draft := model.Category{Name: fields.Name, Kind: fields.Kind}
	if err := draft.Validate(); err != nil {
		return common.NewUserError("invalid category", err)
	}

	if id == "" {
		if _, err := s.store.CreateCategory(ctx, s.ownerID, fields); err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}
	} else {
		if err := s.store.UpdateCategory(ctx, s.ownerID, id, fields); err != nil {
			return fmt.Errorf("failed to update category: %w", err)
		}
	}

	return s.Reload(ctx)
}

// DeleteCategory removes a category and reloads; transactions that pointed
// at it come back uncategorized. The caller gates this on confirmation.
func (s *Session) DeleteCategory(ctx context.Context, id string) error {
	if err := s.store.DeleteCategory(ctx, s.ownerID, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return s.Reload(ctx)
}

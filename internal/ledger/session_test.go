package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-fin/tally/internal/common"
	"github.com/tally-fin/tally/internal/model"
	"github.com/tally-fin/tally/internal/service"
)

// stubStore is an in-memory service.Store for driving the session. List
// calls can be gated on a channel to hold a load in flight, and snapshots
// are taken when the call starts, so a gated call returns the data as it
// looked when it was issued.
type stubStore struct {
	mu         sync.Mutex
	categories []model.Category
	txns       []model.Transaction
	seeded     map[string]bool
	nextID     int

	listErr   error
	listGates []chan struct{} // gate for the nth ListTransactions call, nil entries pass through
	listCalls int
}

func newStubStore() *stubStore {
	return &stubStore{seeded: make(map[string]bool)}
}

func (s *stubStore) addTxn(ownerID string, kind model.Kind, cents int64, date time.Time) model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	txn := model.Transaction{
		ID:          fmt.Sprintf("txn-%d", s.nextID),
		OwnerID:     ownerID,
		Description: fmt.Sprintf("stub txn %d", s.nextID),
		Kind:        kind,
		Amount:      model.Money{Cents: cents},
		Date:        date,
	}
	s.txns = append(s.txns, txn)
	return txn
}

func (s *stubStore) ListTransactions(_ context.Context, ownerID string) ([]model.Transaction, error) {
	s.mu.Lock()
	call := s.listCalls
	s.listCalls++
	err := s.listErr
	snapshot := make([]model.Transaction, 0, len(s.txns))
	for _, txn := range s.txns {
		if txn.OwnerID == ownerID {
			snapshot = append(snapshot, txn)
		}
	}
	var gate chan struct{}
	if call < len(s.listGates) {
		gate = s.listGates[call]
	}
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *stubStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls
}

func (s *stubStore) GetTransaction(_ context.Context, ownerID, id string) (*model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, txn := range s.txns {
		if txn.OwnerID == ownerID && txn.ID == id {
			t := txn
			return &t, nil
		}
	}
	return nil, common.ErrNotFound
}

func (s *stubStore) CreateTransaction(_ context.Context, ownerID string, fields service.TransactionFields) (*model.Transaction, error) {
	txn := s.addTxn(ownerID, fields.Kind, fields.Amount.Cents, fields.Date)
	return &txn, nil
}

func (s *stubStore) UpdateTransaction(_ context.Context, ownerID, id string, fields service.TransactionFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, txn := range s.txns {
		if txn.OwnerID == ownerID && txn.ID == id {
			s.txns[i].Description = fields.Description
			s.txns[i].Kind = fields.Kind
			s.txns[i].Amount = fields.Amount
			s.txns[i].Date = fields.Date
			s.txns[i].CategoryID = fields.CategoryID
			return nil
		}
	}
	return common.ErrNotFound
}

func (s *stubStore) DeleteTransaction(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, txn := range s.txns {
		if txn.OwnerID == ownerID && txn.ID == id {
			s.txns = append(s.txns[:i], s.txns[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

func (s *stubStore) ListCategories(_ context.Context, ownerID string) ([]model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Category, 0, len(s.categories))
	for _, cat := range s.categories {
		if cat.OwnerID == ownerID {
			out = append(out, cat)
		}
	}
	return out, nil
}

func (s *stubStore) ListCategoriesByKind(ctx context.Context, ownerID string, kind model.Kind) ([]model.Category, error) {
	all, err := s.ListCategories(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return EligibleCategories(all, kind), nil
}

func (s *stubStore) GetCategory(_ context.Context, ownerID, id string) (*model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cat := range s.categories {
		if cat.OwnerID == ownerID && cat.ID == id {
			c := cat
			return &c, nil
		}
	}
	return nil, common.ErrNotFound
}

func (s *stubStore) CreateCategory(_ context.Context, ownerID string, fields service.CategoryFields) (*model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	cat := model.Category{
		ID:      fmt.Sprintf("cat-%d", s.nextID),
		OwnerID: ownerID,
		Name:    fields.Name,
		Kind:    fields.Kind,
		Color:   fields.Color,
		Icon:    fields.Icon,
	}
	s.categories = append(s.categories, cat)
	return &cat, nil
}

func (s *stubStore) UpdateCategory(_ context.Context, ownerID, id string, fields service.CategoryFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cat := range s.categories {
		if cat.OwnerID == ownerID && cat.ID == id {
			s.categories[i].Name = fields.Name
			s.categories[i].Kind = fields.Kind
			s.categories[i].Color = fields.Color
			s.categories[i].Icon = fields.Icon
			return nil
		}
	}
	return common.ErrNotFound
}

func (s *stubStore) DeleteCategory(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cat := range s.categories {
		if cat.OwnerID == ownerID && cat.ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

func (s *stubStore) EnsureDefaultCategories(_ context.Context, ownerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seeded[ownerID] {
		return false, nil
	}
	s.seeded[ownerID] = true
	for _, cat := range s.categories {
		if cat.OwnerID == ownerID {
			return false, nil
		}
	}
	for _, cat := range model.DefaultCategories() {
		s.nextID++
		cat.ID = fmt.Sprintf("cat-%d", s.nextID)
		cat.OwnerID = ownerID
		s.categories = append(s.categories, cat)
	}
	return true, nil
}

func (s *stubStore) Migrate(context.Context) error { return nil }
func (s *stubStore) Close() error                  { return nil }

func TestNewSessionRequiresOwner(t *testing.T) {
	_, err := NewSession(newStubStore(), "")
	assert.ErrorIs(t, err, common.ErrNoOwner)
}

func TestSessionStartSeedsOnce(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()

	sess, err := NewSession(store, "owner-1")
	require.NoError(t, err)
	require.NoError(t, sess.Start(ctx))

	cats, err := sess.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 10)

	// A second start must not double the starter set.
	require.NoError(t, sess.Start(ctx))
	cats, err = sess.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 10)
}

func TestSessionFiltersAndTotals(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	store.addTxn("owner-1", model.KindIncome, 250000, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC))
	store.addTxn("owner-1", model.KindExpense, 4250, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC))
	store.addTxn("owner-1", model.KindExpense, 1999, time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC))

	sess, err := NewSession(store, "owner-1")
	require.NoError(t, err)
	require.NoError(t, sess.Start(ctx))

	t.Run("initial view is unrestricted", func(t *testing.T) {
		assert.Len(t, sess.View(), 3)
		assert.Equal(t, FilterAll, sess.Filter())
		assert.True(t, sess.Period().IsZero())
	})

	t.Run("type filter narrows view and totals together", func(t *testing.T) {
		require.NoError(t, sess.SelectFilter(FilterIncome))
		view := sess.View()
		require.Len(t, view, 1)
		assert.Equal(t, model.KindIncome, view[0].Kind)

		totals := sess.Totals()
		assert.Equal(t, model.Money{Cents: 250000}, totals.Income)
		assert.Equal(t, model.Money{}, totals.Expenses)
		assert.Equal(t, totals.Income, totals.Balance)
	})

	t.Run("invalid filter is rejected", func(t *testing.T) {
		assert.Error(t, sess.SelectFilter(TypeFilter("refund")))
		assert.Equal(t, FilterIncome, sess.Filter())
	})

	t.Run("period composes with type filter", func(t *testing.T) {
		require.NoError(t, sess.SelectFilter(FilterExpense))
		sess.SelectPeriod(model.Month{Year: 2024, Month: time.February})
		view := sess.View()
		require.Len(t, view, 1)
		assert.Equal(t, model.Money{Cents: 1999}, sess.Totals().Expenses)
	})

	t.Run("clearing filters restores the full view", func(t *testing.T) {
		require.NoError(t, sess.SelectFilter(FilterAll))
		sess.SelectPeriod(model.Month{})
		assert.Len(t, sess.View(), 3)
	})

	t.Run("groups follow the current view", func(t *testing.T) {
		groups := sess.Groups()
		require.Len(t, groups, 2)
		assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), groups[0].Date)
		assert.Len(t, groups[0].Transactions, 2)
	})
}

func TestSessionSubmitTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("create reloads the view", func(t *testing.T) {
		store := newStubStore()
		sess, err := NewSession(store, "owner-1")
		require.NoError(t, err)
		require.NoError(t, sess.Start(ctx))
		assert.Empty(t, sess.View())

		err = sess.SubmitTransaction(ctx, service.TransactionFields{
			Date:        time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
			Description: "coffee",
			Kind:        model.KindExpense,
			Amount:      model.Money{Cents: 450},
		}, "")
		require.NoError(t, err)
		assert.Len(t, sess.View(), 1)
	})

	t.Run("invalid fields never reach the store", func(t *testing.T) {
		store := newStubStore()
		sess, err := NewSession(store, "owner-1")
		require.NoError(t, err)
		require.NoError(t, sess.Start(ctx))
		before := store.calls()

		err = sess.SubmitTransaction(ctx, service.TransactionFields{
			Date:        time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
			Description: "   ",
			Kind:        model.KindExpense,
			Amount:      model.Money{Cents: 450},
		}, "")
		require.Error(t, err)
		assert.True(t, common.IsUserError(err))
		assert.Equal(t, before, store.calls())
	})

	t.Run("delete reloads the view", func(t *testing.T) {
		store := newStubStore()
		txn := store.addTxn("owner-1", model.KindExpense, 450, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC))
		sess, err := NewSession(store, "owner-1")
		require.NoError(t, err)
		require.NoError(t, sess.Start(ctx))
		require.Len(t, sess.View(), 1)

		require.NoError(t, sess.DeleteTransaction(ctx, txn.ID))
		assert.Empty(t, sess.View())
	})
}

// A load that completes after a newer one was issued must be discarded, even
// though it finishes last. Otherwise a slow stale response would overwrite
// fresh data.
func TestSessionDiscardsSupersededLoad(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	store.addTxn("owner-1", model.KindExpense, 100, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))

	sess, err := NewSession(store, "owner-1")
	require.NoError(t, err)
	require.NoError(t, sess.Start(ctx))
	require.Len(t, sess.View(), 1)

	// Hold the second list call (the first reload below) in flight; it has
	// already snapshotted the single-transaction state.
	gate := make(chan struct{})
	store.mu.Lock()
	store.listGates = []chan struct{}{nil, gate}
	store.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = sess.Reload(ctx)
	}()
	require.Eventually(t, func() bool { return store.calls() == 2 }, time.Second, time.Millisecond)

	// A second transaction arrives and a newer load completes first.
	store.addTxn("owner-1", model.KindExpense, 200, time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, sess.Reload(ctx))
	require.Len(t, sess.View(), 2)

	// Release the stale load; its one-transaction snapshot must not apply.
	close(gate)
	wg.Wait()
	assert.Len(t, sess.View(), 2)
}

func TestSessionKeepsViewOnLoadFailure(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	store.addTxn("owner-1", model.KindExpense, 100, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))

	sess, err := NewSession(store, "owner-1")
	require.NoError(t, err)
	require.NoError(t, sess.Start(ctx))
	require.Len(t, sess.View(), 1)

	store.mu.Lock()
	store.listErr = errors.New("disk is on fire")
	store.mu.Unlock()

	err = sess.Reload(ctx)
	require.Error(t, err)
	assert.Len(t, sess.View(), 1, "failed load must keep the previous view")
}

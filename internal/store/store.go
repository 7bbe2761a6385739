// Package store holds the loaded customers and transactions and answers the
// dashboard's filter and aggregation queries.
//
// A Store is constructed explicitly by its owner and loaded exactly once. It has
// no knowledge of how results are rendered; presentation code registers an
// Observer or simply calls the query methods.
package store

import (
	"context"
	"errors"
	"strings"
	"sync"

	"txboard/internal/core"
	"txboard/internal/dataset"
)

// State is the lifecycle position of a Store.
type State string

const (
	StateUnloaded State = "unloaded"
	StateLoading  State = "loading"
	StateLoaded   State = "loaded"
	StateFailed   State = "failed"
)

// LoadResult is the completion signal of an asynchronous load.
type LoadResult struct {
	Stats core.Stats
	Err   error
}

type Store struct {
	mu      sync.RWMutex
	state   State
	loadErr error
	data    core.Dataset
	index   map[core.ID]core.Customer
	stats   core.Stats
	view    []core.Transaction
	done    chan struct{}

	obsMu     sync.Mutex
	observers []*subscription
}

type subscription struct {
	obs Observer
}

// New returns an unloaded store.
func New() *Store {
	return &Store{
		state: StateUnloaded,
		done:  make(chan struct{}),
	}
}

// Subscribe registers an observer and returns a function that removes it.
func (s *Store) Subscribe(o Observer) (unsubscribe func()) {
	sub := &subscription{obs: o}
	s.obsMu.Lock()
	s.observers = append(s.observers, sub)
	s.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.obsMu.Lock()
			defer s.obsMu.Unlock()
			for i, cur := range s.observers {
				if cur == sub {
					s.observers = append(s.observers[:i], s.observers[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store) snapshotObservers() []Observer {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	out := make([]Observer, len(s.observers))
	for i, sub := range s.observers {
		out[i] = sub.obs
	}
	return out
}

// Load fetches the dataset from src and stores it. On success the filtered view
// becomes the complete transaction list. On failure the store stays empty, the
// error is reported once to observers and returned. A store loads only once;
// later calls return core.ErrAlreadyLoaded.
func (s *Store) Load(ctx context.Context, src dataset.Source) error {
	s.mu.Lock()
	if s.state != StateUnloaded {
		s.mu.Unlock()
		return core.ErrAlreadyLoaded
	}
	s.state = StateLoading
	s.mu.Unlock()

	ds, err := src.Fetch(ctx)
	if err != nil {
		reason := core.ReasonNetwork
		if errors.Is(err, core.ErrMalformedPayload) {
			reason = core.ReasonPayload
		}
		err = core.NewLoadError(src.Name(), reason, err)

		s.mu.Lock()
		s.state = StateFailed
		s.loadErr = err
		s.mu.Unlock()
		close(s.done)

		for _, o := range s.snapshotObservers() {
			o.LoadFailed(err)
		}
		return err
	}

	if ds.Customers == nil {
		ds.Customers = []core.Customer{}
	}
	if ds.Transactions == nil {
		ds.Transactions = []core.Transaction{}
	}
	stats := ds.Stats(src.Name())

	s.mu.Lock()
	s.data = ds
	s.index = ds.Index()
	s.stats = stats
	s.view = ds.Transactions
	s.state = StateLoaded
	view := cloneTransactions(s.view)
	s.mu.Unlock()
	close(s.done)

	for _, o := range s.snapshotObservers() {
		o.Loaded(stats)
		o.ViewChanged(view)
	}
	return nil
}

// LoadAsync starts Load in its own goroutine. The returned channel delivers
// exactly one result and is then closed.
func (s *Store) LoadAsync(ctx context.Context, src dataset.Source) <-chan LoadResult {
	out := make(chan LoadResult, 1)
	go func() {
		defer close(out)
		err := s.Load(ctx, src)
		res := LoadResult{Err: err}
		if err == nil {
			res.Stats, _ = s.Stats()
		}
		out <- res
	}()
	return out
}

// Done is closed once the load has finished, successfully or not.
func (s *Store) Done() <-chan struct{} { return s.done }

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Err returns the load failure, if any.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// Stats describes the loaded dataset. ok is false until a load succeeds.
func (s *Store) Stats() (stats core.Stats, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats, s.state == StateLoaded
}

// Customers returns the loaded customers in dataset order.
func (s *Store) Customers() []core.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateLoaded {
		return nil
	}
	return append([]core.Customer(nil), s.data.Customers...)
}

// Transactions returns the full loaded transaction list, orphans included, in
// dataset order. It is nil before load and is not affected by Filter.
func (s *Store) Transactions() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateLoaded {
		return nil
	}
	return cloneTransactions(s.data.Transactions)
}

// Filter replaces the filtered view with the transactions whose customer's name
// contains nameSubstring (case-insensitive) and, when amountExact parses as a
// number, whose amount equals it exactly. Orphaned transactions never match.
// Before a successful load no view is produced and nil is returned.
func (s *Store) Filter(nameSubstring, amountExact string) []core.Transaction {
	s.mu.Lock()
	if s.state != StateLoaded {
		s.mu.Unlock()
		return nil
	}
	s.view = match(s.data.Transactions, s.index, nameSubstring, amountExact)
	view := cloneTransactions(s.view)
	s.mu.Unlock()

	for _, o := range s.snapshotObservers() {
		o.ViewChanged(cloneTransactions(view))
	}
	return view
}

func match(all []core.Transaction, index map[core.ID]core.Customer, nameSubstring, amountExact string) []core.Transaction {
	needle := strings.ToLower(nameSubstring)
	amount, hasAmount := core.ParseAmountFilter(amountExact)

	out := make([]core.Transaction, 0, len(all))
	for _, t := range all {
		c, ok := index[t.CustomerID]
		if !ok {
			continue
		}
		if !strings.Contains(strings.ToLower(c.Name), needle) {
			continue
		}
		if hasAmount && t.Amount != amount {
			continue
		}
		out = append(out, t)
	}
	return out
}

// CurrentFilteredTransactions returns a copy of the current view, nil before load.
func (s *Store) CurrentFilteredTransactions() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.view == nil {
		return nil
	}
	return cloneTransactions(s.view)
}

// CustomerFor resolves a customer id.
func (s *Store) CustomerFor(id core.ID) (core.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.index[id]
	return c, ok
}

// LookupID resolves the textual form of an id, as found in URLs and flags, to
// the first customer whose id displays the same way.
func (s *Store) LookupID(text string) (core.ID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.data.Customers {
		if c.ID.String() == text && !c.ID.IsZero() {
			return c.ID, true
		}
	}
	return core.ID{}, false
}

// Rows joins view with customers for rendering. Orphaned transactions are skipped.
func (s *Store) Rows(view []core.Transaction) []core.Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]core.Row, 0, len(view))
	for _, t := range view {
		c, ok := s.index[t.CustomerID]
		if !ok {
			continue
		}
		rows = append(rows, core.Row{Customer: c, Transaction: t})
	}
	return rows
}

// AggregateByCustomer groups the customer's transactions by date, summing
// amounts per date in order of first occurrence, and totals them. The full
// transaction list is used, not the filtered view. ok is false when id does not
// resolve to a customer, in which case its transactions are orphans.
func (s *Store) AggregateByCustomer(id core.ID) (core.Aggregate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.index[id]
	if !ok {
		return core.Aggregate{Series: []core.DateTotal{}}, false
	}

	agg := core.Aggregate{Customer: c, Series: []core.DateTotal{}}
	pos := make(map[string]int)
	for _, t := range s.data.Transactions {
		if t.CustomerID != id {
			continue
		}
		i, seen := pos[t.Date]
		if !seen {
			i = len(agg.Series)
			pos[t.Date] = i
			agg.Series = append(agg.Series, core.DateTotal{Date: t.Date})
		}
		agg.Series[i].Amount += t.Amount
		agg.TotalAmount += t.Amount
		agg.TotalCount++
	}
	return agg, true
}

func cloneTransactions(in []core.Transaction) []core.Transaction {
	if in == nil {
		return nil
	}
	return append(make([]core.Transaction, 0, len(in)), in...)
}

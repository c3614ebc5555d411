package storefront

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/tiendaapp/tiendastore/internal/domain"
	"github.com/tiendaapp/tiendastore/pkg/textutil"
)

const (
	// DefaultPageSize is how many products each reveal cycle appends.
	DefaultPageSize = 6
	// DefaultSearchDelay is how long the search input must settle before
	// the filter recomputes.
	DefaultSearchDelay = 600 * time.Millisecond
)

// EmptyState distinguishes "the shop has nothing" from "the search matched
// nothing"; the two render differently.
type EmptyState int

const (
	EmptyNone EmptyState = iota
	EmptyNoProducts
	EmptyNoMatches
)

// ProductSource supplies the full catalog. *Client satisfies it.
type ProductSource interface {
	Products(ctx context.Context) ([]domain.Product, error)
}

// Feed drives the catalog page: it owns the fetched product set, the
// debounced search term, the filtered subset and the page-by-page reveal
// triggered by viewport intersection.
type Feed struct {
	mu        sync.Mutex
	src       ProductSource
	pageSize  int
	debouncer *Debouncer
	onChange  func()

	all      []domain.Product
	filtered []domain.Product
	visible  []domain.Product
	term     string // latest input, not yet effective
	applied  string // term currently filtering
	loading  bool
	hasMore  bool
	fetched  bool
}

type FeedOption func(*Feed)

func WithPageSize(n int) FeedOption {
	return func(f *Feed) {
		if n > 0 {
			f.pageSize = n
		}
	}
}

func WithSearchDelay(d time.Duration) FeedOption {
	return func(f *Feed) {
		f.debouncer = NewDebouncer(d, f.applySearch)
	}
}

// WithOnChange registers the render callback invoked after every state
// change.
func WithOnChange(fn func()) FeedOption {
	return func(f *Feed) { f.onChange = fn }
}

func NewFeed(src ProductSource, opts ...FeedOption) *Feed {
	f := &Feed{
		src:      src,
		pageSize: DefaultPageSize,
	}
	f.debouncer = NewDebouncer(DefaultSearchDelay, f.applySearch)
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Refresh fetches the full catalog and re-applies the effective search
// term. A stale response arriving after a newer one overwrites state; that
// race is inherited behavior, deliberately left unmitigated.
func (f *Feed) Refresh(ctx context.Context) error {
	products, err := f.src.Products(ctx)
	if err != nil {
		return errors.Wrap(err, "load products")
	}

	f.mu.Lock()
	f.all = products
	f.fetched = true
	f.filterLocked(f.applied)
	f.mu.Unlock()

	f.notify()
	return nil
}

// SetSearch records the raw input and restarts the debounce countdown. The
// filter only recomputes once the input settles.
func (f *Feed) SetSearch(term string) {
	f.mu.Lock()
	f.term = term
	f.mu.Unlock()
	f.debouncer.Reset()
}

// FlushSearch applies the pending search term immediately (used when the
// user presses enter, and by tests).
func (f *Feed) FlushSearch() {
	f.debouncer.Flush()
}

func (f *Feed) applySearch() {
	f.mu.Lock()
	f.filterLocked(f.term)
	f.mu.Unlock()
	f.notify()
}

// filterLocked recomputes the filtered subset and resets the reveal cursor
// to the first page.
func (f *Feed) filterLocked(term string) {
	f.applied = term
	if term == "" {
		f.filtered = f.all
	} else {
		f.filtered = nil
		for _, p := range f.all {
			if textutil.ContainsFold(p.Name, term) ||
				textutil.ContainsFold(p.Description, term) ||
				(p.Category != "" && textutil.ContainsFold(p.Category, term)) {
				f.filtered = append(f.filtered, p)
			}
		}
	}
	f.visible = nil
	f.hasMore = len(f.filtered) > 0
	f.revealLocked()
}

// LoadMore reveals the next page of the filtered subset. It is a no-op
// while a reveal is in flight and permanently once everything is visible;
// it reports whether anything was revealed.
func (f *Feed) LoadMore() bool {
	f.mu.Lock()
	if f.loading || !f.hasMore {
		f.mu.Unlock()
		return false
	}
	f.loading = true
	f.revealLocked()
	f.mu.Unlock()

	// the reveal is still "in flight" during the render callback, so a
	// re-entrant trigger from the sentinel is ignored
	f.notify()

	f.mu.Lock()
	f.loading = false
	f.mu.Unlock()
	return true
}

func (f *Feed) revealLocked() {
	start := len(f.visible)
	if start >= len(f.filtered) {
		f.hasMore = false
		return
	}
	end := start + f.pageSize
	if end >= len(f.filtered) {
		end = len(f.filtered)
		f.hasMore = false
	}
	f.visible = append(f.visible, f.filtered[start:end]...)
}

// AttachSentinel returns the load-more trigger for the end-of-list marker.
// Callers must Close it on unmount.
func (f *Feed) AttachSentinel() *Sentinel {
	return NewSentinel(func() { f.LoadMore() })
}

// Visible returns the currently revealed products.
func (f *Feed) Visible() []domain.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Product, len(f.visible))
	copy(out, f.visible)
	return out
}

func (f *Feed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasMore
}

// SearchTerm returns the effective (debounced) term.
func (f *Feed) SearchTerm() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.applied
}

// Empty classifies the current empty state, if any.
func (f *Feed) Empty() EmptyState {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case len(f.filtered) > 0 || !f.fetched:
		return EmptyNone
	case len(f.all) == 0:
		return EmptyNoProducts
	default:
		return EmptyNoMatches
	}
}

// Close cancels the pending debounce. Must be called on unmount.
func (f *Feed) Close() {
	f.debouncer.Cancel()
}

func (f *Feed) notify() {
	if f.onChange != nil {
		f.onChange()
	}
}

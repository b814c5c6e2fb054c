// Package workflow drives the screens' remote state: paged lists, "load
// more" feeds, and user actions that validate, confirm, call the backend and
// refresh.
package workflow

import (
	"context"
	"errors"
	"sync"

	"github.com/atinyakov/GophStay/internal/client/api"
)

// State is where a list is in its fetch cycle.
type State int

const (
	Idle State = iota
	Loading
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

var (
	// ErrBusy is returned when a fetch is requested while one is in flight.
	// The request is dropped, not queued.
	ErrBusy = errors.New("a fetch is already in progress")
	// ErrPageOutOfRange is returned by ChangePage for pages outside [0, total).
	ErrPageOutOfRange = errors.New("page out of range")
)

// Fetcher loads one zero-based page.
type Fetcher[T any] func(ctx context.Context, page int) (api.Page[T], error)

// estimatePages guesses the page count when the backend did not send one.
func estimatePages(page, items int) int {
	if items == 0 {
		return 1
	}
	return max(page+5, 10)
}

// Lister shows one page at a time; each fetch replaces the items.
type Lister[T any] struct {
	fetch Fetcher[T]

	mu        sync.Mutex
	state     State
	items     []T
	page      int
	total     int
	estimated bool
	err       error
}

// NewLister creates an idle Lister.
func NewLister[T any](fetch Fetcher[T]) *Lister[T] {
	return &Lister[T]{fetch: fetch, items: []T{}, total: 1}
}

// Go loads page. If ctx is canceled before the response arrives the result
// is discarded and the previous state restored.
func (l *Lister[T]) Go(ctx context.Context, page int) error {
	l.mu.Lock()
	if l.state == Loading {
		l.mu.Unlock()
		return ErrBusy
	}
	prev := l.state
	l.state = Loading
	l.mu.Unlock()

	p, err := l.fetch(ctx, page)

	l.mu.Lock()
	defer l.mu.Unlock()
	if ctx.Err() != nil {
		l.state = prev
		return ctx.Err()
	}
	if err != nil {
		l.state = Failed
		l.items = []T{}
		l.page, l.total = 0, 1
		l.err = err
		return err
	}

	l.state = Loaded
	l.err = nil
	l.page = page
	l.items = p.Items
	if p.Known {
		l.total, l.estimated = p.TotalPages, false
	} else {
		l.total, l.estimated = estimatePages(page, len(p.Items)), true
	}
	return nil
}

// Reload fetches the current page again.
func (l *Lister[T]) Reload(ctx context.Context) error {
	return l.Go(ctx, l.Page())
}

// ChangePage loads p when it lies within the known page count.
func (l *Lister[T]) ChangePage(ctx context.Context, p int) error {
	if p < 0 || p >= l.TotalPages() {
		return ErrPageOutOfRange
	}
	return l.Go(ctx, p)
}

// Items returns a copy of the current page.
func (l *Lister[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]T(nil), l.items...)
}

func (l *Lister[T]) Page() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}

// TotalPages is the backend's count, or an estimate when Estimated is true.
func (l *Lister[T]) TotalPages() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}

func (l *Lister[T]) Estimated() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.estimated
}

func (l *Lister[T]) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Err is the error of the last failed fetch.
func (l *Lister[T]) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Query is a Lister whose pages depend on a filter.
type Query[F, T any] struct {
	*Lister[T]

	fmu    sync.Mutex
	filter F
}

// NewQuery wraps fetch, which is called with the current filter.
func NewQuery[F, T any](fetch func(ctx context.Context, filter F, page int) (api.Page[T], error)) *Query[F, T] {
	q := &Query[F, T]{}
	q.Lister = NewLister(func(ctx context.Context, page int) (api.Page[T], error) {
		return fetch(ctx, q.Filter(), page)
	})
	return q
}

// Apply replaces the filter and loads the first page.
func (q *Query[F, T]) Apply(ctx context.Context, filter F) error {
	if q.State() == Loading {
		return ErrBusy
	}
	q.fmu.Lock()
	q.filter = filter
	q.fmu.Unlock()
	return q.Go(ctx, 0)
}

func (q *Query[F, T]) Filter() F {
	q.fmu.Lock()
	defer q.fmu.Unlock()
	return q.filter
}

// VisiblePages returns up to window zero-based page numbers centered on
// current and clamped to [0, total).
func VisiblePages(current, total, window int) []int {
	if total <= 0 || window <= 0 {
		return nil
	}
	start := current - window/2
	start = min(start, total-window)
	start = max(start, 0)
	end := min(start+window, total)

	pages := make([]int, 0, end-start)
	for p := start; p < end; p++ {
		pages = append(pages, p)
	}
	return pages
}

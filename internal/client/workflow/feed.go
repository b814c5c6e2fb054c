package workflow

import (
	"context"
	"sync"
)

// Feed accumulates pages; LoadMore appends the next one until a page comes
// back empty.
type Feed[T any] struct {
	fetch Fetcher[T]

	mu      sync.Mutex
	state   State
	items   []T
	next    int
	hasMore bool
	err     error
}

func NewFeed[T any](fetch Fetcher[T]) *Feed[T] {
	return &Feed[T]{fetch: fetch, items: []T{}, hasMore: true}
}

// LoadMore fetches the next page. It does nothing once HasMore is false. A
// failed fetch keeps what was already loaded.
func (f *Feed[T]) LoadMore(ctx context.Context) error {
	f.mu.Lock()
	if f.state == Loading {
		f.mu.Unlock()
		return ErrBusy
	}
	if !f.hasMore {
		f.mu.Unlock()
		return nil
	}
	prev, page := f.state, f.next
	f.state = Loading
	f.mu.Unlock()

	p, err := f.fetch(ctx, page)

	f.mu.Lock()
	defer f.mu.Unlock()
	if ctx.Err() != nil {
		f.state = prev
		return ctx.Err()
	}
	if err != nil {
		f.state = Failed
		f.err = err
		return err
	}
	f.state = Loaded
	f.err = nil
	if len(p.Items) == 0 {
		f.hasMore = false
		return nil
	}
	f.items = append(f.items, p.Items...)
	f.next++
	if p.Known && f.next >= p.TotalPages {
		f.hasMore = false
	}
	return nil
}

// Reset empties the feed so the next LoadMore starts from page 0.
func (f *Feed[T]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = Idle
	f.items = []T{}
	f.next = 0
	f.hasMore = true
	f.err = nil
}

// Refresh discards what was loaded and fetches the first page again.
func (f *Feed[T]) Refresh(ctx context.Context) error {
	if f.State() == Loading {
		return ErrBusy
	}
	f.Reset()
	return f.LoadMore(ctx)
}

func (f *Feed[T]) Items() []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]T(nil), f.items...)
}

func (f *Feed[T]) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasMore
}

func (f *Feed[T]) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Feed[T]) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

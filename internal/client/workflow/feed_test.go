package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeed_StopsOnEmptyPage(t *testing.T) {
	b := &pagedBackend{pages: map[int][]string{0: {"a", "b", "c"}}}
	f := NewFeed(b.fetch)
	ctx := context.Background()

	require.NoError(t, f.LoadMore(ctx))
	assert.True(t, f.HasMore())

	require.NoError(t, f.LoadMore(ctx))
	assert.Equal(t, []string{"a", "b", "c"}, f.Items())
	assert.False(t, f.HasMore())

	// Exhausted feeds do not call the backend again.
	require.NoError(t, f.LoadMore(ctx))
	assert.Equal(t, []int{0, 1}, b.requested)
}

func TestFeed_StopsAtKnownTotal(t *testing.T) {
	b := &pagedBackend{pages: map[int][]string{0: {"a"}, 1: {"b"}}, total: 2}
	f := NewFeed(b.fetch)
	ctx := context.Background()

	require.NoError(t, f.LoadMore(ctx))
	require.NoError(t, f.LoadMore(ctx))
	assert.Equal(t, []string{"a", "b"}, f.Items())
	assert.False(t, f.HasMore())
}

func TestFeed_FailureKeepsItems(t *testing.T) {
	b := &pagedBackend{pages: map[int][]string{0: {"a"}, 1: {"b"}}}
	f := NewFeed(b.fetch)
	ctx := context.Background()
	require.NoError(t, f.LoadMore(ctx))

	b.err = errors.New("down")
	require.Error(t, f.LoadMore(ctx))
	assert.Equal(t, Failed, f.State())
	assert.Equal(t, []string{"a"}, f.Items())
	assert.True(t, f.HasMore())

	// The failed page is retried by the next LoadMore.
	b.err = nil
	require.NoError(t, f.LoadMore(ctx))
	assert.Equal(t, []string{"a", "b"}, f.Items())
	assert.Equal(t, []int{0, 1, 1}, b.requested)
}

func TestFeed_Refresh(t *testing.T) {
	b := &pagedBackend{pages: map[int][]string{0: {"a"}, 1: {"b"}}}
	f := NewFeed(b.fetch)
	ctx := context.Background()
	require.NoError(t, f.LoadMore(ctx))
	require.NoError(t, f.LoadMore(ctx))

	require.NoError(t, f.Refresh(ctx))
	assert.Equal(t, []string{"a"}, f.Items())
	assert.True(t, f.HasMore())
}

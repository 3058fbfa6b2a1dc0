package cache

import (
	"context"
	"testing"
	"time"

	dom "github.com/birlikkoshan/todo-tracker/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*TodoCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewTodoCache(rdb, time.Minute), mr
}

func samplePage() dom.TodoPage {
	due := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	return dom.TodoPage{
		Items: []dom.Todo{{
			ID: "t-1", OwnerID: "u-1", Title: "Buy milk", Priority: dom.PriorityLow,
			DueDate: &due, Owner: &dom.UserProfile{ID: "u-1", Name: "Alice"},
		}},
		Pagination: dom.Pagination{Page: 1, Limit: 10, Total: 1, TotalPages: 1},
	}
}

func TestTodoCache_MissThenHit(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	_, ok, err := c.GetList(ctx, "u-1", 0, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetList(ctx, "u-1", 0, "k", samplePage()))
	assert.True(t, mr.Exists("todo:u-1:list:v0:k"))
	assert.Equal(t, time.Minute, mr.TTL("todo:u-1:list:v0:k"))

	got, ok, err := c.GetList(ctx, "u-1", 0, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Buy milk", got.Items[0].Title)
	assert.True(t, got.Items[0].DueDate.Equal(*samplePage().Items[0].DueDate))
	assert.Equal(t, 1, got.Pagination.TotalPages)
}

func TestTodoCache_InvalidateOwnerOnlyTouchesOwner(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetList(ctx, "u-1", 0, "a", samplePage()))
	require.NoError(t, c.SetList(ctx, "u-1", 0, "b", samplePage()))
	require.NoError(t, c.SetList(ctx, "u-2", 0, "a", samplePage()))

	require.NoError(t, c.InvalidateOwner(ctx, "u-1"))

	assert.False(t, mr.Exists("todo:u-1:list:v0:a"))
	assert.False(t, mr.Exists("todo:u-1:list:v0:b"))
	assert.True(t, mr.Exists("todo:u-2:list:v0:a"))

	v, err := c.Version(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	v, err = c.Version(ctx, "u-2")
	require.NoError(t, err)
	assert.Zero(t, v)

	require.NoError(t, c.InvalidateOwner(ctx, "nobody"))
}

func TestTodoCache_PageFromOlderVersionIsNotServed(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	before, err := c.Version(ctx, "u-1")
	require.NoError(t, err)

	// A write lands between the reader's store query and its SetList.
	require.NoError(t, c.InvalidateOwner(ctx, "u-1"))
	require.NoError(t, c.SetList(ctx, "u-1", before, "k", samplePage()))

	after, err := c.Version(ctx, "u-1")
	require.NoError(t, err)
	assert.Greater(t, after, before)

	_, ok, err := c.GetList(ctx, "u-1", after, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, mr.TTL("todo:u-1:ver"))
}

func TestTodoCache_CorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("todo:u-1:list:v0:k", "not json"))

	_, ok, err := c.GetList(context.Background(), "u-1", 0, "k")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestListKey(t *testing.T) {
	done := true
	p := dom.PriorityHigh
	a := ListKey(dom.ListQuery{Completed: &done, Priority: &p, Search: "Plan", SortBy: dom.SortByTitle, SortOrder: dom.SortAsc, Page: 2, Limit: 5})
	b := ListKey(dom.ListQuery{Completed: &done, Priority: &p, Search: "PLAN", SortBy: dom.SortByTitle, SortOrder: dom.SortAsc, Page: 2, Limit: 5})
	assert.Equal(t, a, b)
	assert.Equal(t, "c=true|p=HIGH|q=plan|sb=title|so=asc|pg=2|l=5", a)

	assert.NotEqual(t, a, ListKey(dom.ListQuery{SortBy: dom.SortByTitle, SortOrder: dom.SortAsc, Page: 2, Limit: 5}))
}

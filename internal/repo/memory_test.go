package repo

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	dom "github.com/birlikkoshan/todo-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMemory(t *testing.T) (*MemoryTodoRepo, dom.User) {
	t.Helper()
	users := NewMemoryUserRepo()
	u, err := users.Create(context.Background(), dom.User{Email: "a@b.c", Name: "Alice", PasswordHash: "h"})
	require.NoError(t, err)
	return NewMemoryTodoRepo(users), u
}

func titles(list []dom.Todo) []string {
	out := make([]string, len(list))
	for i, t := range list {
		out[i] = t.Title
	}
	return out
}

func TestMemoryUserRepo_UniqueEmail(t *testing.T) {
	users := NewMemoryUserRepo()
	ctx := context.Background()

	_, err := users.Create(ctx, dom.User{Email: "a@b.c", Name: "A"})
	require.NoError(t, err)
	_, err = users.Create(ctx, dom.User{Email: "A@B.C", Name: "B"})
	require.ErrorIs(t, err, ErrConflict)

	other, err := users.Create(ctx, dom.User{Email: "x@b.c", Name: "X"})
	require.NoError(t, err)
	other.Email = "a@b.c"
	_, err = users.Update(ctx, other)
	require.ErrorIs(t, err, ErrConflict)

	got, err := users.GetByEmail(ctx, "X@B.C")
	require.NoError(t, err)
	assert.Equal(t, other.ID, got.ID)

	_, err = users.GetByID(ctx, "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryTodoRepo_CreateAttachesOwner(t *testing.T) {
	repo, u := seedMemory(t)

	got, err := repo.Create(context.Background(), dom.Todo{OwnerID: u.ID, Title: "x", Priority: dom.PriorityLow})
	require.NoError(t, err)
	require.NotEmpty(t, got.ID)
	require.NotNil(t, got.Owner)
	assert.Equal(t, "Alice", got.Owner.Name)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
}

func TestMemoryTodoRepo_FilterAndCountAgree(t *testing.T) {
	repo, u := seedMemory(t)
	ctx := context.Background()

	for _, td := range []dom.Todo{
		{Title: "Project Plan", Priority: dom.PriorityHigh},
		{Title: "Groceries", Description: "plan meals", Priority: dom.PriorityLow},
		{Title: "Gym", Priority: dom.PriorityHigh, Completed: true},
	} {
		td.OwnerID = u.ID
		_, err := repo.Create(ctx, td)
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, dom.Todo{OwnerID: "someone-else", Title: "plan", Priority: dom.PriorityHigh})
	require.NoError(t, err)

	high := dom.PriorityHigh
	done := true
	cases := []dom.TodoFilter{
		{OwnerID: u.ID},
		{OwnerID: u.ID, Search: "PLAN"},
		{OwnerID: u.ID, Priority: &high},
		{OwnerID: u.ID, Completed: &done},
		{OwnerID: u.ID, Priority: &high, Search: "plan"},
	}
	wants := []int{3, 2, 2, 1, 1}
	for i, f := range cases {
		list, err := repo.Find(ctx, f, nil, nil)
		require.NoError(t, err)
		n, err := repo.Count(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, wants[i], n, "case %d", i)
		assert.Len(t, list, n, "case %d", i)
	}
}

func TestMemoryTodoRepo_OrderDueDateNullsLikePostgres(t *testing.T) {
	repo, u := seedMemory(t)
	ctx := context.Background()

	d1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.Add(24 * time.Hour)
	for _, td := range []dom.Todo{
		{Title: "none", DueDate: nil},
		{Title: "late", DueDate: &d2},
		{Title: "early", DueDate: &d1},
	} {
		td.OwnerID = u.ID
		td.Priority = dom.PriorityMedium
		_, err := repo.Create(ctx, td)
		require.NoError(t, err)
	}

	f := dom.TodoFilter{OwnerID: u.ID}
	asc, err := repo.Find(ctx, f, []dom.OrderTerm{{Field: dom.OrderDueDate}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"early", "late", "none"}, titles(asc))

	desc, err := repo.Find(ctx, f, []dom.OrderTerm{{Field: dom.OrderDueDate, Desc: true}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"none", "late", "early"}, titles(desc))
}

func TestMemoryTodoRepo_Window(t *testing.T) {
	repo, u := seedMemory(t)
	ctx := context.Background()
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		_, err := repo.Create(ctx, dom.Todo{OwnerID: u.ID, Title: title, Priority: dom.PriorityLow})
		require.NoError(t, err)
	}
	order := []dom.OrderTerm{{Field: dom.OrderTitle}}
	f := dom.TodoFilter{OwnerID: u.ID}

	page, err := repo.Find(ctx, f, order, &dom.Window{Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d"}, titles(page))

	tail, err := repo.Find(ctx, f, order, &dom.Window{Offset: 4, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"e"}, titles(tail))

	past, err := repo.Find(ctx, f, order, &dom.Window{Offset: 10, Limit: 2})
	require.NoError(t, err)
	assert.NotNil(t, past)
	assert.Empty(t, past)

	for _, w := range []dom.Window{
		{Offset: math.MaxInt, Limit: 2},
		{Offset: -4, Limit: 2},
		{Offset: 3, Limit: math.MaxInt},
	} {
		got, err := repo.Find(ctx, f, order, &w)
		require.NoError(t, err, "%+v", w)
		if w.Offset == 3 {
			assert.Equal(t, []string{"d", "e"}, titles(got))
			continue
		}
		assert.Empty(t, got, "%+v", w)
	}
}

func TestMemoryTodoRepo_TitleOrderIsBytewise(t *testing.T) {
	repo, u := seedMemory(t)
	ctx := context.Background()
	for _, title := range []string{"apple", "Banana", "cherry"} {
		_, err := repo.Create(ctx, dom.Todo{OwnerID: u.ID, Title: title, Priority: dom.PriorityLow})
		require.NoError(t, err)
	}

	got, err := repo.Find(ctx, dom.TodoFilter{OwnerID: u.ID}, []dom.OrderTerm{{Field: dom.OrderTitle}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Banana", "apple", "cherry"}, titles(got))
}

func TestMemoryTodoRepo_ToggleBumpsUpdatedAt(t *testing.T) {
	repo, u := seedMemory(t)
	ctx := context.Background()

	td, err := repo.Create(ctx, dom.Todo{OwnerID: u.ID, Title: "x", Priority: dom.PriorityLow})
	require.NoError(t, err)

	prev := td.UpdatedAt
	for i := 0; i < 3; i++ {
		got, err := repo.Toggle(ctx, td.ID, dom.TogglePinned)
		require.NoError(t, err)
		assert.True(t, got.UpdatedAt.After(prev))
		prev = got.UpdatedAt
	}
	got, err := repo.GetByID(ctx, td.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPinned)
	assert.Equal(t, td.CreatedAt, got.CreatedAt)
}

func TestMemoryTodoRepo_DeleteAndMissing(t *testing.T) {
	repo, u := seedMemory(t)
	ctx := context.Background()

	td, err := repo.Create(ctx, dom.Todo{OwnerID: u.ID, Title: "x", Priority: dom.PriorityLow})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, td.ID))
	assert.True(t, errors.Is(repo.Delete(ctx, td.ID), ErrNotFound))

	_, err = repo.GetByID(ctx, td.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.Update(ctx, td)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.Toggle(ctx, td.ID, dom.ToggleCompleted)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryTodoRepo_ReturnsCopies(t *testing.T) {
	repo, u := seedMemory(t)
	ctx := context.Background()

	due := time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC)
	td, err := repo.Create(ctx, dom.Todo{OwnerID: u.ID, Title: "x", Priority: dom.PriorityLow, DueDate: &due})
	require.NoError(t, err)

	*td.DueDate = due.Add(time.Hour)
	got, err := repo.GetByID(ctx, td.ID)
	require.NoError(t, err)
	assert.True(t, got.DueDate.Equal(due))
}

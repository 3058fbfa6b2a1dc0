package repo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	dom "github.com/birlikkoshan/todo-tracker/internal/domain"

	"github.com/google/uuid"
)

// MemoryUserRepo keeps users in process memory. It backs STORE_DRIVER=memory
// and the service tests.
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]dom.User
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[string]dom.User)}
}

func (r *MemoryUserRepo) Create(_ context.Context, u dom.User) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return dom.User{}, ErrConflict
		}
	}
	now := storeNow()
	u.ID = uuid.NewString()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.users[u.ID] = u
	return u, nil
}

func (r *MemoryUserRepo) GetByEmail(_ context.Context, email string) (dom.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return dom.User{}, ErrNotFound
}

func (r *MemoryUserRepo) GetByID(_ context.Context, id string) (dom.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return dom.User{}, ErrNotFound
	}
	return u, nil
}

func (r *MemoryUserRepo) Update(_ context.Context, u dom.User) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.users[u.ID]
	if !ok {
		return dom.User{}, ErrNotFound
	}
	for id, other := range r.users {
		if id != u.ID && strings.EqualFold(other.Email, u.Email) {
			return dom.User{}, ErrConflict
		}
	}
	cur.Email = u.Email
	cur.Name = u.Name
	cur.UpdatedAt = storeNow()
	r.users[u.ID] = cur
	return cur, nil
}

func (r *MemoryUserRepo) profile(id string) *dom.UserProfile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return &dom.UserProfile{ID: id}
	}
	p := u.Profile()
	return &p
}

// MemoryTodoRepo keeps todos in process memory with the same filtering and
// ordering rules as the Postgres store.
type MemoryTodoRepo struct {
	mu    sync.RWMutex
	todos map[string]dom.Todo
	users *MemoryUserRepo
}

// NewMemoryTodoRepo returns an empty store. users resolves owner profiles and
// may be nil.
func NewMemoryTodoRepo(users *MemoryUserRepo) *MemoryTodoRepo {
	return &MemoryTodoRepo{todos: make(map[string]dom.Todo), users: users}
}

func (r *MemoryTodoRepo) Create(_ context.Context, t dom.Todo) (dom.Todo, error) {
	if t.Title == "" {
		return dom.Todo{}, fmt.Errorf("insert todo: empty title")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := storeNow()
	t.ID = uuid.NewString()
	t.DueDate = copyTime(t.DueDate)
	t.CreatedAt = now
	t.UpdatedAt = now
	t.Owner = nil
	r.todos[t.ID] = t
	return r.withOwner(t), nil
}

func (r *MemoryTodoRepo) GetByID(_ context.Context, id string) (dom.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.todos[id]
	if !ok {
		return dom.Todo{}, ErrNotFound
	}
	return r.withOwner(t), nil
}

func (r *MemoryTodoRepo) Find(_ context.Context, f dom.TodoFilter, order []dom.OrderTerm, w *dom.Window) ([]dom.Todo, error) {
	for _, o := range order {
		if _, ok := orderColumns[o.Field]; !ok {
			return nil, fmt.Errorf("unsupported order field %q", o.Field)
		}
	}

	r.mu.RLock()
	list := make([]dom.Todo, 0)
	for _, t := range r.todos {
		if matches(t, f) {
			list = append(list, t)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(list, func(i, j int) bool { return lessByOrder(list[i], list[j], order) })

	if w != nil {
		list = window(list, w.Offset, w.Limit)
	}
	out := make([]dom.Todo, len(list))
	for i, t := range list {
		out[i] = r.withOwner(t)
	}
	return out, nil
}

func (r *MemoryTodoRepo) Count(_ context.Context, f dom.TodoFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, t := range r.todos {
		if matches(t, f) {
			n++
		}
	}
	return n, nil
}

func (r *MemoryTodoRepo) Update(_ context.Context, t dom.Todo) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.todos[t.ID]
	if !ok {
		return dom.Todo{}, ErrNotFound
	}
	cur.Title = t.Title
	cur.Description = t.Description
	cur.Priority = t.Priority
	cur.DueDate = copyTime(t.DueDate)
	cur.Completed = t.Completed
	cur.IsPinned = t.IsPinned
	cur.UpdatedAt = bump(cur.UpdatedAt)
	r.todos[t.ID] = cur
	return r.withOwner(cur), nil
}

func (r *MemoryTodoRepo) Toggle(_ context.Context, id string, field dom.ToggleField) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.todos[id]
	if !ok {
		return dom.Todo{}, ErrNotFound
	}
	switch field {
	case dom.ToggleCompleted:
		cur.Completed = !cur.Completed
	case dom.TogglePinned:
		cur.IsPinned = !cur.IsPinned
	default:
		return dom.Todo{}, fmt.Errorf("unsupported toggle field %q", field)
	}
	cur.UpdatedAt = bump(cur.UpdatedAt)
	r.todos[id] = cur
	return r.withOwner(cur), nil
}

func (r *MemoryTodoRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.todos[id]; !ok {
		return ErrNotFound
	}
	delete(r.todos, id)
	return nil
}

func (r *MemoryTodoRepo) withOwner(t dom.Todo) dom.Todo {
	t.DueDate = copyTime(t.DueDate)
	if r.users != nil {
		t.Owner = r.users.profile(t.OwnerID)
	} else {
		t.Owner = &dom.UserProfile{ID: t.OwnerID}
	}
	return t
}

func matches(t dom.Todo, f dom.TodoFilter) bool {
	if t.OwnerID != f.OwnerID {
		return false
	}
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Title), q) && !strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	return true
}

func lessByOrder(a, b dom.Todo, order []dom.OrderTerm) bool {
	for _, o := range order {
		c := compareField(a, b, o.Field)
		if c == 0 {
			continue
		}
		if o.Desc {
			return c > 0
		}
		return c < 0
	}
	return a.ID < b.ID
}

// compareField orders like Postgres: false < true, NULL due dates sort
// after every value (last ascending, first descending), and titles compare
// bytewise as under COLLATE "C".
func compareField(a, b dom.Todo, f dom.OrderField) int {
	switch f {
	case dom.OrderPinned:
		return compareBool(a.IsPinned, b.IsPinned)
	case dom.OrderCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case dom.OrderDueDate:
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return 0
		case a.DueDate == nil:
			return 1
		case b.DueDate == nil:
			return -1
		}
		return a.DueDate.Compare(*b.DueDate)
	case dom.OrderTitle:
		return strings.Compare(a.Title, b.Title)
	}
	return 0
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	}
	return -1
}

func window(list []dom.Todo, offset, limit int) []dom.Todo {
	if offset < 0 || limit <= 0 || offset >= len(list) {
		return nil
	}
	if limit > len(list)-offset {
		limit = len(list) - offset
	}
	return list[offset : offset+limit]
}

// storeNow mirrors Postgres timestamptz precision.
func storeNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func bump(prev time.Time) time.Time {
	now := storeNow()
	if !now.After(prev) {
		return prev.Add(time.Microsecond)
	}
	return now
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/birlikkoshan/todo-tracker/internal/cache"
	dom "github.com/birlikkoshan/todo-tracker/internal/domain"
	"github.com/birlikkoshan/todo-tracker/internal/repo"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// CreateTodoInput is a new todo as supplied by the caller.
type CreateTodoInput struct {
	Title       string
	Description string
	Priority    dom.Priority // empty means MEDIUM
	DueDate     string       // ISO date or datetime; empty means none
	IsPinned    bool
}

// UpdateTodoInput is a partial update. Unset fields are left alone; a set
// DueDate with a blank value clears the due date.
type UpdateTodoInput struct {
	Title       dom.Optional[string]
	Description dom.Optional[string]
	Priority    dom.Optional[dom.Priority]
	DueDate     dom.Optional[string]
	Completed   dom.Optional[bool]
	IsPinned    dom.Optional[bool]
}

type TodoService struct {
	repo  repo.TodoRepo
	cache *cache.TodoCache
	sf    singleflight.Group
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
func NewTodoService(r repo.TodoRepo, c *cache.TodoCache) *TodoService {
	return &TodoService{repo: r, cache: c}
}

func (s *TodoService) Create(ctx context.Context, ownerID string, in CreateTodoInput) (dom.Todo, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return dom.Todo{}, fmt.Errorf("%w: title cannot be empty", ErrValidation)
	}
	priority := in.Priority
	if priority == "" {
		priority = dom.PriorityMedium
	}
	if !priority.Valid() {
		return dom.Todo{}, fmt.Errorf("%w: unknown priority %q", ErrValidation, priority)
	}
	due, err := parseDueDate(in.DueDate)
	if err != nil {
		return dom.Todo{}, err
	}

	t, err := s.repo.Create(ctx, dom.Todo{
		OwnerID:     ownerID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Priority:    priority,
		DueDate:     due,
		IsPinned:    in.IsPinned,
	})
	if err != nil {
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx, ownerID)
	return t, nil
}

// GetByID is the access gate for every single-item operation: a missing id
// is ErrNotFound, someone else's todo is ErrForbidden.
func (s *TodoService) GetByID(ctx context.Context, ownerID, id string) (dom.Todo, error) {
	if _, err := uuid.Parse(id); err != nil {
		return dom.Todo{}, ErrNotFound
	}
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	if t.OwnerID != ownerID {
		return dom.Todo{}, ErrForbidden
	}
	return t, nil
}

func (s *TodoService) List(ctx context.Context, ownerID string, q dom.ListQuery) (dom.TodoPage, error) {
	q, err := q.Normalize()
	if err != nil {
		return dom.TodoPage{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if s.cache == nil {
		return s.list(ctx, ownerID, q)
	}

	// The generation is read before the store so that a write finishing
	// mid-read moves later callers to a new key instead of this page.
	ver, err := s.cache.Version(ctx, ownerID)
	if err != nil {
		return s.list(ctx, ownerID, q)
	}
	key := cache.ListKey(q)
	v, err, _ := s.sf.Do(fmt.Sprintf("%s:v%d:%s", ownerID, ver, key), func() (interface{}, error) {
		if page, ok, err := s.cache.GetList(ctx, ownerID, ver, key); err == nil && ok {
			return page, nil
		}
		page, err := s.list(ctx, ownerID, q)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetList(ctx, ownerID, ver, key, page)
		return page, nil
	})
	if err != nil {
		return dom.TodoPage{}, err
	}
	return v.(dom.TodoPage), nil
}

func (s *TodoService) list(ctx context.Context, ownerID string, q dom.ListQuery) (dom.TodoPage, error) {
	filter := q.Filter(ownerID)
	if q.SortBy == dom.SortByPriority {
		return s.listByPriority(ctx, filter, q)
	}

	var (
		items []dom.Todo
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.repo.Find(gctx, filter, orderFor(q), &dom.Window{Offset: q.Offset(), Limit: q.Limit})
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return dom.TodoPage{}, err
	}
	return newPage(items, q, total), nil
}

// listByPriority loads every matching row because the store has no numeric
// priority column to sort on, then sorts and pages in memory.
func (s *TodoService) listByPriority(ctx context.Context, filter dom.TodoFilter, q dom.ListQuery) (dom.TodoPage, error) {
	all, err := s.repo.Find(ctx, filter, []dom.OrderTerm{
		{Field: dom.OrderPinned, Desc: true},
		{Field: dom.OrderCreatedAt, Desc: true},
	}, nil)
	if err != nil {
		return dom.TodoPage{}, err
	}
	sortByPriority(all, q.SortOrder)
	return newPage(paginate(all, q.Offset(), q.Limit), q, len(all)), nil
}

// orderFor builds the store order for every sort key except priority.
// Pinned todos always come first.
func orderFor(q dom.ListQuery) []dom.OrderTerm {
	desc := q.SortOrder == dom.SortDesc
	order := []dom.OrderTerm{{Field: dom.OrderPinned, Desc: true}}
	switch q.SortBy {
	case dom.SortByDueDate:
		order = append(order, dom.OrderTerm{Field: dom.OrderDueDate, Desc: desc}, dom.OrderTerm{Field: dom.OrderCreatedAt, Desc: true})
	case dom.SortByTitle:
		order = append(order, dom.OrderTerm{Field: dom.OrderTitle, Desc: desc}, dom.OrderTerm{Field: dom.OrderCreatedAt, Desc: true})
	default:
		order = append(order, dom.OrderTerm{Field: dom.OrderCreatedAt, Desc: desc})
	}
	return order
}

// sortByPriority is stable: equal ranks keep the incoming order.
func sortByPriority(list []dom.Todo, order dom.SortOrder) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.IsPinned != b.IsPinned {
			return a.IsPinned
		}
		if order == dom.SortAsc {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		return a.Priority.Rank() > b.Priority.Rank()
	})
}

func paginate(list []dom.Todo, offset, limit int) []dom.Todo {
	if offset < 0 || limit <= 0 || offset >= len(list) {
		return nil
	}
	if limit > len(list)-offset {
		limit = len(list) - offset
	}
	return list[offset : offset+limit]
}

func newPage(items []dom.Todo, q dom.ListQuery, total int) dom.TodoPage {
	if items == nil {
		items = []dom.Todo{}
	}
	return dom.TodoPage{
		Items: items,
		Pagination: dom.Pagination{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      total,
			TotalPages: dom.TotalPages(total, q.Limit),
		},
	}
}

func (s *TodoService) Update(ctx context.Context, ownerID, id string, in UpdateTodoInput) (dom.Todo, error) {
	t, err := s.GetByID(ctx, ownerID, id)
	if err != nil {
		return dom.Todo{}, err
	}
	if v, ok := in.Title.Get(); ok {
		v = strings.TrimSpace(v)
		if v == "" {
			return dom.Todo{}, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		t.Title = v
	}
	if v, ok := in.Description.Get(); ok {
		t.Description = strings.TrimSpace(v)
	}
	if v, ok := in.Priority.Get(); ok {
		if !v.Valid() {
			return dom.Todo{}, fmt.Errorf("%w: unknown priority %q", ErrValidation, v)
		}
		t.Priority = v
	}
	if v, ok := in.DueDate.Get(); ok {
		due, err := parseDueDate(v)
		if err != nil {
			return dom.Todo{}, err
		}
		t.DueDate = due
	}
	if v, ok := in.Completed.Get(); ok {
		t.Completed = v
	}
	if v, ok := in.IsPinned.Get(); ok {
		t.IsPinned = v
	}

	out, err := s.repo.Update(ctx, t)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx, ownerID)
	return out, nil
}

func (s *TodoService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.GetByID(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateCache(ctx, ownerID)
	return nil
}

func (s *TodoService) ToggleComplete(ctx context.Context, ownerID, id string) (dom.Todo, error) {
	return s.toggle(ctx, ownerID, id, dom.ToggleCompleted)
}

func (s *TodoService) TogglePin(ctx context.Context, ownerID, id string) (dom.Todo, error) {
	return s.toggle(ctx, ownerID, id, dom.TogglePinned)
}

// toggle negates the stored value in the store itself, never a value the
// client sent.
func (s *TodoService) toggle(ctx context.Context, ownerID, id string, field dom.ToggleField) (dom.Todo, error) {
	if _, err := s.GetByID(ctx, ownerID, id); err != nil {
		return dom.Todo{}, err
	}
	t, err := s.repo.Toggle(ctx, id, field)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx, ownerID)
	return t, nil
}

// Stats runs six independent counts. The result is never cached.
func (s *TodoService) Stats(ctx context.Context, ownerID string) (dom.Stats, error) {
	yes, no := true, false
	high, medium, low := dom.PriorityHigh, dom.PriorityMedium, dom.PriorityLow

	var st dom.Stats
	counts := []struct {
		dst *int
		f   dom.TodoFilter
	}{
		{&st.Total, dom.TodoFilter{OwnerID: ownerID}},
		{&st.Completed, dom.TodoFilter{OwnerID: ownerID, Completed: &yes}},
		{&st.Pending, dom.TodoFilter{OwnerID: ownerID, Completed: &no}},
		{&st.High, dom.TodoFilter{OwnerID: ownerID, Priority: &high}},
		{&st.Medium, dom.TodoFilter{OwnerID: ownerID, Priority: &medium}},
		{&st.Low, dom.TodoFilter{OwnerID: ownerID, Priority: &low}},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range counts {
		g.Go(func() error {
			n, err := s.repo.Count(gctx, c.f)
			if err != nil {
				return err
			}
			*c.dst = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return dom.Stats{}, err
	}
	return st, nil
}

func (s *TodoService) invalidateCache(ctx context.Context, ownerID string) {
	if s.cache != nil {
		_ = s.cache.InvalidateOwner(ctx, ownerID)
	}
}

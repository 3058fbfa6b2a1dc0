package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	dom "github.com/birlikkoshan/todo-tracker/internal/domain"
)

// TodoRepo is the persistent record store behind the todo service.
type TodoRepo interface {
	Create(ctx context.Context, t dom.Todo) (dom.Todo, error)
	GetByID(ctx context.Context, id string) (dom.Todo, error)
	// Find returns rows matching f in the given order. A nil window reads all rows.
	Find(ctx context.Context, f dom.TodoFilter, order []dom.OrderTerm, w *dom.Window) ([]dom.Todo, error)
	Count(ctx context.Context, f dom.TodoFilter) (int, error)
	// Update writes every mutable field of t and bumps updated_at.
	Update(ctx context.Context, t dom.Todo) (dom.Todo, error)
	// Toggle negates a boolean column in place and bumps updated_at.
	Toggle(ctx context.Context, id string, field dom.ToggleField) (dom.Todo, error)
	Delete(ctx context.Context, id string) error
}

const todoColumns = `t.id, t.user_id, t.title, t.description, t.priority, t.due_date,
		t.completed, t.is_pinned, t.created_at, t.updated_at, u.email, u.name`

// updated_at must move forward even when two writes land in the same microsecond.
const bumpUpdatedAt = `updated_at = GREATEST(NOW(), updated_at + INTERVAL '1 microsecond')`

type PGTodoRepo struct {
	db DBTX
}

func NewPGTodoRepo(db DBTX) *PGTodoRepo {
	return &PGTodoRepo{db: db}
}

func (r *PGTodoRepo) Create(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	query := `
		WITH t AS (
			INSERT INTO todos (user_id, title, description, priority, due_date, is_pinned)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING *
		)
		SELECT ` + todoColumns + `
		FROM t JOIN users u ON u.id = t.user_id`
	out, err := scanTodo(r.db.QueryRowContext(ctx, query,
		t.OwnerID, t.Title, t.Description, string(t.Priority), t.DueDate, t.IsPinned))
	if err != nil {
		return dom.Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	return out, nil
}

func (r *PGTodoRepo) GetByID(ctx context.Context, id string) (dom.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos t JOIN users u ON u.id = t.user_id
		WHERE t.id = $1`
	out, err := scanTodo(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, fmt.Errorf("get todo: %w", err)
	}
	return out, nil
}

func (r *PGTodoRepo) Find(ctx context.Context, f dom.TodoFilter, order []dom.OrderTerm, w *dom.Window) ([]dom.Todo, error) {
	where, args := buildWhere(f, 1)
	orderBy, err := buildOrderBy(order)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT ` + todoColumns + `
		FROM todos t JOIN users u ON u.id = t.user_id
		WHERE ` + where + `
		ORDER BY ` + orderBy
	if w != nil {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, w.Limit, w.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find todos: %w", err)
	}
	defer rows.Close()

	list := make([]dom.Todo, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTodoRepo) Count(ctx context.Context, f dom.TodoFilter) (int, error) {
	where, args := buildWhere(f, 1)
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM todos t WHERE `+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count todos: %w", err)
	}
	return n, nil
}

func (r *PGTodoRepo) Update(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	query := `
		WITH t AS (
			UPDATE todos SET title = $2, description = $3, priority = $4, due_date = $5,
				completed = $6, is_pinned = $7, ` + bumpUpdatedAt + `
			WHERE id = $1
			RETURNING *
		)
		SELECT ` + todoColumns + `
		FROM t JOIN users u ON u.id = t.user_id`
	out, err := scanTodo(r.db.QueryRowContext(ctx, query,
		t.ID, t.Title, t.Description, string(t.Priority), t.DueDate, t.Completed, t.IsPinned))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, fmt.Errorf("update todo: %w", err)
	}
	return out, nil
}

func (r *PGTodoRepo) Toggle(ctx context.Context, id string, field dom.ToggleField) (dom.Todo, error) {
	var col string
	switch field {
	case dom.ToggleCompleted:
		col = "completed"
	case dom.TogglePinned:
		col = "is_pinned"
	default:
		return dom.Todo{}, fmt.Errorf("unsupported toggle field %q", field)
	}
	query := `
		WITH t AS (
			UPDATE todos SET ` + col + ` = NOT ` + col + `, ` + bumpUpdatedAt + `
			WHERE id = $1
			RETURNING *
		)
		SELECT ` + todoColumns + `
		FROM t JOIN users u ON u.id = t.user_id`
	out, err := scanTodo(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, fmt.Errorf("toggle %s: %w", col, err)
	}
	return out, nil
}

func (r *PGTodoRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(s rowScanner) (dom.Todo, error) {
	var (
		t        dom.Todo
		priority string
		due      sql.NullTime
		owner    dom.UserProfile
	)
	err := s.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &priority, &due,
		&t.Completed, &t.IsPinned, &t.CreatedAt, &t.UpdatedAt, &owner.Email, &owner.Name)
	if err != nil {
		return dom.Todo{}, err
	}
	t.Priority = dom.Priority(priority)
	if due.Valid {
		d := due.Time
		t.DueDate = &d
	}
	owner.ID = t.OwnerID
	t.Owner = &owner
	return t, nil
}

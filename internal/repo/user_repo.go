package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	dom "github.com/birlikkoshan/todo-tracker/internal/domain"
)

// UserRepo provides user persistence.
type UserRepo interface {
	Create(ctx context.Context, u dom.User) (dom.User, error)
	GetByEmail(ctx context.Context, email string) (dom.User, error)
	GetByID(ctx context.Context, id string) (dom.User, error)
	// Update writes email and name.
	Update(ctx context.Context, u dom.User) (dom.User, error)
}

const userColumns = `id, email, name, password_hash, created_at, updated_at`

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db DBTX
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db DBTX) *PGUserRepo {
	return &PGUserRepo{db: db}
}

// Create inserts a new user and returns it. A taken email yields ErrConflict.
func (r *PGUserRepo) Create(ctx context.Context, u dom.User) (dom.User, error) {
	query := `
		INSERT INTO users (email, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns
	out, err := scanUser(r.db.QueryRowContext(ctx, query, u.Email, u.Name, u.PasswordHash))
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return dom.User{}, ErrConflict
		}
		return dom.User{}, fmt.Errorf("insert user: %w", err)
	}
	return out, nil
}

// GetByEmail returns the user by email (case-insensitive).
func (r *PGUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

// GetByID returns the user by id.
func (r *PGUserRepo) GetByID(ctx context.Context, id string) (dom.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *PGUserRepo) Update(ctx context.Context, u dom.User) (dom.User, error) {
	query := `
		UPDATE users SET email = $2, name = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	out, err := scanUser(r.db.QueryRowContext(ctx, query, u.ID, u.Email, u.Name))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return dom.User{}, ErrNotFound
		case pgCode(err) == pgUniqueViolation:
			return dom.User{}, ErrConflict
		}
		return dom.User{}, fmt.Errorf("update user: %w", err)
	}
	return out, nil
}

func (r *PGUserRepo) getOne(ctx context.Context, query string, arg any) (dom.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func scanUser(s rowScanner) (dom.User, error) {
	var u dom.User
	err := s.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

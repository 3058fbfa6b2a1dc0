package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	dom "github.com/birlikkoshan/todo-tracker/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

var userRowColumns = []string{"id", "email", "name", "password_hash", "created_at", "updated_at"}

func newUserRepoWithMock(t *testing.T) (*PGUserRepo, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPGUserRepo(db), mock, db
}

func TestPGUserRepo_Create(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`(?s)INSERT INTO users \(email, name, password_hash\)\s*VALUES \(\$1, \$2, \$3\)`).
		WithArgs("a@b.c", "Alice", "hash").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow("u-1", "a@b.c", "Alice", "hash", now, now))

	u, err := repo.Create(context.Background(), dom.User{Email: "a@b.c", Name: "Alice", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if u.ID != "u-1" || u.Name != "Alice" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestPGUserRepo_Create_Duplicate(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), dom.User{Email: "a@b.c", Name: "Alice", PasswordHash: "hash"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
}

func TestPGUserRepo_GetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`WHERE lower\(email\) = lower\(\$1\)`).
		WithArgs("ghost@b.c").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@b.c")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestPGUserRepo_Update(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`(?s)UPDATE users SET email = \$2, name = \$3, updated_at = NOW\(\)\s+WHERE id = \$1`).
		WithArgs("u-1", "new@b.c", "Alice").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow("u-1", "new@b.c", "Alice", "hash", now, now))
	mock.ExpectQuery(`UPDATE users`).
		WithArgs("u-1", "taken@b.c", "Alice").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	u, err := repo.Update(context.Background(), dom.User{ID: "u-1", Email: "new@b.c", Name: "Alice"})
	if err != nil || u.Email != "new@b.c" {
		t.Fatalf("Update: %+v, %v", u, err)
	}
	_, err = repo.Update(context.Background(), dom.User{ID: "u-1", Email: "taken@b.c", Name: "Alice"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
}

func TestPgCode(t *testing.T) {
	dup := &pgconn.PgError{Code: pgUniqueViolation}
	if got := pgCode(fmt.Errorf("insert user: %w", dup)); got != pgUniqueViolation {
		t.Fatalf("wrapped: got %q", got)
	}
	if got := pgCode(errors.New("boom")); got != "" {
		t.Fatalf("plain error: got %q", got)
	}
	if got := pgCode(nil); got != "" {
		t.Fatalf("nil: got %q", got)
	}
}

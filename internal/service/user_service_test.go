package service

import (
	"context"
	"testing"

	dom "github.com/birlikkoshan/todo-tracker/internal/domain"
	"github.com/birlikkoshan/todo-tracker/internal/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister(t *testing.T) {
	s := NewUserService(repo.NewMemoryUserRepo())
	ctx := context.Background()

	u, err := s.Register(ctx, "  Alice@Example.com ", " Alice ", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "Alice", u.Name)
	assert.NotEqual(t, "secret1", u.PasswordHash)

	_, err = s.Register(ctx, "ALICE@example.com", "Other", "secret2")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_Validation(t *testing.T) {
	s := NewUserService(repo.NewMemoryUserRepo())
	ctx := context.Background()

	tests := []struct {
		name, email, user, password string
	}{
		{"bad email", "not-an-email", "A", "secret1"},
		{"display name in email", "Alice <a@b.c>", "A", "secret1"},
		{"empty name", "a@b.c", "  ", "secret1"},
		{"short password", "a@b.c", "A", "12345"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(ctx, tt.email, tt.user, tt.password)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestValidateCredentials(t *testing.T) {
	s := NewUserService(repo.NewMemoryUserRepo())
	ctx := context.Background()
	reg, err := s.Register(ctx, "bob@example.com", "Bob", "hunter22")
	require.NoError(t, err)

	u, err := s.ValidateCredentials(ctx, "BOB@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, u.ID)

	_, err = s.ValidateCredentials(ctx, "bob@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.ValidateCredentials(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.ValidateCredentials(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestProfileAndUpdate(t *testing.T) {
	s := NewUserService(repo.NewMemoryUserRepo())
	ctx := context.Background()
	a, err := s.Register(ctx, "a@example.com", "A", "secret1")
	require.NoError(t, err)
	_, err = s.Register(ctx, "b@example.com", "B", "secret1")
	require.NoError(t, err)

	_, err = s.Profile(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)

	got, err := s.UpdateProfile(ctx, a.ID, UpdateProfileInput{Name: dom.Some("Alice")})
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "a@example.com", got.Email)

	_, err = s.UpdateProfile(ctx, a.ID, UpdateProfileInput{Email: dom.Some("B@example.com")})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = s.UpdateProfile(ctx, a.ID, UpdateProfileInput{Name: dom.Some(" ")})
	assert.ErrorIs(t, err, ErrValidation)

	got, err = s.UpdateProfile(ctx, a.ID, UpdateProfileInput{Email: dom.Some("alice@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)

	_, err = s.ValidateCredentials(ctx, "alice@example.com", "secret1")
	assert.NoError(t, err)
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("admin")
	require.NoError(t, err)
	assert.NotEqual(t, "admin", h)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(h), []byte("admin")))

	cost, err := bcrypt.Cost([]byte(h))
	require.NoError(t, err)
	assert.Equal(t, passwordCost, cost)
}

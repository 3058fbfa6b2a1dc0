package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	dom "github.com/birlikkoshan/todo-tracker/internal/domain"
	"github.com/birlikkoshan/todo-tracker/internal/repo"

	"golang.org/x/crypto/bcrypt"
)

const (
	passwordCost      = 10
	minPasswordLength = 6
)

// UpdateProfileInput is a partial profile update.
type UpdateProfileInput struct {
	Email dom.Optional[string]
	Name  dom.Optional[string]
}

// UserService handles accounts and credentials.
type UserService struct {
	repo repo.UserRepo
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo) *UserService {
	return &UserService{repo: repo}
}

// Register creates a new user with a hashed password.
func (s *UserService) Register(ctx context.Context, email, name, password string) (dom.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return dom.User{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return dom.User{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if len(password) < minPasswordLength {
		return dom.User{}, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, dom.User{Email: email, Name: name, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return dom.User{}, ErrEmailTaken
		}
		return dom.User{}, err
	}
	return u, nil
}

// ValidateCredentials checks email and password; returns user if valid.
func (s *UserService) ValidateCredentials(ctx context.Context, email, password string) (dom.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *UserService) Profile(ctx context.Context, userID string) (dom.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.User{}, ErrUserNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (dom.User, error) {
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return dom.User{}, err
	}
	if v, ok := in.Email.Get(); ok {
		email, err := normalizeEmail(v)
		if err != nil {
			return dom.User{}, err
		}
		u.Email = email
	}
	if v, ok := in.Name.Get(); ok {
		v = strings.TrimSpace(v)
		if v == "" {
			return dom.User{}, fmt.Errorf("%w: name cannot be empty", ErrValidation)
		}
		u.Name = v
	}

	out, err := s.repo.Update(ctx, u)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrConflict):
			return dom.User{}, ErrEmailTaken
		case errors.Is(err, repo.ErrNotFound):
			return dom.User{}, ErrUserNotFound
		}
		return dom.User{}, err
	}
	return out, nil
}

// HashPassword returns the bcrypt hash stored for a password.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func normalizeEmail(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", fmt.Errorf("%w: invalid email", ErrValidation)
	}
	return s, nil
}

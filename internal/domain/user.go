package domain

import "time"

// User is the domain entity for a user account.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserProfile is the public part of a user attached to todos.
type UserProfile struct {
	ID    string
	Email string
	Name  string
}

func (u User) Profile() UserProfile {
	return UserProfile{ID: u.ID, Email: u.Email, Name: u.Name}
}

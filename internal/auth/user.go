// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskShare Contributors

package auth

import (
	"context"
	"strings"
	"time"
)

// User is a registered account. PasswordHash never leaves the service in
// serialized form.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	ImageID      *string   `json:"image_id"`
	Introduction *string   `json:"introduction"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile is the public view of a user.
type Profile struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	ImageID      *string `json:"image_id"`
	Introduction *string `json:"introduction"`
}

// Profile projects the user onto its public fields.
func (u *User) Profile() *Profile {
	return &Profile{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		ImageID:      u.ImageID,
		Introduction: u.Introduction,
	}
}

// UserRepository persists users. Implementations translate a unique email
// violation into ErrDuplicateEmail and a missing row into ErrNotFound.
type UserRepository interface {
	// Create inserts the user and fills in ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// Update writes every mutable field and refreshes UpdatedAt.
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int64) error
	// List returns all users ordered by ID.
	List(ctx context.Context) ([]*User, error)
}

// NormalizeEmail trims surrounding space and lowercases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

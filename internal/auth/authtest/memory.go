// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskShare Contributors

// Package authtest provides an in-memory auth.UserRepository for tests.
package authtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taskshare/taskshare/internal/auth"
)

// MemoryUserRepository stores users in a map guarded by a mutex. Email
// uniqueness is enforced the way the database index does it.
type MemoryUserRepository struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]auth.User
}

// NewMemoryUserRepository creates an empty repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[int64]auth.User)}
}

// Create stores the user and assigns the next ID and timestamps.
func (r *MemoryUserRepository) Create(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(user.Email, 0) {
		return auth.ErrDuplicateEmail
	}
	r.nextID++
	now := time.Now().UTC()
	user.ID = r.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

// GetByID returns a copy of the user with the given ID.
func (r *MemoryUserRepository) GetByID(_ context.Context, id int64) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return &u, nil
}

// GetByEmail returns a copy of the user with the given email.
func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, auth.ErrNotFound
}

// Update replaces the stored user and refreshes UpdatedAt.
func (r *MemoryUserRepository) Update(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return auth.ErrNotFound
	}
	if r.emailTaken(user.Email, user.ID) {
		return auth.ErrDuplicateEmail
	}
	user.UpdatedAt = time.Now().UTC()
	r.users[user.ID] = *user
	return nil
}

// Delete removes the user with the given ID.
func (r *MemoryUserRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return auth.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// List returns copies of all users ordered by ID.
func (r *MemoryUserRepository) List(_ context.Context) ([]*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]*auth.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// Len returns the number of stored users.
func (r *MemoryUserRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

func (r *MemoryUserRepository) emailTaken(email string, exceptID int64) bool {
	for id, u := range r.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

var _ auth.UserRepository = (*MemoryUserRepository)(nil)

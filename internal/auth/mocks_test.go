// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskShare Contributors

package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/taskshare/taskshare/internal/auth"
)

// mockUserRepository mocks of auth.UserRepository.
type mockUserRepository struct {
	mock.Mock
}

// newMockUserRepository creates a mock that asserts its expectations on cleanup.
func newMockUserRepository(t *testing.T) *mockUserRepository {
	m := &mockUserRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *mockUserRepository) Create(ctx context.Context, user *auth.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*auth.User, error) {
	ret := m.Called(ctx, id)
	return userOrNil(ret.Get(0)), ret.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	ret := m.Called(ctx, email)
	return userOrNil(ret.Get(0)), ret.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *auth.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepository) List(ctx context.Context) ([]*auth.User, error) {
	ret := m.Called(ctx)
	users, _ := ret.Get(0).([]*auth.User)
	return users, ret.Error(1)
}

func userOrNil(v any) *auth.User {
	u, _ := v.(*auth.User)
	return u
}

// mockPasswordHasher mocks of auth.PasswordHasher.
type mockPasswordHasher struct {
	mock.Mock
}

// newMockPasswordHasher creates a mock that asserts its expectations on cleanup.
func newMockPasswordHasher(t *testing.T) *mockPasswordHasher {
	m := &mockPasswordHasher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *mockPasswordHasher) Hash(password string) (string, error) {
	ret := m.Called(password)
	return ret.String(0), ret.Error(1)
}

func (m *mockPasswordHasher) Verify(password, hash string) (bool, error) {
	ret := m.Called(password, hash)
	return ret.Bool(0), ret.Error(1)
}

func (m *mockPasswordHasher) NeedsUpgrade(hash string) bool {
	return m.Called(hash).Bool(0)
}

// mockTokenIssuer mocks of auth.TokenIssuer.
type mockTokenIssuer struct {
	mock.Mock
}

// newMockTokenIssuer creates a mock that asserts its expectations on cleanup.
func newMockTokenIssuer(t *testing.T) *mockTokenIssuer {
	m := &mockTokenIssuer{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *mockTokenIssuer) Issue(userID int64, email string) (auth.IssuedToken, error) {
	ret := m.Called(userID, email)
	token, _ := ret.Get(0).(auth.IssuedToken)
	return token, ret.Error(1)
}

var (
	_ auth.UserRepository = (*mockUserRepository)(nil)
	_ auth.PasswordHasher = (*mockPasswordHasher)(nil)
	_ auth.TokenIssuer    = (*mockTokenIssuer)(nil)
)

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskShare Contributors

package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taskshare/taskshare/internal/auth"
)

var testSecret = []byte("httpapi-test-secret")

// mockAuthService is a testify mock of AuthService.
type mockAuthService struct {
	mock.Mock
}

func newMockAuthService(t *testing.T) *mockAuthService {
	m := &mockAuthService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *mockAuthService) SignUp(ctx context.Context, cmd auth.SignUpCommand) (*auth.User, error) {
	args := m.Called(ctx, cmd)
	u, _ := args.Get(0).(*auth.User)
	return u, args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, cmd auth.LoginCommand) (auth.IssuedToken, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(auth.IssuedToken), args.Error(1)
}

func (m *mockAuthService) GetPrincipal(ctx context.Context, claims *auth.Claims) (*auth.Profile, error) {
	args := m.Called(ctx, claims)
	p, _ := args.Get(0).(*auth.Profile)
	return p, args.Error(1)
}

func (m *mockAuthService) UpdateProfile(ctx context.Context, userID int64, cmd auth.UpdateProfileCommand) (*auth.User, error) {
	args := m.Called(ctx, userID, cmd)
	u, _ := args.Get(0).(*auth.User)
	return u, args.Error(1)
}

func (m *mockAuthService) DeleteAccount(ctx context.Context, userID int64) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *mockAuthService) ListUsers(ctx context.Context) ([]*auth.Profile, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).([]*auth.Profile)
	return p, args.Error(1)
}

func (m *mockAuthService) GetProfile(ctx context.Context, userID int64) (*auth.Profile, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(*auth.Profile)
	return p, args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestIssuer(t *testing.T) *auth.JWTIssuer {
	t.Helper()
	issuer, err := auth.NewJWTIssuer(testSecret)
	require.NoError(t, err)
	return issuer
}

func newTestHandler(t *testing.T, svc AuthService, origins ...string) http.Handler {
	t.Helper()
	h, err := NewHandler(Options{
		Service:        svc,
		Verifier:       newTestIssuer(t),
		Logger:         discardLogger(),
		AllowedOrigins: origins,
	})
	require.NoError(t, err)
	return h
}

// sessionFor returns a valid session cookie for userID.
func sessionFor(t *testing.T, userID int64, email string) *http.Cookie {
	t.Helper()
	token, err := newTestIssuer(t).Issue(userID, email)
	require.NoError(t, err)
	return &http.Cookie{Name: SessionCookieName, Value: token.AccessToken}
}

func do(h http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&body), rec.Body.String())
	return body
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody(t, rec)
	e, ok := body["error"].(map[string]any)
	require.True(t, ok, "expected error envelope, got %s", rec.Body.String())
	code, _ := e["code"].(string)
	return code
}

// responseCookie returns the named Set-Cookie of rec, or nil.
func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

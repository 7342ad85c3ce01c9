// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskShare Contributors

package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/samber/oops"

	"github.com/taskshare/taskshare/internal/auth"
	"github.com/taskshare/taskshare/internal/observability"
)

// AuthService is the behavior the handlers need from auth.Service.
type AuthService interface {
	SignUp(ctx context.Context, cmd auth.SignUpCommand) (*auth.User, error)
	Login(ctx context.Context, cmd auth.LoginCommand) (auth.IssuedToken, error)
	GetPrincipal(ctx context.Context, claims *auth.Claims) (*auth.Profile, error)
	UpdateProfile(ctx context.Context, userID int64, cmd auth.UpdateProfileCommand) (*auth.User, error)
	DeleteAccount(ctx context.Context, userID int64) (string, error)
	ListUsers(ctx context.Context) ([]*auth.Profile, error)
	GetProfile(ctx context.Context, userID int64) (*auth.Profile, error)
}

// LoggedOutMessage is the body message of a logout.
const LoggedOutMessage = "logged out"

type loginResponse struct {
	ExpiresAt time.Time `json:"expires_at"`
}

type handlers struct {
	svc      AuthService
	verifier auth.TokenVerifier
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// authedHandler receives the verified session claims of the caller.
type authedHandler func(w http.ResponseWriter, r *http.Request, claims *auth.Claims)

// authenticated verifies the session cookie before calling next.
func (h *handlers) authenticated(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := h.verifier.Verify(sessionToken(r))
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		next(w, r, claims)
	}
}

func (h *handlers) signUp(w http.ResponseWriter, r *http.Request) {
	var cmd auth.SignUpCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, err := h.svc.SignUp(r.Context(), cmd)
	h.metrics.ObserveAuth("signup", err)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var cmd auth.LoginCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	token, err := h.svc.Login(r.Context(), cmd)
	h.metrics.ObserveAuth("login", err)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	setSessionCookie(w, token.AccessToken)
	writeJSON(w, http.StatusOK, loginResponse{ExpiresAt: token.ExpiresAt})
}

func (h *handlers) me(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	profile, err := h.svc.GetPrincipal(r.Context(), claims)
	h.metrics.ObserveAuth("get_principal", err)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *handlers) updateMe(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	userID, err := claims.UserID()
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var cmd auth.UpdateProfileCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, err := h.svc.UpdateProfile(r.Context(), userID, cmd)
	h.metrics.ObserveAuth("update_profile", err)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *handlers) logout(w http.ResponseWriter, _ *http.Request) {
	clearSessionCookie(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: LoggedOutMessage})
}

// deleteMe clears the session cookie before deleting, so the cookie is
// gone whatever the outcome.
func (h *handlers) deleteMe(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	clearSessionCookie(w)

	userID, err := claims.UserID()
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	msg, err := h.svc.DeleteAccount(r.Context(), userID)
	h.metrics.ObserveAuth("delete_account", err)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}

func (h *handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.svc.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (h *handlers) userProfile(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["id"]
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, r, h.logger, oops.Code(auth.CodeInvalidInput).With("id", raw).Errorf("user id must be a positive integer"))
		return
	}

	profile, err := h.svc.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

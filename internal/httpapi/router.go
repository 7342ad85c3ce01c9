// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskShare Contributors

// Package httpapi exposes the auth service over HTTP with a cookie session.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/samber/oops"

	"github.com/taskshare/taskshare/internal/auth"
	"github.com/taskshare/taskshare/internal/observability"
)

// Options configures NewHandler.
type Options struct {
	Service  AuthService
	Verifier auth.TokenVerifier
	Logger   *slog.Logger
	// Metrics may be nil.
	Metrics        *observability.Metrics
	AllowedOrigins []string
}

// NewHandler builds the API handler with its middleware chain.
func NewHandler(opts Options) (http.Handler, error) {
	if opts.Service == nil {
		return nil, oops.Errorf("auth service is required")
	}
	if opts.Verifier == nil {
		return nil, oops.Errorf("token verifier is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	cors, err := NewCORS(opts.AllowedOrigins)
	if err != nil {
		return nil, err
	}

	h := &handlers{
		svc:      opts.Service,
		verifier: opts.Verifier,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
	}

	r := mux.NewRouter()
	r.Use(captureRoute)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: apiError{Code: "ROUTE_NOT_FOUND", Message: "not found"}})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: apiError{Code: "METHOD_NOT_ALLOWED", Message: "method not allowed"}})
	})

	r.HandleFunc("/auth/signup", h.signUp).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", h.logout).Methods(http.MethodDelete)
	r.HandleFunc("/auth/me", h.authenticated(h.me)).Methods(http.MethodGet)
	r.HandleFunc("/auth/me", h.authenticated(h.updateMe)).Methods(http.MethodPatch)
	r.HandleFunc("/auth/me", h.authenticated(h.deleteMe)).Methods(http.MethodDelete)
	r.HandleFunc("/users", h.listUsers).Methods(http.MethodGet)
	r.HandleFunc("/users/{id}/profile", h.userProfile).Methods(http.MethodGet)

	var handler http.Handler = r
	handler = cors.Middleware(handler)
	handler = withAccessLog(opts.Logger, opts.Metrics)(handler)
	handler = withRecovery(opts.Logger)(handler)
	handler = withRequestID(handler)
	return handler, nil
}

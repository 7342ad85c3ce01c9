// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskShare Contributors

package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/taskshare/taskshare/internal/auth"
	"github.com/taskshare/taskshare/pkg/errutil"
)

// codeInternal replaces every code that has no public mapping.
const codeInternal = "INTERNAL"

type publicError struct {
	status  int
	message string
}

// publicErrors lists the codes a client may see. Anything else is a 500
// with a generic body.
var publicErrors = map[string]publicError{
	auth.CodeInvalidInput:       {http.StatusBadRequest, "invalid input"},
	auth.CodeDuplicateEmail:     {http.StatusForbidden, "email already registered"},
	auth.CodeInvalidCredentials: {http.StatusForbidden, "invalid email or password"},
	auth.CodeUserNotFound:       {http.StatusNotFound, "user not found"},
	auth.CodeUserNotRegistered:  {http.StatusNotFound, "user is not registered"},
	auth.CodeSessionMissing:     {http.StatusUnauthorized, "authentication required"},
	auth.CodeSessionInvalid:     {http.StatusUnauthorized, "invalid session"},
	auth.CodeSessionExpired:     {http.StatusUnauthorized, "session expired"},
}

// StatusFor returns the HTTP status for an error code.
func StatusFor(code string) int {
	if pe, ok := publicErrors[code]; ok {
		return pe.status
	}
	return http.StatusInternalServerError
}

// writeError renders err. Server errors are logged with their full context;
// client errors are logged at debug.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	code := errutil.Code(err)
	pe, ok := publicErrors[code]
	if !ok {
		errutil.LogErrorContext(r.Context(), logger, "request failed", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: apiError{
			Code:    codeInternal,
			Message: "internal server error",
		}})
		return
	}

	logger.DebugContext(r.Context(), "request rejected", errutil.Attrs(err)...)
	body := apiError{Code: code, Message: pe.message}
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		body.Fields = make(map[string]string, len(fieldErrs))
		for field, fe := range fieldErrs {
			body.Fields[field] = fe.Error()
		}
	}
	writeJSON(w, pe.status, errorResponse{Error: body})
}

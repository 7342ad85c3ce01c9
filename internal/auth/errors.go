// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskShare Contributors

package auth

import (
	"errors"

	"github.com/samber/oops"
)

// ErrNotFound is returned when a requested user does not exist.
var ErrNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned by a UserRepository when the email is
// already held by another account.
var ErrDuplicateEmail = errors.New("email already registered")

// Error codes surfaced to callers. Transport layers map these to responses.
const (
	CodeInvalidInput       = "AUTH_INVALID_INPUT"
	CodeDuplicateEmail     = "AUTH_DUPLICATE_EMAIL"
	CodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeUserNotRegistered  = "USER_NOT_REGISTERED"
	CodeSessionMissing     = "SESSION_MISSING"
	CodeSessionInvalid     = "SESSION_INVALID"
	CodeSessionExpired     = "SESSION_EXPIRED"
	CodeMissingSecret      = "CONFIG_MISSING_SECRET"
)

// invalidCredentials is shared by every login failure so that an unknown
// email and a wrong password are indistinguishable to the caller.
func invalidCredentials() error {
	return oops.Code(CodeInvalidCredentials).Errorf("invalid email or password")
}

func invalidInput(err error) error {
	return oops.Code(CodeInvalidInput).Wrap(err)
}

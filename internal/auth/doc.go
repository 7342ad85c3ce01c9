// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskShare Contributors

// Package auth provides account management and session issuance for TaskShare.
//
// # Primitives
//
//   - BcryptHasher - salted bcrypt digests at PasswordCost
//   - JWTIssuer - HS256 access tokens valid for SessionTTL
//   - UserRepository - persistence contract; see the postgres subpackage
//
// # Services
//
// Service coordinates sign-up, login, profile access and account deletion.
// It is created with NewService, which validates its dependencies. Commands
// (SignUpCommand, LoginCommand, UpdateProfileCommand) are validated by the
// service itself, so callers may pass decoded request bodies directly.
//
// Errors carry oops codes (see errors.go) that transport layers translate
// into responses. ErrNotFound and ErrDuplicateEmail remain reachable with
// errors.Is.
package auth

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskShare Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/taskshare/taskshare/pkg/errutil"
)

var tracer = otel.Tracer("taskshare/auth")

// AccountDeletedMessage is returned by DeleteAccount on success.
const AccountDeletedMessage = "account deleted"

// dummyPasswordHash is verified against when the email is unknown so that
// login latency does not reveal whether an account exists. It is a cost-12
// bcrypt digest of a throwaway string and matches no user password.
//
//nolint:gosec // G101: not a credential
const dummyPasswordHash = "$2a$12$UuaXOYlUm5xY0gbBXNuDQeKijB2n3bs0yTJZlKtrjF4g99Pvw/dPW"

// Service implements sign-up, login and account management.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
	logger *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger used by the service.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a new Service.
func NewService(users UserRepository, hasher PasswordHasher, tokens TokenIssuer, opts ...ServiceOption) (*Service, error) {
	if users == nil {
		return nil, oops.Errorf("users repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Errorf("token issuer is required")
	}

	s := &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	return s, nil
}

// SignUp validates the command, hashes the password and stores a new user.
func (s *Service) SignUp(ctx context.Context, cmd SignUpCommand) (*User, error) {
	ctx, span := tracer.Start(ctx, "auth.signup")
	defer span.End()

	cmd.Name = strings.TrimSpace(cmd.Name)
	cmd.Email = NormalizeEmail(cmd.Email)
	if err := cmd.Validate(); err != nil {
		return nil, fail(span, invalidInput(err))
	}

	hash, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fail(span, oops.Code("AUTH_SIGNUP_FAILED").With("operation", "hash password").Wrap(err))
	}

	user := &User{
		Name:         cmd.Name,
		Email:        cmd.Email,
		PasswordHash: hash,
		ImageID:      cmd.ImageID,
		Introduction: cmd.Introduction,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, fail(span, oops.Code(CodeDuplicateEmail).With("email", cmd.Email).Wrap(ErrDuplicateEmail))
		}
		return nil, fail(span, oops.Code("AUTH_SIGNUP_FAILED").With("operation", "create user").Wrap(err))
	}

	span.SetAttributes(attribute.Int64("user.id", user.ID))
	s.logger.InfoContext(ctx, "user signed up", "user_id", user.ID)
	return user, nil
}

// Login verifies the credentials and issues an access token.
// Unknown email and wrong password produce the same error and comparable latency.
func (s *Service) Login(ctx context.Context, cmd LoginCommand) (IssuedToken, error) {
	ctx, span := tracer.Start(ctx, "auth.login")
	defer span.End()

	cmd.Email = NormalizeEmail(cmd.Email)
	if err := cmd.Validate(); err != nil {
		return IssuedToken{}, fail(span, invalidInput(err))
	}

	user, lookupErr := s.users.GetByEmail(ctx, cmd.Email)

	var targetHash string
	var userExists bool
	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return IssuedToken{}, fail(span, oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get user by email").
				Wrap(lookupErr))
		}
		targetHash = dummyPasswordHash
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	valid, verifyErr := s.hasher.Verify(cmd.Password, targetHash)
	if verifyErr != nil {
		if !userExists {
			return IssuedToken{}, fail(span, invalidCredentials())
		}
		return IssuedToken{}, fail(span, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			With("user_id", user.ID).
			Wrap(verifyErr))
	}

	if !userExists || !valid {
		s.logger.DebugContext(ctx, "login rejected", "user_known", userExists)
		return IssuedToken{}, fail(span, invalidCredentials())
	}

	if s.hasher.NeedsUpgrade(user.PasswordHash) {
		s.upgradeHash(ctx, user, cmd.Password)
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return IssuedToken{}, fail(span, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "issue token").
			With("user_id", user.ID).
			Wrap(err))
	}

	span.SetAttributes(attribute.Int64("user.id", user.ID))
	return token, nil
}

// upgradeHash re-hashes a password stored with outdated parameters.
// Failures are logged and never fail the login.
func (s *Service) upgradeHash(ctx context.Context, user *User, password string) {
	newHash, err := s.hasher.Hash(password)
	if err != nil {
		errutil.LogErrorContext(ctx, s.logger, "password hash upgrade failed", err)
		return
	}
	upgraded := *user
	upgraded.PasswordHash = newHash
	if err := s.users.Update(ctx, &upgraded); err != nil {
		errutil.LogErrorContext(ctx, s.logger, "password hash upgrade failed", err)
		return
	}
	s.logger.InfoContext(ctx, "password hash upgraded", "user_id", user.ID)
}

// GetPrincipal returns the profile of the user named by the token claims.
// A token whose user no longer exists fails with USER_NOT_FOUND.
func (s *Service) GetPrincipal(ctx context.Context, claims *Claims) (*Profile, error) {
	ctx, span := tracer.Start(ctx, "auth.get_principal")
	defer span.End()

	if claims == nil {
		return nil, fail(span, oops.Code(CodeSessionMissing).Errorf("no session claims"))
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, fail(span, err)
	}

	user, err := s.lookup(ctx, id, CodeUserNotFound)
	if err != nil {
		return nil, fail(span, err)
	}
	return user.Profile(), nil
}

// UpdateProfile overwrites the fields present in cmd. A new password is
// always re-hashed.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, cmd UpdateProfileCommand) (*User, error) {
	ctx, span := tracer.Start(ctx, "auth.update_profile", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()

	if cmd.Name != nil {
		name := strings.TrimSpace(*cmd.Name)
		cmd.Name = &name
	}
	if cmd.Email != nil {
		email := NormalizeEmail(*cmd.Email)
		cmd.Email = &email
	}
	if err := cmd.Validate(); err != nil {
		return nil, fail(span, invalidInput(err))
	}

	user, err := s.lookup(ctx, userID, CodeUserNotRegistered)
	if err != nil {
		return nil, fail(span, err)
	}
	if cmd.IsEmpty() {
		return user, nil
	}

	if cmd.Name != nil {
		user.Name = *cmd.Name
	}
	if cmd.Email != nil {
		user.Email = *cmd.Email
	}
	if cmd.ImageID != nil {
		user.ImageID = cmd.ImageID
	}
	if cmd.Introduction != nil {
		user.Introduction = cmd.Introduction
	}
	if cmd.Password != nil {
		hash, err := s.hasher.Hash(*cmd.Password)
		if err != nil {
			return nil, fail(span, oops.Code("USER_UPDATE_FAILED").
				With("operation", "hash password").
				With("user_id", userID).
				Wrap(err))
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, ErrDuplicateEmail):
			return nil, fail(span, oops.Code(CodeDuplicateEmail).With("user_id", userID).Wrap(ErrDuplicateEmail))
		case errors.Is(err, ErrNotFound):
			return nil, fail(span, oops.Code(CodeUserNotRegistered).With("user_id", userID).Wrap(ErrNotFound))
		default:
			return nil, fail(span, oops.Code("USER_UPDATE_FAILED").
				With("operation", "update user").
				With("user_id", userID).
				Wrap(err))
		}
	}

	s.logger.InfoContext(ctx, "profile updated", "user_id", userID, "password_changed", cmd.Password != nil)
	return user, nil
}

// DeleteAccount removes the user. A missing user fails with USER_NOT_FOUND
// and nothing is changed.
func (s *Service) DeleteAccount(ctx context.Context, userID int64) (string, error) {
	ctx, span := tracer.Start(ctx, "auth.delete_account", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()

	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fail(span, oops.Code(CodeUserNotFound).With("user_id", userID).Wrap(ErrNotFound))
		}
		return "", fail(span, oops.Code("USER_DELETE_FAILED").
			With("operation", "delete user").
			With("user_id", userID).
			Wrap(err))
	}

	s.logger.InfoContext(ctx, "account deleted", "user_id", userID)
	return AccountDeletedMessage, nil
}

// ListUsers returns the profiles of all users ordered by ID.
func (s *Service) ListUsers(ctx context.Context) ([]*Profile, error) {
	ctx, span := tracer.Start(ctx, "auth.list_users")
	defer span.End()

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fail(span, oops.Code("USER_LIST_FAILED").With("operation", "list users").Wrap(err))
	}

	profiles := make([]*Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Profile())
	}
	return profiles, nil
}

// GetProfile returns the public profile of any user.
func (s *Service) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	ctx, span := tracer.Start(ctx, "auth.get_profile", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()

	user, err := s.lookup(ctx, userID, CodeUserNotFound)
	if err != nil {
		return nil, fail(span, err)
	}
	return user.Profile(), nil
}

// lookup fetches a user, reporting absence with notFoundCode.
func (s *Service) lookup(ctx context.Context, id int64, notFoundCode string) (*User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code(notFoundCode).With("user_id", id).Wrap(ErrNotFound)
		}
		return nil, oops.Code("USER_LOOKUP_FAILED").
			With("operation", "get user by id").
			With("user_id", id).
			Wrap(err)
	}
	return user, nil
}

// fail records err on the span and returns it.
func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

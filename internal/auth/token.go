// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskShare Contributors

package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// SessionTTL is how long an issued access token stays valid.
const SessionTTL = 5 * time.Minute

// Claims is the payload of an access token. Subject holds the decimal user ID.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, oops.Code(CodeSessionInvalid).With("subject", c.Subject).Errorf("invalid subject claim")
	}
	return id, nil
}

// IssuedToken is a signed access token and its expiry.
type IssuedToken struct {
	AccessToken string
	ExpiresAt   time.Time
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID int64, email string) (IssuedToken, error)
}

// TokenVerifier validates access tokens presented by clients.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// JWTIssuer issues and verifies HS256 access tokens with a shared secret.
type JWTIssuer struct {
	secret []byte
	now    func() time.Time
}

// JWTOption configures a JWTIssuer.
type JWTOption func(*JWTIssuer)

// WithClock overrides the time source used for iat, exp and validation.
func WithClock(now func() time.Time) JWTOption {
	return func(j *JWTIssuer) {
		if now != nil {
			j.now = now
		}
	}
}

// NewJWTIssuer creates a JWTIssuer. An empty secret is a configuration error.
func NewJWTIssuer(secret []byte, opts ...JWTOption) (*JWTIssuer, error) {
	if len(secret) == 0 {
		return nil, oops.Code(CodeMissingSecret).Errorf("jwt secret is required")
	}
	j := &JWTIssuer{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

// Issue signs a token for the user valid for SessionTTL.
func (j *JWTIssuer) Issue(userID int64, email string) (IssuedToken, error) {
	now := j.now()
	expiresAt := now.Add(SessionTTL)
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return IssuedToken{}, oops.Code("TOKEN_SIGN_FAILED").With("user_id", userID).Wrap(err)
	}
	return IssuedToken{AccessToken: signed, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Verify checks the signature and expiry of a token and returns its claims.
func (j *JWTIssuer) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, oops.Code(CodeSessionMissing).Errorf("access token is empty")
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return j.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, oops.Code(CodeSessionExpired).Errorf("access token has expired")
		}
		return nil, oops.Code(CodeSessionInvalid).Errorf("invalid access token: %v", err)
	}
	if !parsed.Valid {
		return nil, oops.Code(CodeSessionInvalid).Errorf("invalid access token")
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	return claims, nil
}

var (
	_ TokenIssuer   = (*JWTIssuer)(nil)
	_ TokenVerifier = (*JWTIssuer)(nil)
)

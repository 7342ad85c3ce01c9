// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskShare Contributors

package httpapi

import "net/http"

// SessionCookieName holds the access token.
const SessionCookieName = "access_token"

// sessionCookie builds the cookie with the attributes shared by login and
// logout. No Max-Age or Expires is set; the token's own exp bounds it.
func sessionCookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, sessionCookie(token))
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, sessionCookie(""))
}

// sessionToken returns the cookie value, or "" when absent.
func sessionToken(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

package common

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

type contextKey string

const identityKey contextKey = "identity"

// SessionCookie is the cookie carrying the JWT session token.
const SessionCookie = "session"

// Middleware resolves the caller's identity from the session cookie or an
// Authorization bearer header and stores it on the request context. A
// missing or invalid token leaves the request anonymous; individual routes
// decide whether login is required.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := Anonymous

		token := ""
		if c, err := r.Cookie(SessionCookie); err == nil {
			token = c.Value
		} else if auth := r.Header.Get("Authorization"); auth != "" {
			parts := strings.Fields(auth)
			if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
				token = parts[1]
			}
		}

		if token != "" {
			if claims, err := m.ValidToken(token); err == nil {
				identity = Identity{UserID: claims.UserID, Username: claims.Username}
			}
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CurrentIdentity returns the identity resolved by the session middleware,
// or Anonymous when the middleware did not run.
func CurrentIdentity(r *http.Request) Identity {
	if id, ok := r.Context().Value(identityKey).(Identity); ok {
		return id
	}
	return Anonymous
}

// RequireLogin wraps a handler that needs an authenticated caller.
// Anonymous visitors are redirected to the login page with the original
// path preserved for the post-login redirect.
func RequireLogin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if CurrentIdentity(r).IsAnonymous() {
			http.Redirect(w, r, "/auth/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
			return
		}
		next(w, r)
	}
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/bryanwahyu/estatehub/internal/domain/users"
)

type contextKey string

const principalKey contextKey = "principal"

// TokenParser turns a bearer token into the caller it was issued to.
type TokenParser interface {
	Parse(token string) (users.Principal, error)
}

// ErrorWriter renders an authentication failure; the router supplies its JSON writer.
type ErrorWriter func(w http.ResponseWriter, status int, msg string)

func plainError(w http.ResponseWriter, status int, msg string) { http.Error(w, msg, status) }

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p users.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFrom returns the authenticated caller, if any.
func PrincipalFrom(ctx context.Context) (users.Principal, bool) {
	p, ok := ctx.Value(principalKey).(users.Principal)
	return p, ok
}

func bearer(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) < 7 || !strings.EqualFold(auth[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(auth[7:])
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(tokens TokenParser, onErr ErrorWriter) func(http.Handler) http.Handler {
	if onErr == nil {
		onErr = plainError
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := bearer(r)
			if tok == "" {
				onErr(w, http.StatusUnauthorized, "missing Authorization header")
				return
			}
			p, err := tokens.Parse(tok)
			if err != nil {
				onErr(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// OptionalAuth attaches the caller when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := bearer(r); tok != "" {
				if p, err := tokens.Parse(tok); err == nil {
					r = r.WithContext(WithPrincipal(r.Context(), p))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(onErr ErrorWriter, roles ...users.Role) func(http.Handler) http.Handler {
	if onErr == nil {
		onErr = plainError
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				onErr(w, http.StatusUnauthorized, "authentication required")
				return
			}
			for _, role := range roles {
				if p.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			onErr(w, http.StatusForbidden, "insufficient permissions")
		})
	}
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/AnshRaj112/journal-backend/internal/models"
	"go.uber.org/zap"
)

// SessionCookieName is the cookie that carries the session token for browsers
const SessionCookieName = "session"

type identityKey struct{}

// IdentityResolver turns a session token into the caller's identity
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (models.Identity, bool, error)
}

// WithIdentity returns a copy of ctx carrying id
func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored by Authenticate, if any
func IdentityFrom(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(models.Identity)
	return id, ok
}

// SessionToken extracts the token from "Authorization: Bearer ..." or the
// session cookie, in that order.
func SessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		const prefix = "Bearer "
		if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
			return strings.TrimSpace(h[len(prefix):])
		}
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// Authenticate resolves the caller's session, when present, and stores the
// identity on the request context. Anonymous requests pass through.
func Authenticate(resolver IdentityResolver, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, ok, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				log.Warn("session lookup failed", zap.Error(err))
			}
			if ok {
				r = r.WithContext(WithIdentity(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFrom(r.Context()); !ok {
			writeJSONError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireStaff rejects anonymous requests with 401 and non-staff with 403.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !id.IsStaff {
			writeJSONError(w, http.StatusForbidden, "Administrator access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

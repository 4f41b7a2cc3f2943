package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubResolver map[string]models.Identity

func (s stubResolver) Resolve(_ context.Context, token string) (models.Identity, bool, error) {
	if token == "broken" {
		return models.Identity{}, false, errors.New("redis down")
	}
	id, ok := s[token]
	return id, ok, nil
}

func TestSessionToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	assert.Empty(t, SessionToken(r))

	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-token"})
	assert.Equal(t, "cookie-token", SessionToken(r))

	r.Header.Set("Authorization", "Bearer header-token")
	assert.Equal(t, "header-token", SessionToken(r))

	r.Header.Set("Authorization", "Basic abc")
	assert.Equal(t, "cookie-token", SessionToken(r))
}

func TestAuthenticateAndGuards(t *testing.T) {
	user := models.Identity{UserID: uuid.New(), Email: "u@example.com"}
	staff := models.Identity{UserID: uuid.New(), Email: "s@example.com", IsStaff: true}
	resolver := stubResolver{"user": user, "staff": staff}

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := IdentityFrom(r.Context())
		w.Write([]byte(id.Email))
	})
	authed := Authenticate(resolver, zap.NewNop())

	tests := []struct {
		name   string
		guard  func(http.Handler) http.Handler
		token  string
		status int
		body   string
	}{
		{"auth anonymous", RequireAuth, "", http.StatusUnauthorized, ""},
		{"auth unknown token", RequireAuth, "nope", http.StatusUnauthorized, ""},
		{"auth resolver error", RequireAuth, "broken", http.StatusUnauthorized, ""},
		{"auth user", RequireAuth, "user", http.StatusOK, "u@example.com"},
		{"staff anonymous", RequireStaff, "", http.StatusUnauthorized, ""},
		{"staff non-staff", RequireStaff, "user", http.StatusForbidden, ""},
		{"staff staff", RequireStaff, "staff", http.StatusOK, "s@example.com"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tc.token != "" {
				r.Header.Set("Authorization", "Bearer "+tc.token)
			}
			w := httptest.NewRecorder()
			authed(tc.guard(ok)).ServeHTTP(w, r)
			assert.Equal(t, tc.status, w.Code)
			if tc.body != "" {
				assert.Equal(t, tc.body, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"status":"error"`)
			}
		})
	}
}

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/budgie/internal/apperr"
	"github.com/MrJamesThe3rd/budgie/internal/auth"
	"github.com/MrJamesThe3rd/budgie/internal/http/middleware"
	"github.com/MrJamesThe3rd/budgie/internal/user"
)

type fakeVerifier map[string]string

func (f fakeVerifier) Verify(_ context.Context, token string) (auth.Identity, error) {
	id, ok := f[token]
	if !ok {
		return auth.Identity{}, auth.ErrInvalidToken
	}

	return auth.Identity{UserID: id}, nil
}

type fakeUsers map[string]*user.User

func (f fakeUsers) Get(_ context.Context, id string) (*user.User, error) {
	if id == "broken" {
		return nil, errors.New("db down")
	}

	u, ok := f[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}

	return u, nil
}

// echo records what the final handler saw.
func echo(called *bool, gotID *string, admin *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		*gotID, _ = auth.UserIDFromContext(r.Context())
		*admin = auth.IsAdmin(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	verifier := fakeVerifier{"good": "u1"}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantID     string
	}{
		{name: "valid token", header: "Bearer good", wantStatus: http.StatusOK, wantID: "u1"},
		{name: "lowercase scheme", header: "bearer good", wantStatus: http.StatusOK, wantID: "u1"},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "malformed header", header: "Token good", wantStatus: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer forged", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				called bool
				gotID  string
				admin  bool
			)

			h := middleware.Authenticate(verifier)(echo(&called, &gotID, &admin))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, called)
			assert.Equal(t, tt.wantID, gotID)
			assert.False(t, admin)

			if tt.wantStatus == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"authentication required"}`, rec.Body.String())
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	users := fakeUsers{
		"admin":    {ID: "admin", IsAdmin: true},
		"member":   {ID: "member"},
		"disabled": {ID: "disabled", IsAdmin: true, IsDisabled: true},
	}

	tests := []struct {
		name       string
		userID     string
		wantStatus int
	}{
		{name: "admin passes", userID: "admin", wantStatus: http.StatusOK},
		{name: "no identity", userID: "", wantStatus: http.StatusUnauthorized},
		{name: "unknown user", userID: "ghost", wantStatus: http.StatusUnauthorized},
		{name: "non admin", userID: "member", wantStatus: http.StatusForbidden},
		{name: "disabled admin", userID: "disabled", wantStatus: http.StatusForbidden},
		{name: "lookup failure", userID: "broken", wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				called bool
				gotID  string
				admin  bool
			)

			h := middleware.RequireAdmin(users)(echo(&called, &gotID, &admin))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.userID != "" {
				req = req.WithContext(auth.WithUserID(req.Context(), tt.userID))
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, called)
			assert.Equal(t, tt.wantStatus == http.StatusOK, admin)
		})
	}
}

package user_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/budgie/internal/apperr"
	"github.com/MrJamesThe3rd/budgie/internal/auth"
	handler "github.com/MrJamesThe3rd/budgie/internal/http/user"
	"github.com/MrJamesThe3rd/budgie/internal/user"
)

// fakeAuthn trusts the X-User header; it stands in for the real middleware.
func fakeAuthn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-User")
		if id == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), id)))
	})
}

type mocks struct {
	repo   *user.MockRepository
	seeder *user.MockCategorySeeder
}

func newServer(t *testing.T, adminEmails ...string) (http.Handler, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{repo: user.NewMockRepository(ctrl), seeder: user.NewMockCategorySeeder(ctrl)}

	r := chi.NewRouter()
	r.Route("/api/users", handler.NewHandler(user.NewService(m.repo, m.seeder, adminEmails)).Routes(fakeAuthn))

	return r, m
}

func TestHandler_SyncCreatesUser(t *testing.T) {
	srv, m := newServer(t)

	gomock.InOrder(
		m.repo.EXPECT().GetUser(gomock.Any(), "uid-1").Return(nil, apperr.ErrNotFound),
		m.repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(nil),
		m.seeder.EXPECT().SeedDefaults(gomock.Any(), "uid-1").Return(nil),
	)

	body := `{"id":"uid-1","email":"ana@example.com","displayName":"Ana","photoURL":"https://img.example.com/a.png"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users/sync", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"ana@example.com"`)
	assert.Contains(t, rec.Body.String(), `"isAdmin":false`)
}

func TestHandler_SyncValidation(t *testing.T) {
	srv, _ := newServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/users/sync", strings.NewReader(`{"id":"uid-1","email":"nope"}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `{"field":"email","rule":"email"}`)
}

func TestHandler_Me(t *testing.T) {
	srv, m := newServer(t)

	m.repo.EXPECT().GetUser(gomock.Any(), "uid-1").
		DoAndReturn(func(context.Context, string) (*user.User, error) {
			return &user.User{ID: "uid-1", Email: "ana@example.com", IsAdmin: true}, nil
		})

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("X-User", "uid-1")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isAdmin":true`)
}

func TestHandler_MeRequiresAuth(t *testing.T) {
	srv, _ := newServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

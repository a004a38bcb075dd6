package admin_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/budgie/internal/admin"
	"github.com/MrJamesThe3rd/budgie/internal/apperr"
	"github.com/MrJamesThe3rd/budgie/internal/auth"
	handler "github.com/MrJamesThe3rd/budgie/internal/http/admin"
	"github.com/MrJamesThe3rd/budgie/internal/user"
)

const caller = "admin-1"

type mocks struct {
	repo   *admin.MockRepository
	users  *admin.MockUsers
	linker *admin.MockResetLinker
}

func newServer(t *testing.T) (http.Handler, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		repo:   admin.NewMockRepository(ctrl),
		users:  admin.NewMockUsers(ctrl),
		linker: admin.NewMockResetLinker(ctrl),
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithUserID(req.Context(), caller)))
		})
	})
	r.Route("/api/admin", handler.NewHandler(admin.NewService(m.repo, m.users, m.linker)).Routes)

	return r, m
}

func serve(srv http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	return rec
}

func target() *user.User {
	return &user.User{ID: "user-7", Email: "seven@example.com"}
}

func TestHandler_ListUsers(t *testing.T) {
	srv, m := newServer(t)

	m.users.EXPECT().List(gomock.Any()).Return([]*user.User{target()}, nil)

	rec := serve(srv, http.MethodGet, "/api/admin/users", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"seven@example.com"`)
}

func TestHandler_SetAdmin(t *testing.T) {
	t.Run("grants", func(t *testing.T) {
		srv, m := newServer(t)

		m.users.EXPECT().Get(gomock.Any(), "user-7").Return(target(), nil)
		m.users.EXPECT().SetAdmin(gomock.Any(), "user-7", true).Return(nil)
		m.repo.EXPECT().CreateLog(gomock.Any(), gomock.Any()).Return(nil)

		rec := serve(srv, http.MethodPatch, "/api/admin/users/user-7/admin", `{"isAdmin":true}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"isAdmin":true`)
	})

	t.Run("own revoke rejected", func(t *testing.T) {
		srv, _ := newServer(t)

		rec := serve(srv, http.MethodPatch, "/api/admin/users/"+caller+"/admin", `{"isAdmin":false}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "cannot revoke your own admin access")
	})

	t.Run("missing flag", func(t *testing.T) {
		srv, _ := newServer(t)

		rec := serve(srv, http.MethodPatch, "/api/admin/users/user-7/admin", `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"field":"isAdmin"`)
	})

	t.Run("unknown target", func(t *testing.T) {
		srv, m := newServer(t)

		m.users.EXPECT().Get(gomock.Any(), "ghost").Return(nil, apperr.ErrNotFound)

		rec := serve(srv, http.MethodPatch, "/api/admin/users/ghost/admin", `{"isAdmin":true}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandler_SetDisabled(t *testing.T) {
	t.Run("disables", func(t *testing.T) {
		srv, m := newServer(t)

		m.users.EXPECT().Get(gomock.Any(), "user-7").Return(target(), nil)
		m.users.EXPECT().SetDisabled(gomock.Any(), "user-7", true).Return(nil)
		m.repo.EXPECT().CreateLog(gomock.Any(), gomock.Any()).Return(nil)

		rec := serve(srv, http.MethodPatch, "/api/admin/users/user-7/disable", `{"isDisabled":true}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"isDisabled":true`)
	})

	t.Run("own account rejected", func(t *testing.T) {
		srv, _ := newServer(t)

		rec := serve(srv, http.MethodPatch, "/api/admin/users/"+caller+"/disable", `{"isDisabled":true}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_DeleteUser(t *testing.T) {
	srv, m := newServer(t)

	m.users.EXPECT().Get(gomock.Any(), "user-7").Return(target(), nil)
	m.users.EXPECT().Delete(gomock.Any(), "user-7").Return(nil)
	m.repo.EXPECT().CreateLog(gomock.Any(), gomock.Any()).Return(nil)

	rec := serve(srv, http.MethodDelete, "/api/admin/users/user-7", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHandler_ResetPassword(t *testing.T) {
	srv, m := newServer(t)

	m.users.EXPECT().Get(gomock.Any(), "user-7").Return(target(), nil)
	m.linker.EXPECT().PasswordResetLink(gomock.Any(), "seven@example.com").Return("https://id.example.com/reset?t=abc", nil)
	m.repo.EXPECT().CreateLog(gomock.Any(), gomock.Any()).Return(nil)

	rec := serve(srv, http.MethodPost, "/api/admin/users/user-7/reset-password", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"resetLink":"https://id.example.com/reset?t=abc","email":"seven@example.com","emailed":false}`,
		rec.Body.String(),
	)
}

func TestHandler_Logs(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantLimit int
	}{
		{name: "default", query: "", wantLimit: admin.DefaultLogLimit},
		{name: "explicit", query: "?limit=10", wantLimit: 10},
		{name: "capped", query: "?limit=9000", wantLimit: admin.MaxLogLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, m := newServer(t)

			m.repo.EXPECT().ListLogs(gomock.Any(), tt.wantLimit).Return([]*admin.Log{{
				ID:          uuid.New(),
				AdminID:     caller,
				Action:      admin.ActionDeletedAccount,
				TargetID:    "user-7",
				TargetEmail: "seven@example.com",
				Details:     "Deleted account seven@example.com",
			}}, nil)

			rec := serve(srv, http.MethodGet, "/api/admin/logs"+tt.query, "")

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), `"action":"deleted_account"`)
			assert.Contains(t, rec.Body.String(), `"targetUserEmail":"seven@example.com"`)
		})
	}

	t.Run("non numeric limit", func(t *testing.T) {
		srv, _ := newServer(t)

		rec := serve(srv, http.MethodGet, "/api/admin/logs?limit=lots", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_Stats(t *testing.T) {
	srv, m := newServer(t)

	m.repo.EXPECT().CountUsers(gomock.Any()).Return(12, nil)
	m.repo.EXPECT().CountActiveUsers(gomock.Any()).Return(10, nil)
	m.repo.EXPECT().CountTransactions(gomock.Any()).Return(340, nil)
	m.repo.EXPECT().CountBudgets(gomock.Any()).Return(7, nil)

	rec := serve(srv, http.MethodGet, "/api/admin/stats", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"totalUsers":12,"activeUsers":10,"totalTransactions":340,"totalBudgets":7}`,
		rec.Body.String(),
	)
}

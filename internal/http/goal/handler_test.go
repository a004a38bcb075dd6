package goal_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/budgie/internal/apperr"
	"github.com/MrJamesThe3rd/budgie/internal/auth"
	"github.com/MrJamesThe3rd/budgie/internal/goal"
	handler "github.com/MrJamesThe3rd/budgie/internal/http/goal"
)

const caller = "user-a"

func newServer(t *testing.T) (http.Handler, *goal.MockRepository) {
	t.Helper()

	repo := goal.NewMockRepository(gomock.NewController(t))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithUserID(req.Context(), caller)))
		})
	})
	r.Route("/api/goals", handler.NewHandler(goal.NewService(repo)).Routes)

	return r, repo
}

func serve(srv http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	return rec
}

func stored(id uuid.UUID, current string) *goal.Goal {
	return &goal.Goal{
		ID:            id,
		UserID:        caller,
		Name:          "Bike",
		TargetAmount:  decimal.RequireFromString("50.00"),
		CurrentAmount: decimal.RequireFromString(current),
		Icon:          "Target",
		Color:         "#10b981",
		Version:       3,
	}
}

func TestHandler_AddFunds(t *testing.T) {
	tests := []struct {
		name          string
		amount        string
		wantCurrent   string
		wantCompleted bool
	}{
		{name: "reaches target", amount: "20.00", wantCurrent: "50.00", wantCompleted: true},
		{name: "one cent short", amount: "19.99", wantCurrent: "49.99", wantCompleted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, repo := newServer(t)
			id := uuid.New()

			repo.EXPECT().GetGoal(gomock.Any(), id).Return(stored(id, "30.00"), nil)
			repo.EXPECT().UpdateGoal(gomock.Any(), gomock.Any()).Return(nil)

			rec := serve(srv, http.MethodPost, "/api/goals/"+id.String()+"/funds", `{"amount":"`+tt.amount+`"}`)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), `"currentAmount":"`+tt.wantCurrent+`"`)

			if tt.wantCompleted {
				assert.Contains(t, rec.Body.String(), `"isCompleted":true`)
			} else {
				assert.Contains(t, rec.Body.String(), `"isCompleted":false`)
			}
		})
	}
}

func TestHandler_AddFundsConflict(t *testing.T) {
	srv, repo := newServer(t)
	id := uuid.New()

	repo.EXPECT().GetGoal(gomock.Any(), id).Return(stored(id, "30.00"), nil)
	repo.EXPECT().UpdateGoal(gomock.Any(), gomock.Any()).Return(apperr.ErrConflict)

	rec := serve(srv, http.MethodPost, "/api/goals/"+id.String()+"/funds", `{"amount":"5"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandler_AddFundsRejectsZero(t *testing.T) {
	srv, _ := newServer(t)

	rec := serve(srv, http.MethodPost, "/api/goals/"+uuid.NewString()+"/funds", `{"amount":"0"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_CreateDefaults(t *testing.T) {
	srv, repo := newServer(t)

	repo.EXPECT().CreateGoal(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, g *goal.Goal) error {
			assert.Equal(t, caller, g.UserID)
			g.ID = uuid.New()
			return nil
		})

	rec := serve(srv, http.MethodPost, "/api/goals", `{"name":"Trip","targetAmount":"1000"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"icon":"Target"`)
	assert.Contains(t, rec.Body.String(), `"currentAmount":"0.00"`)
	assert.Contains(t, rec.Body.String(), `"percentage":0`)
}

func TestHandler_UpdateOtherOwner(t *testing.T) {
	srv, repo := newServer(t)
	id := uuid.New()

	g := stored(id, "0")
	g.UserID = "user-b"
	repo.EXPECT().GetGoal(gomock.Any(), id).Return(g, nil)

	rec := serve(srv, http.MethodPatch, "/api/goals/"+id.String(), `{"name":"mine"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

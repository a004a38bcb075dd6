package analytics_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/budgie/internal/analytics"
	"github.com/MrJamesThe3rd/budgie/internal/auth"
	"github.com/MrJamesThe3rd/budgie/internal/category"
	handler "github.com/MrJamesThe3rd/budgie/internal/http/analytics"
	"github.com/MrJamesThe3rd/budgie/internal/transaction"
)

type fakeTransactions []*transaction.Transaction

func (f fakeTransactions) List(_ context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	var out []*transaction.Transaction

	for _, tx := range f {
		if tx.UserID == filter.UserID {
			out = append(out, tx)
		}
	}

	return out, nil
}

type fakeCategories []*category.Category

func (f fakeCategories) List(context.Context, string) ([]*category.Category, error) {
	return f, nil
}

func TestHandler_Summary(t *testing.T) {
	food := &category.Category{ID: uuid.New(), UserID: "u1", Name: "Food", Color: "#f00", Type: category.TypeExpense}
	may := func(d int) time.Time { return time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC) }

	txs := fakeTransactions{
		{UserID: "u1", Type: transaction.TypeIncome, Amount: decimal.NewFromInt(1000), Date: may(1)},
		{UserID: "u1", Type: transaction.TypeExpense, CategoryID: &food.ID, Amount: decimal.NewFromInt(250), Date: may(2)},
		{UserID: "u2", Type: transaction.TypeExpense, Amount: decimal.NewFromInt(9999), Date: may(2)},
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithUserID(req.Context(), "u1")))
		})
	})
	r.Route("/api/analytics", handler.NewHandler(analytics.NewService(txs, fakeCategories{food})).Routes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics/summary?month=2024-05", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Month       string  `json:"month"`
		Income      string  `json:"income"`
		Expenses    string  `json:"expenses"`
		Net         string  `json:"net"`
		SavingsRate float64 `json:"savingsRate"`
		ByCategory  []struct {
			Name  string `json:"name"`
			Total string `json:"total"`
		} `json:"byCategory"`
		Trend []struct {
			Month string `json:"month"`
		} `json:"trend"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "2024-05", body.Month)
	assert.Equal(t, "1000.00", body.Income)
	assert.Equal(t, "250.00", body.Expenses)
	assert.Equal(t, "750.00", body.Net)
	assert.InDelta(t, 75.0, body.SavingsRate, 0.001)
	require.Len(t, body.ByCategory, 1)
	assert.Equal(t, "Food", body.ByCategory[0].Name)
	assert.Equal(t, "250.00", body.ByCategory[0].Total)
	require.Len(t, body.Trend, 6)
	assert.Equal(t, "2023-12", body.Trend[0].Month)
	assert.Equal(t, "2024-05", body.Trend[5].Month)
}

func TestHandler_SummaryBadMonth(t *testing.T) {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithUserID(req.Context(), "u1")))
		})
	})
	r.Route("/api/analytics", handler.NewHandler(analytics.NewService(fakeTransactions{}, fakeCategories{})).Routes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics/summary?month=May", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

package analytics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/budgie/internal/analytics"
	"github.com/MrJamesThe3rd/budgie/internal/apperr"
	"github.com/MrJamesThe3rd/budgie/internal/http/httpx"
	"github.com/MrJamesThe3rd/budgie/internal/http/middleware"
)

type Handler struct {
	svc *analytics.Service
	now func() time.Time
}

func NewHandler(svc *analytics.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
}

// summary reports on ?month=YYYY-MM, defaulting to the current month.
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	month := h.now().UTC()

	if s := r.URL.Query().Get("month"); s != "" {
		if month, err = time.Parse("2006-01", s); err != nil {
			httpx.Error(w, fmt.Errorf("%w: month must be YYYY-MM", apperr.ErrValidation), "")
			return
		}
	}

	sum, err := h.svc.Summary(r.Context(), userID, month)
	if err != nil {
		httpx.Error(w, err, "Failed to compute analytics")
		return
	}

	httpx.OK(w, toResponse(sum))
}

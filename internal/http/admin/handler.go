package admin

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/budgie/internal/admin"
	"github.com/MrJamesThe3rd/budgie/internal/apperr"
	"github.com/MrJamesThe3rd/budgie/internal/http/httpx"
	"github.com/MrJamesThe3rd/budgie/internal/http/middleware"
	userhttp "github.com/MrJamesThe3rd/budgie/internal/http/user"
)

// Handler serves the admin panel. It expects to be mounted behind
// middleware.RequireAdmin.
type Handler struct {
	svc *admin.Service
}

func NewHandler(svc *admin.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/users", h.listUsers)
	r.Patch("/users/{id}/admin", h.setAdmin)
	r.Patch("/users/{id}/disable", h.setDisabled)
	r.Delete("/users/{id}", h.deleteUser)
	r.Post("/users/{id}/reset-password", h.resetPassword)
	r.Get("/logs", h.logs)
	r.Get("/stats", h.stats)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		httpx.Error(w, err, "Failed to fetch users")
		return
	}

	httpx.OK(w, userhttp.NewResponseList(users))
}

type setAdminRequest struct {
	IsAdmin *bool `json:"isAdmin" validate:"required"`
}

func (h *Handler) setAdmin(w http.ResponseWriter, r *http.Request) {
	adminID, err := middleware.UserID(r)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	var req setAdminRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, err, "")
		return
	}

	u, err := h.svc.SetAdmin(r.Context(), adminID, chi.URLParam(r, "id"), *req.IsAdmin)
	if err != nil {
		httpx.Error(w, err, "Failed to update admin status")
		return
	}

	httpx.OK(w, userhttp.NewResponse(u))
}

type setDisabledRequest struct {
	IsDisabled *bool `json:"isDisabled" validate:"required"`
}

func (h *Handler) setDisabled(w http.ResponseWriter, r *http.Request) {
	adminID, err := middleware.UserID(r)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	var req setDisabledRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, err, "")
		return
	}

	u, err := h.svc.SetDisabled(r.Context(), adminID, chi.URLParam(r, "id"), *req.IsDisabled)
	if err != nil {
		httpx.Error(w, err, "Failed to update account status")
		return
	}

	httpx.OK(w, userhttp.NewResponse(u))
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	adminID, err := middleware.UserID(r)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	if err := h.svc.DeleteUser(r.Context(), adminID, chi.URLParam(r, "id")); err != nil {
		httpx.Error(w, err, "Failed to delete user")
		return
	}

	httpx.NoContent(w)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	adminID, err := middleware.UserID(r)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	link, err := h.svc.ResetPassword(r.Context(), adminID, chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err, "Failed to generate reset link")
		return
	}

	httpx.OK(w, resetLinkResponse{ResetLink: link.Link, Email: link.Email, Emailed: link.Emailed})
}

func (h *Handler) logs(w http.ResponseWriter, r *http.Request) {
	var limit int

	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			httpx.Error(w, fmt.Errorf("%w: limit must be a number", apperr.ErrValidation), "")
			return
		}

		limit = n
	}

	logs, err := h.svc.Logs(r.Context(), limit)
	if err != nil {
		httpx.Error(w, err, "Failed to fetch admin logs")
		return
	}

	httpx.OK(w, toLogResponseList(logs))
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		httpx.Error(w, err, "Failed to fetch stats")
		return
	}

	httpx.OK(w, statsResponse{
		TotalUsers:        stats.TotalUsers,
		ActiveUsers:       stats.ActiveUsers,
		TotalTransactions: stats.TotalTransactions,
		TotalBudgets:      stats.TotalBudgets,
	})
}

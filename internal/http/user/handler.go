package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/budgie/internal/http/httpx"
	"github.com/MrJamesThe3rd/budgie/internal/http/middleware"
	"github.com/MrJamesThe3rd/budgie/internal/user"
)

type Handler struct {
	svc *user.Service
}

func NewHandler(svc *user.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts the user endpoints. Sync runs during the sign-in handshake,
// before the client holds a session, so only /me sits behind authn.
func (h *Handler) Routes(authn func(http.Handler) http.Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.Post("/sync", h.sync)
		r.With(authn).Get("/me", h.me)
	}
}

type syncRequest struct {
	ID          string `json:"id" validate:"required,max=128"`
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"displayName" validate:"max=200"`
	PhotoURL    string `json:"photoURL" validate:"omitempty,url"`
}

func (h *Handler) sync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, err, "")
		return
	}

	u, err := h.svc.Sync(r.Context(), user.SyncParams{
		ID:          req.ID,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
	})
	if err != nil {
		httpx.Error(w, err, "Failed to sync user")
		return
	}

	httpx.OK(w, NewResponse(u))
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	u, err := h.svc.Get(r.Context(), userID)
	if err != nil {
		httpx.Error(w, err, "Failed to fetch user")
		return
	}

	httpx.OK(w, NewResponse(u))
}

package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/budgie/internal/category"
	"github.com/MrJamesThe3rd/budgie/internal/http/httpx"
	"github.com/MrJamesThe3rd/budgie/internal/http/middleware"
	"github.com/MrJamesThe3rd/budgie/internal/icon"
)

type Handler struct {
	svc *category.Service
}

func NewHandler(svc *category.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
}

type createCategoryRequest struct {
	Name  string `json:"name" validate:"required,max=50"`
	Type  string `json:"type" validate:"required,kind"`
	Icon  string `json:"icon" validate:"required,icon"`
	Color string `json:"color" validate:"required,color"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	cats, err := h.svc.List(r.Context(), userID)
	if err != nil {
		httpx.Error(w, err, "Failed to fetch categories")
		return
	}

	httpx.OK(w, toResponseList(cats))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	var req createCategoryRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, err, "")
		return
	}

	c, err := h.svc.Create(r.Context(), userID, category.CreateParams{
		Name:  req.Name,
		Type:  category.Type(req.Type),
		Icon:  icon.Icon(req.Icon),
		Color: req.Color,
	})
	if err != nil {
		httpx.Error(w, err, "Failed to create category")
		return
	}

	httpx.Created(w, toResponse(c))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	id, err := httpx.IDParam(r)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	c, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		httpx.Error(w, err, "Failed to fetch category")
		return
	}

	httpx.OK(w, toResponse(c))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	id, err := httpx.IDParam(r)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		httpx.Error(w, err, "Failed to delete category")
		return
	}

	httpx.NoContent(w)
}

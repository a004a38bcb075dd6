package budget

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/budgie/internal/budget"
	"github.com/MrJamesThe3rd/budgie/internal/http/httpx"
	"github.com/MrJamesThe3rd/budgie/internal/http/middleware"
	"github.com/MrJamesThe3rd/budgie/internal/money"
)

type Handler struct {
	svc *budget.Service
}

func NewHandler(svc *budget.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createBudgetRequest struct {
	CategoryID *uuid.UUID  `json:"categoryId"`
	Name       string      `json:"name" validate:"required,max=100"`
	Amount     string      `json:"amount" validate:"required,amount"`
	Period     string      `json:"period" validate:"required,period"`
	StartDate  httpx.Date  `json:"startDate" validate:"required"`
	EndDate    *httpx.Date `json:"endDate"`
	Rollover   bool        `json:"rollover"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	var req createBudgetRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, err, "")
		return
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	st, err := h.svc.Create(r.Context(), userID, budget.CreateParams{
		CategoryID: req.CategoryID,
		Name:       req.Name,
		Amount:     amount,
		Period:     budget.Period(req.Period),
		StartDate:  req.StartDate.Time,
		EndDate:    req.EndDate.Ptr(),
		Rollover:   req.Rollover,
	})
	if err != nil {
		httpx.Error(w, err, "Failed to create budget")
		return
	}

	httpx.Created(w, toResponse(st))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	statuses, err := h.svc.List(r.Context(), userID)
	if err != nil {
		httpx.Error(w, err, "Failed to fetch budgets")
		return
	}

	httpx.OK(w, toResponseList(statuses))
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

	st, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		httpx.Error(w, err, "Failed to fetch budget")
		return
	}

	httpx.OK(w, toResponse(st))
}

type updateBudgetRequest struct {
	CategoryID httpx.Optional[uuid.UUID]  `json:"categoryId"`
	Name       *string                    `json:"name" validate:"omitempty,max=100"`
	Amount     *string                    `json:"amount" validate:"omitempty,amount"`
	Period     *string                    `json:"period" validate:"omitempty,period"`
	StartDate  *httpx.Date                `json:"startDate"`
	EndDate    httpx.Optional[httpx.Date] `json:"endDate"`
	Rollover   *bool                      `json:"rollover"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
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

	var req updateBudgetRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, err, "")
		return
	}

	params := budget.UpdateParams{
		CategoryID:    req.CategoryID.Value,
		ClearCategory: req.CategoryID.Null(),
		Name:          req.Name,
		StartDate:     req.StartDate.Ptr(),
		EndDate:       req.EndDate.Value.Ptr(),
		ClearEndDate:  req.EndDate.Null(),
		Rollover:      req.Rollover,
	}

	if req.Amount != nil {
		amount, err := money.Parse(*req.Amount)
		if err != nil {
			httpx.Error(w, err, "")
			return
		}

		params.Amount = &amount
	}

	if req.Period != nil {
		params.Period = new(budget.Period(*req.Period))
	}

	st, err := h.svc.Update(r.Context(), userID, id, params)
	if err != nil {
		httpx.Error(w, err, "Failed to update budget")
		return
	}

	httpx.OK(w, toResponse(st))
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
		httpx.Error(w, err, "Failed to delete budget")
		return
	}

	httpx.NoContent(w)
}

package goal

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budgie/internal/goal"
	"github.com/MrJamesThe3rd/budgie/internal/http/httpx"
	"github.com/MrJamesThe3rd/budgie/internal/http/middleware"
	"github.com/MrJamesThe3rd/budgie/internal/icon"
	"github.com/MrJamesThe3rd/budgie/internal/money"
)

type Handler struct {
	svc *goal.Service
}

func NewHandler(svc *goal.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Post("/{id}/funds", h.addFunds)
	r.Delete("/{id}", h.delete)
}

type createGoalRequest struct {
	Name          string      `json:"name" validate:"required,max=100"`
	TargetAmount  string      `json:"targetAmount" validate:"required,amount"`
	CurrentAmount string      `json:"currentAmount" validate:"omitempty,amount"`
	Deadline      *httpx.Date `json:"deadline"`
	Icon          string      `json:"icon" validate:"omitempty,icon"`
	Color         string      `json:"color" validate:"omitempty,color"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	var req createGoalRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, err, "")
		return
	}

	target, err := money.Parse(req.TargetAmount)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	current := decimal.Zero
	if req.CurrentAmount != "" {
		if current, err = money.Parse(req.CurrentAmount); err != nil {
			httpx.Error(w, err, "")
			return
		}
	}

	g, err := h.svc.Create(r.Context(), userID, goal.CreateParams{
		Name:          req.Name,
		TargetAmount:  target,
		CurrentAmount: current,
		Deadline:      req.Deadline.Ptr(),
		Icon:          icon.Icon(req.Icon),
		Color:         req.Color,
	})
	if err != nil {
		httpx.Error(w, err, "Failed to create goal")
		return
	}

	httpx.Created(w, toResponse(g))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	goals, err := h.svc.List(r.Context(), userID)
	if err != nil {
		httpx.Error(w, err, "Failed to fetch goals")
		return
	}

	httpx.OK(w, toResponseList(goals))
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

	g, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		httpx.Error(w, err, "Failed to fetch goal")
		return
	}

	httpx.OK(w, toResponse(g))
}

type updateGoalRequest struct {
	Name          *string                    `json:"name" validate:"omitempty,max=100"`
	TargetAmount  *string                    `json:"targetAmount" validate:"omitempty,amount"`
	CurrentAmount *string                    `json:"currentAmount" validate:"omitempty,amount"`
	Deadline      httpx.Optional[httpx.Date] `json:"deadline"`
	Icon          *string                    `json:"icon" validate:"omitempty,icon"`
	Color         *string                    `json:"color" validate:"omitempty,color"`
}

func parseOptionalAmount(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}

	d, err := money.Parse(*s)
	if err != nil {
		return nil, err
	}

	return &d, nil
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

	var req updateGoalRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, err, "")
		return
	}

	params := goal.UpdateParams{
		Name:          req.Name,
		Deadline:      req.Deadline.Value.Ptr(),
		ClearDeadline: req.Deadline.Null(),
		Color:         req.Color,
	}

	if params.TargetAmount, err = parseOptionalAmount(req.TargetAmount); err != nil {
		httpx.Error(w, err, "")
		return
	}

	if params.CurrentAmount, err = parseOptionalAmount(req.CurrentAmount); err != nil {
		httpx.Error(w, err, "")
		return
	}

	if req.Icon != nil {
		params.Icon = new(icon.Icon(*req.Icon))
	}

	g, err := h.svc.Update(r.Context(), userID, id, params)
	if err != nil {
		httpx.Error(w, err, "Failed to update goal")
		return
	}

	httpx.OK(w, toResponse(g))
}

type addFundsRequest struct {
	Amount string `json:"amount" validate:"required,amount"`
}

// addFunds answers 409 when another deposit landed between read and write;
// the client retries with fresh state.
func (h *Handler) addFunds(w http.ResponseWriter, r *http.Request) {
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

	var req addFundsRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, err, "")
		return
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	g, err := h.svc.AddFunds(r.Context(), userID, id, amount)
	if err != nil {
		httpx.Error(w, err, "Failed to add funds")
		return
	}

	httpx.OK(w, toResponse(g))
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
		httpx.Error(w, err, "Failed to delete goal")
		return
	}

	httpx.NoContent(w)
}

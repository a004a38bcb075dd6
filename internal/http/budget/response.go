package budget

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/budgie/internal/budget"
	"github.com/MrJamesThe3rd/budgie/internal/money"
)

type budgetResponse struct {
	ID         uuid.UUID  `json:"id"`
	UserID     string     `json:"userId"`
	CategoryID *uuid.UUID `json:"categoryId"`
	Name       string     `json:"name"`
	Amount     string     `json:"amount"`
	Period     string     `json:"period"`
	StartDate  time.Time  `json:"startDate"`
	EndDate    *time.Time `json:"endDate"`
	Rollover   bool       `json:"rollover"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`

	WindowStart time.Time `json:"windowStart"`
	WindowEnd   time.Time `json:"windowEnd"`
	Limit       string    `json:"limit"`
	Spent       string    `json:"spent"`
	Remaining   string    `json:"remaining"`
	Percentage  float64   `json:"percentage"`
	OverBudget  bool      `json:"overBudget"`
}

func toResponse(st *budget.Status) budgetResponse {
	b, p := st.Budget, st.Progress

	return budgetResponse{
		ID:          b.ID,
		UserID:      b.UserID,
		CategoryID:  b.CategoryID,
		Name:        b.Name,
		Amount:      money.Format(b.Amount),
		Period:      string(b.Period),
		StartDate:   b.StartDate,
		EndDate:     b.EndDate,
		Rollover:    b.Rollover,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
		WindowStart: p.WindowStart,
		WindowEnd:   p.WindowEnd,
		Limit:       money.Format(p.Limit),
		Spent:       money.Format(p.Spent),
		Remaining:   money.Format(p.Remaining),
		Percentage:  p.Percentage,
		OverBudget:  p.OverBudget,
	}
}

func toResponseList(statuses []*budget.Status) []budgetResponse {
	resp := make([]budgetResponse, len(statuses))
	for i, st := range statuses {
		resp[i] = toResponse(st)
	}

	return resp
}

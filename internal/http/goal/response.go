package goal

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/budgie/internal/goal"
	"github.com/MrJamesThe3rd/budgie/internal/money"
)

type goalResponse struct {
	ID            uuid.UUID  `json:"id"`
	UserID        string     `json:"userId"`
	Name          string     `json:"name"`
	TargetAmount  string     `json:"targetAmount"`
	CurrentAmount string     `json:"currentAmount"`
	Percentage    float64    `json:"percentage"`
	Deadline      *time.Time `json:"deadline"`
	Icon          string     `json:"icon"`
	Color         string     `json:"color"`
	IsCompleted   bool       `json:"isCompleted"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func toResponse(g *goal.Goal) goalResponse {
	return goalResponse{
		ID:            g.ID,
		UserID:        g.UserID,
		Name:          g.Name,
		TargetAmount:  money.Format(g.TargetAmount),
		CurrentAmount: money.Format(g.CurrentAmount),
		Percentage:    g.Percentage(),
		Deadline:      g.Deadline,
		Icon:          string(g.Icon),
		Color:         g.Color,
		IsCompleted:   g.IsCompleted,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}

func toResponseList(goals []*goal.Goal) []goalResponse {
	resp := make([]goalResponse, len(goals))
	for i, g := range goals {
		resp[i] = toResponse(g)
	}

	return resp
}

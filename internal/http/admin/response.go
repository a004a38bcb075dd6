package admin

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/budgie/internal/admin"
)

type resetLinkResponse struct {
	ResetLink string `json:"resetLink"`
	Email     string `json:"email"`
	Emailed   bool   `json:"emailed"`
}

type statsResponse struct {
	TotalUsers        int `json:"totalUsers"`
	ActiveUsers       int `json:"activeUsers"`
	TotalTransactions int `json:"totalTransactions"`
	TotalBudgets      int `json:"totalBudgets"`
}

type logResponse struct {
	ID              uuid.UUID `json:"id"`
	AdminID         string    `json:"adminId"`
	Action          string    `json:"action"`
	TargetUserID    string    `json:"targetUserId"`
	TargetUserEmail string    `json:"targetUserEmail"`
	Details         string    `json:"details"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toLogResponseList(logs []*admin.Log) []logResponse {
	resp := make([]logResponse, len(logs))
	for i, l := range logs {
		resp[i] = logResponse{
			ID:              l.ID,
			AdminID:         l.AdminID,
			Action:          string(l.Action),
			TargetUserID:    l.TargetID,
			TargetUserEmail: l.TargetEmail,
			Details:         l.Details,
			CreatedAt:       l.CreatedAt,
		}
	}

	return resp
}

// Package admin implements the privileged account operations and the
// append-only audit log that records them.
package admin

import (
	"time"

	"github.com/google/uuid"
)

// Action tags an audit log entry.
type Action string

const (
	ActionMadeAdmin       Action = "made_admin"
	ActionRemovedAdmin    Action = "removed_admin"
	ActionDisabledAccount Action = "disabled_account"
	ActionEnabledAccount  Action = "enabled_account"
	ActionDeletedAccount  Action = "deleted_account"
	ActionResetPassword   Action = "reset_password"
)

// Log is one audit entry. Entries are never updated or deleted and outlive
// the accounts they mention.
type Log struct {
	ID          uuid.UUID
	AdminID     string
	Action      Action
	TargetID    string
	TargetEmail string
	Details     string
	CreatedAt   time.Time
}

type Stats struct {
	TotalUsers        int
	ActiveUsers       int
	TotalTransactions int
	TotalBudgets      int
}

// ResetLink is the outcome of a password reset request.
type ResetLink struct {
	Link    string
	Email   string
	Emailed bool
}

// Event is the broker message emitted for each audit entry.
type Event struct {
	LogID       uuid.UUID `json:"logId"`
	AdminID     string    `json:"adminId"`
	Action      Action    `json:"action"`
	TargetID    string    `json:"targetId"`
	TargetEmail string    `json:"targetEmail"`
	Details     string    `json:"details"`
	OccurredAt  time.Time `json:"occurredAt"`
}

func (l *Log) Event() Event {
	return Event{
		LogID:       l.ID,
		AdminID:     l.AdminID,
		Action:      l.Action,
		TargetID:    l.TargetID,
		TargetEmail: l.TargetEmail,
		Details:     l.Details,
		OccurredAt:  l.CreatedAt,
	}
}

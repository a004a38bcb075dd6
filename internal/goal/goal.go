package goal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budgie/internal/icon"
	"github.com/MrJamesThe3rd/budgie/internal/money"
)

// Goal is a savings target. Version increments on every write and guards
// concurrent updates.
type Goal struct {
	ID            uuid.UUID
	UserID        string
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Deadline      *time.Time
	Icon          icon.Icon
	Color         string
	IsCompleted   bool
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (g *Goal) Percentage() float64 {
	return money.Percent(g.CurrentAmount, g.TargetAmount)
}

// settle derives the completed flag from the amounts.
func (g *Goal) settle() {
	g.IsCompleted = g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}

// Fund adds amount to the saved total.
func (g *Goal) Fund(amount decimal.Decimal) {
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	g.settle()
}

package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Frequency is how often a recurring transaction repeats.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}

	return false
}

// Transaction represents a financial transaction. Amount is never negative;
// direction is carried by Type.
type Transaction struct {
	ID                 uuid.UUID
	UserID             string
	CategoryID         *uuid.UUID
	Amount             decimal.Decimal
	Type               Type
	Description        string
	Notes              string
	Tags               []string
	Date               time.Time
	IsRecurring        bool
	RecurringFrequency *Frequency
	RecurringEndDate   *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

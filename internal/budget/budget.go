package budget

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budgie/internal/money"
	"github.com/MrJamesThe3rd/budgie/internal/transaction"
)

type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

func (p Period) Valid() bool {
	return p == PeriodWeekly || p == PeriodMonthly || p == PeriodYearly
}

// Budget caps spending in one category, or across all expenses when
// CategoryID is nil, over a repeating period.
type Budget struct {
	ID         uuid.UUID
	UserID     string
	CategoryID *uuid.UUID
	Name       string
	Amount     decimal.Decimal
	Period     Period
	StartDate  time.Time
	EndDate    *time.Time
	Rollover   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Window returns the UTC period that contains t as a half-open [start, end)
// range. Transaction dates are UTC days, so t is converted first. Weeks
// start on Monday.
func Window(p Period, t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	y, m, d := t.Date()
	loc := time.UTC

	switch p {
	case PeriodWeekly:
		offset := (int(t.Weekday()) + 6) % 7
		start := time.Date(y, m, d-offset, 0, 0, 0, 0, loc)

		return start, start.AddDate(0, 0, 7)
	case PeriodYearly:
		start := time.Date(y, time.January, 1, 0, 0, 0, 0, loc)

		return start, start.AddDate(1, 0, 0)
	default:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)

		return start, start.AddDate(0, 1, 0)
	}
}

// Progress is the derived state of a budget in its current window.
type Progress struct {
	WindowStart time.Time
	WindowEnd   time.Time
	Spent       decimal.Decimal
	Limit       decimal.Decimal
	Remaining   decimal.Decimal
	Percentage  float64
	OverBudget  bool
}

// Spent sums the expense transactions that count against b within
// [start, end).
func Spent(b *Budget, txs []*transaction.Transaction, start, end time.Time) decimal.Decimal {
	total := decimal.Zero

	for _, tx := range txs {
		if tx.Type != transaction.TypeExpense {
			continue
		}

		if tx.Date.Before(start) || !tx.Date.Before(end) {
			continue
		}

		if b.CategoryID != nil && (tx.CategoryID == nil || *tx.CategoryID != *b.CategoryID) {
			continue
		}

		total = total.Add(tx.Amount)
	}

	return total
}

// Compute derives b's progress at now from txs. txs must cover the previous
// window too when b rolls over.
func Compute(b *Budget, txs []*transaction.Transaction, now time.Time) Progress {
	start, end := Window(b.Period, now)
	limit := b.Amount

	if b.Rollover {
		prevStart, prevEnd := Window(b.Period, start.Add(-time.Nanosecond))
		if b.StartDate.Before(prevEnd) {
			unused := b.Amount.Sub(Spent(b, txs, prevStart, prevEnd))
			if unused.IsPositive() {
				limit = limit.Add(unused)
			}
		}
	}

	spent := Spent(b, txs, start, end)
	remaining := limit.Sub(spent)

	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return Progress{
		WindowStart: start,
		WindowEnd:   end,
		Spent:       spent,
		Limit:       limit,
		Remaining:   remaining,
		Percentage:  money.Percent(spent, limit),
		OverBudget:  spent.GreaterThan(limit),
	}
}

// lookback is the earliest instant Compute may need transactions from.
func lookback(b *Budget, now time.Time) time.Time {
	start, _ := Window(b.Period, now)
	if !b.Rollover {
		return start
	}

	prevStart, _ := Window(b.Period, start.Add(-time.Nanosecond))

	return prevStart
}

package budget_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/budgie/internal/budget"
	"github.com/MrJamesThe3rd/budgie/internal/transaction"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name      string
		period    budget.Period
		at        time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"WeekFromWednesday", budget.PeriodWeekly, day(2024, 5, 15).Add(13 * time.Hour), day(2024, 5, 13), day(2024, 5, 20)},
		{"WeekFromSunday", budget.PeriodWeekly, day(2024, 5, 19), day(2024, 5, 13), day(2024, 5, 20)},
		{"WeekFromMonday", budget.PeriodWeekly, day(2024, 5, 13), day(2024, 5, 13), day(2024, 5, 20)},
		{"WeekAcrossYear", budget.PeriodWeekly, day(2025, 1, 1), day(2024, 12, 30), day(2025, 1, 6)},
		{"Month", budget.PeriodMonthly, day(2024, 2, 29), day(2024, 2, 1), day(2024, 3, 1)},
		{"December", budget.PeriodMonthly, day(2024, 12, 31), day(2024, 12, 1), day(2025, 1, 1)},
		{"Year", budget.PeriodYearly, day(2024, 7, 4), day(2024, 1, 1), day(2025, 1, 1)},
		{"MonthFromWestOfUTC", budget.PeriodMonthly, time.Date(2024, 5, 15, 12, 0, 0, 0, time.FixedZone("EDT", -4*3600)), day(2024, 5, 1), day(2024, 6, 1)},
		{"LateEveningWestOfUTC", budget.PeriodMonthly, time.Date(2024, 5, 31, 22, 0, 0, 0, time.FixedZone("EDT", -4*3600)), day(2024, 6, 1), day(2024, 7, 1)},
		{"WeekFromEastOfUTC", budget.PeriodWeekly, time.Date(2024, 5, 13, 1, 0, 0, 0, time.FixedZone("CEST", 2*3600)), day(2024, 5, 6), day(2024, 5, 13)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := budget.Window(tt.period, tt.at)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func expense(amount string, date time.Time, cat *uuid.UUID) *transaction.Transaction {
	return &transaction.Transaction{
		Amount:     decimal.RequireFromString(amount),
		Type:       transaction.TypeExpense,
		Date:       date,
		CategoryID: cat,
	}
}

func TestSpent(t *testing.T) {
	groceries, rent := uuid.New(), uuid.New()

	txs := []*transaction.Transaction{
		expense("40.25", day(2024, 5, 2), &groceries),
		expense("9.75", day(2024, 5, 31).Add(23*time.Hour), &groceries),
		expense("900", day(2024, 5, 1), &rent),
		expense("15", day(2024, 5, 10), nil),
		expense("99", day(2024, 6, 1), &groceries),
		expense("99", day(2024, 4, 30), &groceries),
		{Amount: decimal.RequireFromString("500"), Type: transaction.TypeIncome, Date: day(2024, 5, 3), CategoryID: &groceries},
	}

	start, end := day(2024, 5, 1), day(2024, 6, 1)

	scoped := &budget.Budget{CategoryID: &groceries}
	assert.Equal(t, "50.00", budget.Spent(scoped, txs, start, end).StringFixed(2))

	overall := &budget.Budget{}
	assert.Equal(t, "965.00", budget.Spent(overall, txs, start, end).StringFixed(2))
}

func TestSpent_UnrelatedCategoryChangeHasNoEffect(t *testing.T) {
	groceries, rent, travel := uuid.New(), uuid.New(), uuid.New()
	b := &budget.Budget{CategoryID: &groceries}
	start, end := day(2024, 5, 1), day(2024, 6, 1)

	unrelated := expense("300", day(2024, 5, 5), &rent)
	txs := []*transaction.Transaction{expense("20", day(2024, 5, 4), &groceries), unrelated}

	before := budget.Spent(b, txs, start, end)
	unrelated.CategoryID = &travel
	after := budget.Spent(b, txs, start, end)

	assert.True(t, before.Equal(after))
}

func TestCompute(t *testing.T) {
	cat := uuid.New()
	now := day(2024, 5, 15)

	txs := []*transaction.Transaction{
		expense("30", day(2024, 4, 10), &cat),
		expense("120", day(2024, 5, 3), &cat),
	}

	t.Run("OverBudget", func(t *testing.T) {
		b := &budget.Budget{CategoryID: &cat, Amount: decimal.RequireFromString("100"), Period: budget.PeriodMonthly, StartDate: day(2024, 1, 1)}

		p := budget.Compute(b, txs, now)
		assert.Equal(t, "120.00", p.Spent.StringFixed(2))
		assert.Equal(t, "100.00", p.Limit.StringFixed(2))
		assert.True(t, p.Remaining.IsZero())
		assert.Equal(t, 100.0, p.Percentage)
		assert.True(t, p.OverBudget)
	})

	t.Run("RolloverCarriesUnused", func(t *testing.T) {
		b := &budget.Budget{CategoryID: &cat, Amount: decimal.RequireFromString("100"), Period: budget.PeriodMonthly, StartDate: day(2024, 1, 1), Rollover: true}

		p := budget.Compute(b, txs, now)
		assert.Equal(t, "170.00", p.Limit.StringFixed(2))
		assert.Equal(t, "50.00", p.Remaining.StringFixed(2))
		assert.Equal(t, 70.59, p.Percentage)
		assert.False(t, p.OverBudget)
	})

	t.Run("RolloverIgnoredBeforeBudgetExisted", func(t *testing.T) {
		b := &budget.Budget{CategoryID: &cat, Amount: decimal.RequireFromString("100"), Period: budget.PeriodMonthly, StartDate: day(2024, 5, 1), Rollover: true}

		p := budget.Compute(b, txs, now)
		assert.Equal(t, "100.00", p.Limit.StringFixed(2))
	})

	t.Run("ClockOutsideUTC", func(t *testing.T) {
		edges := []*transaction.Transaction{
			expense("40.00", day(2024, 5, 1), &cat),
			expense("7.00", day(2024, 6, 1), &cat),
		}
		b := &budget.Budget{CategoryID: &cat, Amount: decimal.RequireFromString("100"), Period: budget.PeriodMonthly, StartDate: day(2024, 1, 1)}

		p := budget.Compute(b, edges, time.Date(2024, 5, 15, 12, 0, 0, 0, time.FixedZone("EDT", -4*3600)))
		assert.Equal(t, day(2024, 5, 1), p.WindowStart)
		assert.Equal(t, "40.00", p.Spent.StringFixed(2))
	})

	t.Run("OverspentPreviousWindow", func(t *testing.T) {
		heavy := []*transaction.Transaction{expense("150", day(2024, 4, 10), &cat)}
		b := &budget.Budget{CategoryID: &cat, Amount: decimal.RequireFromString("100"), Period: budget.PeriodMonthly, StartDate: day(2024, 1, 1), Rollover: true}

		p := budget.Compute(b, heavy, now)
		assert.Equal(t, "100.00", p.Limit.StringFixed(2))
		assert.Equal(t, 0.0, p.Percentage)
	})
}

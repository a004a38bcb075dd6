// Package analytics derives dashboard figures from a user's transactions.
package analytics

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budgie/internal/category"
	"github.com/MrJamesThe3rd/budgie/internal/money"
	"github.com/MrJamesThe3rd/budgie/internal/transaction"
)

const (
	trendMonths = 6

	uncategorizedName  = "Uncategorized"
	uncategorizedColor = "#94a3b8"
)

type Summary struct {
	Month       time.Time
	Income      decimal.Decimal
	Expenses    decimal.Decimal
	Net         decimal.Decimal
	SavingsRate float64
	Expense     []CategoryTotal
	IncomeBy    []CategoryTotal
	Trend       []MonthTotal
	Weekdays    []WeekdayAverage
}

type CategoryTotal struct {
	CategoryID *uuid.UUID
	Name       string
	Color      string
	Total      decimal.Decimal
	Percentage float64
}

type MonthTotal struct {
	Month    time.Time
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Net      decimal.Decimal
}

// WeekdayAverage is the mean expense amount of transactions dated on Day
// across the trend range.
type WeekdayAverage struct {
	Day     time.Weekday
	Average decimal.Decimal
}

func monthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func totals(txs []*transaction.Transaction, from, to time.Time) (income, expenses decimal.Decimal) {
	income, expenses = decimal.Zero, decimal.Zero

	for _, tx := range txs {
		if tx.Date.Before(from) || !tx.Date.Before(to) {
			continue
		}

		switch tx.Type {
		case transaction.TypeIncome:
			income = income.Add(tx.Amount)
		case transaction.TypeExpense:
			expenses = expenses.Add(tx.Amount)
		}
	}

	return income, expenses
}

func breakdown(txs []*transaction.Transaction, cats map[uuid.UUID]*category.Category, typ transaction.Type, from, to time.Time) []CategoryTotal {
	byID := map[uuid.UUID]*CategoryTotal{}
	uncategorized := &CategoryTotal{Name: uncategorizedName, Color: uncategorizedColor, Total: decimal.Zero}
	grand := decimal.Zero

	for _, tx := range txs {
		if tx.Type != typ || tx.Date.Before(from) || !tx.Date.Before(to) {
			continue
		}

		grand = grand.Add(tx.Amount)

		var c *category.Category
		if tx.CategoryID != nil {
			c = cats[*tx.CategoryID]
		}

		if c == nil {
			uncategorized.Total = uncategorized.Total.Add(tx.Amount)
			continue
		}

		ct, ok := byID[c.ID]
		if !ok {
			ct = &CategoryTotal{CategoryID: &c.ID, Name: c.Name, Color: c.Color, Total: decimal.Zero}
			byID[c.ID] = ct
		}

		ct.Total = ct.Total.Add(tx.Amount)
	}

	out := make([]CategoryTotal, 0, len(byID)+1)
	for _, ct := range byID {
		out = append(out, *ct)
	}

	if uncategorized.Total.IsPositive() {
		out = append(out, *uncategorized)
	}

	for i := range out {
		out[i].Percentage = money.Percent(out[i].Total, grand)
	}

	slices.SortFunc(out, func(a, b CategoryTotal) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}

		return cmp.Compare(a.Name, b.Name)
	})

	return out
}

func weekdays(txs []*transaction.Transaction) []WeekdayAverage {
	var (
		sums   [7]decimal.Decimal
		counts [7]int64
	)

	for _, tx := range txs {
		if tx.Type != transaction.TypeExpense {
			continue
		}

		d := tx.Date.Weekday()
		sums[d] = sums[d].Add(tx.Amount)
		counts[d]++
	}

	out := make([]WeekdayAverage, 7)
	for d := range out {
		avg := decimal.Zero
		if counts[d] > 0 {
			avg = sums[d].Div(decimal.NewFromInt(counts[d])).Round(2)
		}

		out[d] = WeekdayAverage{Day: time.Weekday(d), Average: avg}
	}

	return out
}

// Summarize computes the summary of the month containing month from txs,
// which must cover the trend range ending with that month.
func Summarize(month time.Time, txs []*transaction.Transaction, cats []*category.Category) *Summary {
	start := monthStart(month)
	end := start.AddDate(0, 1, 0)

	catIndex := make(map[uuid.UUID]*category.Category, len(cats))
	for _, c := range cats {
		catIndex[c.ID] = c
	}

	income, expenses := totals(txs, start, end)
	net := income.Sub(expenses)

	s := &Summary{
		Month:    start,
		Income:   income,
		Expenses: expenses,
		Net:      net,
		Expense:  breakdown(txs, catIndex, transaction.TypeExpense, start, end),
		IncomeBy: breakdown(txs, catIndex, transaction.TypeIncome, start, end),
		Weekdays: weekdays(txs),
	}

	if net.IsPositive() {
		s.SavingsRate = money.Percent(net, income)
	}

	for i := trendMonths - 1; i >= 0; i-- {
		from := start.AddDate(0, -i, 0)
		in, out := totals(txs, from, from.AddDate(0, 1, 0))

		s.Trend = append(s.Trend, MonthTotal{Month: from, Income: in, Expenses: out, Net: in.Sub(out)})
	}

	return s
}

package analytics

import (
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/budgie/internal/analytics"
	"github.com/MrJamesThe3rd/budgie/internal/money"
)

type categoryTotalResponse struct {
	CategoryID *uuid.UUID `json:"categoryId"`
	Name       string     `json:"name"`
	Color      string     `json:"color"`
	Total      string     `json:"total"`
	Percentage float64    `json:"percentage"`
}

type monthTotalResponse struct {
	Month    string `json:"month"`
	Income   string `json:"income"`
	Expenses string `json:"expenses"`
	Net      string `json:"net"`
}

type weekdayResponse struct {
	Day     string `json:"day"`
	Average string `json:"average"`
}

type summaryResponse struct {
	Month         string                  `json:"month"`
	Income        string                  `json:"income"`
	Expenses      string                  `json:"expenses"`
	Net           string                  `json:"net"`
	SavingsRate   float64                 `json:"savingsRate"`
	ByCategory    []categoryTotalResponse `json:"byCategory"`
	IncomeSources []categoryTotalResponse `json:"incomeSources"`
	Trend         []monthTotalResponse    `json:"trend"`
	Weekdays      []weekdayResponse       `json:"weekdays"`
}

func toCategoryTotals(totals []analytics.CategoryTotal) []categoryTotalResponse {
	resp := make([]categoryTotalResponse, len(totals))
	for i, t := range totals {
		resp[i] = categoryTotalResponse{
			CategoryID: t.CategoryID,
			Name:       t.Name,
			Color:      t.Color,
			Total:      money.Format(t.Total),
			Percentage: t.Percentage,
		}
	}

	return resp
}

func toResponse(s *analytics.Summary) summaryResponse {
	resp := summaryResponse{
		Month:         s.Month.Format("2006-01"),
		Income:        money.Format(s.Income),
		Expenses:      money.Format(s.Expenses),
		Net:           money.Format(s.Net),
		SavingsRate:   s.SavingsRate,
		ByCategory:    toCategoryTotals(s.Expense),
		IncomeSources: toCategoryTotals(s.IncomeBy),
		Trend:         make([]monthTotalResponse, len(s.Trend)),
		Weekdays:      make([]weekdayResponse, len(s.Weekdays)),
	}

	for i, m := range s.Trend {
		resp.Trend[i] = monthTotalResponse{
			Month:    m.Month.Format("2006-01"),
			Income:   money.Format(m.Income),
			Expenses: money.Format(m.Expenses),
			Net:      money.Format(m.Net),
		}
	}

	for i, d := range s.Weekdays {
		resp.Weekdays[i] = weekdayResponse{Day: d.Day.String()[:3], Average: money.Format(d.Average)}
	}

	return resp
}

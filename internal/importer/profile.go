package importer

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budgie/internal/transaction"
)

type amountMode int

const (
	// amountSigned is one signed column; negative values are expenses.
	amountSigned amountMode = iota
	// amountSplit is separate debit and credit columns.
	amountSplit
	// amountTyped is an unsigned amount plus an explicit type column.
	amountTyped
)

// Profile describes the column layout of a CSV export.
type Profile struct {
	Name       string
	DateCol    string
	DescCol    string
	AmountMode amountMode
	AmountCol  string
	DebitCol   string
	CreditCol  string
	TypeCol    string
	NotesCol   string
	TagsCol    string
}

func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case amountSigned:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	case amountTyped:
		cols = append(cols, p.AmountCol, p.TypeCol)
	}

	return cols
}

func (p Profile) matches(cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if cols.lookup(name) < 0 {
			return false
		}
	}

	return true
}

// amount extracts a positive amount and its direction from a row.
// Rows with an empty or zero amount are reported as not ok.
func (p Profile) amount(cols colIndex, row []string) (decimal.Decimal, transaction.Type, bool) {
	switch p.AmountMode {
	case amountSigned:
		return signedAmount(cellValue(row, cols.lookup(p.AmountCol)))
	case amountSplit:
		if d, err := parseAmount(cellValue(row, cols.lookup(p.DebitCol))); err == nil && !d.IsZero() {
			return d.Abs(), transaction.TypeExpense, true
		}

		if d, err := parseAmount(cellValue(row, cols.lookup(p.CreditCol))); err == nil && !d.IsZero() {
			return d.Abs(), transaction.TypeIncome, true
		}
	case amountTyped:
		d, err := parseAmount(cellValue(row, cols.lookup(p.AmountCol)))
		if err != nil || d.IsZero() {
			return decimal.Zero, "", false
		}

		t, ok := parseType(cellValue(row, cols.lookup(p.TypeCol)))
		if !ok {
			return decimal.Zero, "", false
		}

		return d.Abs(), t, true
	}

	return decimal.Zero, "", false
}

func signedAmount(s string) (decimal.Decimal, transaction.Type, bool) {
	d, err := parseAmount(s)
	if err != nil || d.IsZero() {
		return decimal.Zero, "", false
	}

	if d.IsNegative() {
		return d.Abs(), transaction.TypeExpense, true
	}

	return d, transaction.TypeIncome, true
}

func parseType(s string) (transaction.Type, bool) {
	switch strings.ToLower(s) {
	case "income", "credit", "receita", "crédito":
		return transaction.TypeIncome, true
	case "expense", "debit", "despesa", "débito":
		return transaction.TypeExpense, true
	}

	return "", false
}

// profiles is tried in order; more specific layouts come first.
var profiles = []Profile{
	{
		Name:       "budgie",
		DateCol:    "Date",
		DescCol:    "Description",
		AmountMode: amountTyped,
		AmountCol:  "Amount",
		TypeCol:    "Type",
		NotesCol:   "Notes",
		TagsCol:    "Tags",
	},
	{
		Name:       "debit-credit",
		DateCol:    "Date",
		DescCol:    "Description",
		AmountMode: amountSplit,
		DebitCol:   "Debit",
		CreditCol:  "Credit",
	},
	{
		Name:       "signed",
		DateCol:    "Date",
		DescCol:    "Description",
		AmountMode: amountSigned,
		AmountCol:  "Amount",
	},
	{
		Name:       "cartão",
		DateCol:    "Data",
		DescCol:    "Descrição",
		AmountMode: amountSplit,
		DebitCol:   "Débito",
		CreditCol:  "Crédito",
	},
	{
		Name:       "extrato",
		DateCol:    "Data mov.",
		DescCol:    "Descrição",
		AmountMode: amountSigned,
		AmountCol:  "Movimento",
	},
	{
		Name:       "conta",
		DateCol:    "Data mov.",
		DescCol:    "Descrição",
		AmountMode: amountSigned,
		AmountCol:  "Montante",
	},
}

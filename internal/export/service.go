// Package export renders a user's transactions as CSV or XLSX.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/budgie/internal/apperr"
	"github.com/MrJamesThe3rd/budgie/internal/category"
	"github.com/MrJamesThe3rd/budgie/internal/transaction"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	return "text/csv; charset=utf-8"
}

// ParseFormat defaults to CSV when s is empty.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}

	return "", fmt.Errorf("%w: unsupported export format %q", apperr.ErrValidation, s)
}

// Header matches the column names the importer recognizes, so an export
// can be re-imported as-is.
var Header = []string{"Date", "Type", "Amount", "Category", "Description", "Notes", "Tags"}

const sheetName = "Transactions"

type TransactionLister interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type CategoryLister interface {
	List(ctx context.Context, userID string) ([]*category.Category, error)
}

type Service struct {
	transactions TransactionLister
	categories   CategoryLister
}

func NewService(transactions TransactionLister, categories CategoryLister) *Service {
	return &Service{transactions: transactions, categories: categories}
}

// Export writes every transaction matching filter to w in the given format.
func (s *Service) Export(ctx context.Context, filter transaction.ListFilter, format Format, w io.Writer) error {
	records, err := s.records(ctx, filter)
	if err != nil {
		return err
	}

	switch format {
	case FormatXLSX:
		return writeXLSX(w, records)
	default:
		return writeCSV(w, records)
	}
}

func (s *Service) records(ctx context.Context, filter transaction.ListFilter) ([][]string, error) {
	txs, err := s.transactions.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	cats, err := s.categories.List(ctx, filter.UserID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	names := make(map[uuid.UUID]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}

	records := make([][]string, 0, len(txs))

	for _, t := range txs {
		var categoryName string
		if t.CategoryID != nil {
			categoryName = names[*t.CategoryID]
		}

		records = append(records, []string{
			t.Date.Format("2006-01-02"),
			string(t.Type),
			t.Amount.StringFixed(2),
			categoryName,
			t.Description,
			t.Notes,
			strings.Join(t.Tags, "|"),
		})
	}

	return records, nil
}

func writeCSV(w io.Writer, records [][]string) error {
	// UTF-8 BOM so spreadsheet tools pick the right charset.
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("writing bom: %w", err)
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("writing rows: %w", err)
	}

	return nil
}

func writeXLSX(w io.Writer, records [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}

		row := make([]any, len(rec))
		for j, v := range rec {
			row[j] = v
		}

		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	for col, width := range map[string]float64{"A": 12, "B": 10, "C": 12, "D": 18, "E": 36, "F": 30, "G": 20} {
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("sizing column %s: %w", col, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}

// Package importer turns bank and spreadsheet CSV exports into transaction
// create params. Layouts are recognized by their header row.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	enc "github.com/MrJamesThe3rd/budgie/internal/encoding"
	"github.com/MrJamesThe3rd/budgie/internal/transaction"
)

// ErrUnknownFormat is returned when no header row matches a known profile.
var ErrUnknownFormat = errors.New("unrecognized csv layout")

// delimiters are tried in order until one produces a recognizable header.
var delimiters = []rune{';', ',', '\t'}

var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"2006/01/02",
	"02.01.2006",
	time.RFC3339,
}

// Result is the outcome of a parse.
type Result struct {
	Profile string
	Rows    []transaction.CreateParams
}

type Parser struct {
	maxRows int
}

func NewParser(maxRows int) *Parser {
	return &Parser{maxRows: maxRows}
}

func (p *Parser) Parse(r io.Reader) (*Result, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	raw, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	for _, delim := range delimiters {
		rows, err := readRows(raw, delim)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := detectProfile(rows)
		if profile == nil {
			continue
		}

		txs, err := parseRows(profile, cols, rows[headerIdx+1:], headerIdx)
		if err != nil {
			return nil, err
		}

		if p.maxRows > 0 && len(txs) > p.maxRows {
			return nil, fmt.Errorf("file has %d transactions, limit is %d", len(txs), p.maxRows)
		}

		return &Result{Profile: profile.Name, Rows: txs}, nil
	}

	return nil, ErrUnknownFormat
}

func readRows(raw []byte, delim rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return rows, nil
}

// colIndex maps normalized column names to their index in the row.
type colIndex map[string]int

func (c colIndex) lookup(name string) int {
	if name == "" {
		return -1
	}

	if i, ok := c[normalizeHeader(name)]; ok {
		return i
	}

	return -1
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// detectProfile scans rows for a header that matches a known profile.
// Bank exports often carry a preamble, so the header may not be the first row.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := normalizeHeader(cell)
			if name == "" {
				continue
			}

			if _, dup := cols[name]; !dup {
				cols[name] = i
			}
		}

		for i := range profiles {
			if profiles[i].matches(cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// parseRows extracts transactions from data rows.
// headerRowNum is the 0-based index of the header, used for error messages.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]transaction.CreateParams, error) {
	dateIdx := cols.lookup(p.DateCol)
	descIdx := cols.lookup(p.DescCol)
	notesIdx := cols.lookup(p.NotesCol)
	tagsIdx := cols.lookup(p.TagsCol)

	var txs []transaction.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 2

		date, ok := parseDate(cellValue(row, dateIdx))
		if !ok {
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		amount, txType, ok := p.amount(cols, row)
		if !ok {
			continue
		}

		txs = append(txs, transaction.CreateParams{
			Amount:      amount,
			Type:        txType,
			Description: desc,
			Notes:       cellValue(row, notesIdx),
			Tags:        splitTags(cellValue(row, tagsIdx)),
			Date:        date,
		})
	}

	return txs, nil
}

// parseDate accepts the common day-first and ISO layouts. Footer rows and
// blank lines fail to parse and are skipped by the caller.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}

	return time.Time{}, false
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}

	var tags []string

	for _, t := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }) {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	return tags
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

// Package cgd reads the CSV exports of Caixa Geral de Depósitos. The export
// layout (conta, extrato or cartão) is recognised from its header row.
package cgd

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/budget/internal/encoding"
	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

const dateLayout = "02-01-2006"

var ErrUnknownLayout = errors.New("no known CGD layout found: expected conta, extrato or cartão columns")

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse returns one entry per movement row. Category is left empty for the
// caller to fill in. Rows without a date or a non-zero amount are skipped.
func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detecting encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	layout, header := detect(rows)
	if layout == nil {
		return nil, ErrUnknownLayout
	}

	return layout.read(rows[header+1:], header+2)
}

type columns map[string]int

func (c columns) cell(row []string, name string) string {
	idx, ok := c[name]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

// detect finds the first row naming every column of a known layout.
func detect(rows [][]string) (*boundLayout, int) {
	for i, row := range rows {
		cols := make(columns)

		for j, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				cols[name] = j
			}
		}

		for _, l := range layouts {
			if l.matches(cols) {
				return &boundLayout{layout: l, cols: cols}, i
			}
		}
	}

	return nil, 0
}

type boundLayout struct {
	layout
	cols columns
}

// read parses data rows; firstLine is the 1-based file line of rows[0].
func (b *boundLayout) read(rows [][]string, firstLine int) ([]transaction.CreateParams, error) {
	out := []transaction.CreateParams{}

	for i, row := range rows {
		date, err := time.ParseInLocation(dateLayout, b.cols.cell(row, b.Date), time.Local)
		if err != nil {
			continue
		}

		desc := b.cols.cell(row, b.Description)
		if desc == "" {
			return nil, fmt.Errorf("line %d: missing description", firstLine+i)
		}

		amount, kind, ok := b.amount(row)
		if !ok {
			continue
		}

		out = append(out, transaction.CreateParams{
			Amount:      amount,
			Type:        kind,
			Date:        date,
			Description: desc,
		})
	}

	return out, nil
}

// amount returns the absolute value and the kind it implies.
func (b *boundLayout) amount(row []string) (decimal.Decimal, transaction.Type, bool) {
	if b.Signed != "" {
		d, err := parseAmount(b.cols.cell(row, b.Signed))
		if err != nil || d.IsZero() {
			return decimal.Zero, "", false
		}

		if d.IsNegative() {
			return d.Neg(), transaction.TypeExpense, true
		}

		return d, transaction.TypeIncome, true
	}

	if d, err := parseAmount(b.cols.cell(row, b.Debit)); err == nil && !d.IsZero() {
		return d.Abs(), transaction.TypeExpense, true
	}

	if d, err := parseAmount(b.cols.cell(row, b.Credit)); err == nil && !d.IsZero() {
		return d.Abs(), transaction.TypeIncome, true
	}

	return decimal.Zero, "", false
}

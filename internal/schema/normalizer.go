package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nursyahid/dapur-ledger/internal/model"
)

// Parse errors. These are the only fatal errors in the import pipeline: a
// grid with no recognizable header or no data rows cannot be corrected by
// editing individual candidates.
var (
	ErrNoHeader = errors.New("no header row found in the first 5 rows")
	ErrNoRows   = errors.New("no data rows below the header")
)

// headerScanLimit bounds how deep into the grid the header may sit. Sheets
// in the wild often carry a title or an empty banner row above the table.
const headerScanLimit = 5

// DetectHeader locates the header row within the first rows of the grid and
// returns its index together with the column-to-field mapping.
func DetectHeader(grid [][]string) (int, map[int]Field, error) {
	limit := headerScanLimit
	if len(grid) < limit {
		limit = len(grid)
	}

	for i := 0; i < limit; i++ {
		row := grid[i]
		if !rowHasName(row) {
			continue
		}

		columns := make(map[int]Field)
		for col, cell := range row {
			if f, ok := NormalizeHeader(cell); ok {
				columns[col] = f
			}
		}
		return i, columns, nil
	}

	return 0, nil, ErrNoHeader
}

func rowHasName(row []string) bool {
	for _, cell := range row {
		if isNameHeader(cell) {
			return true
		}
	}
	return false
}

// ParseGrid turns a raw 2-D grid of cell values into ordered import rows.
// Rows that are entirely blank are skipped; row indexes on the returned
// records are 1-based positions in the source grid so errors can point the
// user back at the original sheet.
func ParseGrid(grid [][]string) ([]model.ImportRow, error) {
	headerIdx, columns, err := DetectHeader(grid)
	if err != nil {
		return nil, err
	}

	rows := make([]model.ImportRow, 0, len(grid)-headerIdx-1)
	for i := headerIdx + 1; i < len(grid); i++ {
		row := parseRow(grid[i], columns, i+1)
		if row.IsBlank() {
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("header at row %d: %w", headerIdx+1, ErrNoRows)
	}

	return rows, nil
}

func parseRow(cells []string, columns map[int]Field, rowIndex int) model.ImportRow {
	row := model.ImportRow{RowIndex: rowIndex}

	for col, field := range columns {
		if col >= len(cells) {
			continue
		}
		value := strings.TrimSpace(cells[col])

		switch field {
		case FieldName:
			row.Name = value
		case FieldUnit:
			row.Unit = value
		case FieldSupplierName:
			row.SupplierName = value
		case FieldSellPrice:
			row.SellPrice = CoerceNumber(value)
		case FieldCostPrice:
			row.CostPrice = CoerceNumber(value)
		case FieldQuantity:
			row.Quantity = CoerceNumber(value)
		}
	}

	return row
}

// CoerceNumber parses a price-like cell leniently: currency symbols,
// thousands separators, and any other decoration are stripped before
// parsing, and anything still unparseable coerces to 0 rather than failing
// the row. Users fix suspicious zeros in the correction loop.
func CoerceNumber(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '+' {
			b.WriteRune(r)
		}
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}

package schema

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/nursyahid/dapur-ledger/internal/model"
)

// ReadGrid loads the first sheet of an xlsx workbook as a raw cell grid.
func ReadGrid(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}

	return rows, nil
}

// ParseWorkbook reads an xlsx file and normalizes it into import rows.
func ParseWorkbook(path string) ([]model.ImportRow, error) {
	grid, err := ReadGrid(path)
	if err != nil {
		return nil, err
	}
	return ParseGrid(grid)
}

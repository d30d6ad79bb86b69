// Package excel loads the source workbook into an in-memory table.
package excel

import (
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is an ordered set of named columns plus data rows. Every row has
// exactly len(Columns) cells; missing cells are normalised to "".
type Table struct {
	Columns []string
	Rows    [][]string
}

// SourceNotFoundError is returned when the workbook file does not exist.
type SourceNotFoundError struct {
	Path string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("Excel file not found: %s", e.Path)
}

// SchemaError reports every configured column absent from the workbook,
// not just the first.
type SchemaError struct {
	Columns []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("configured columns are missing from Excel file: %s", strings.Join(e.Columns, ", "))
}

// Read loads the first worksheet of the workbook at path. The first row
// is the header, all remaining rows are data. Other worksheets are
// ignored. The whole sheet is read into memory - spreadsheet-scale data
// is expected to fit.
func Read(path string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &SourceNotFoundError{Path: path}
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open workbook %s (%w)", path, err)
	}

	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook %s has no worksheets", path)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("unable to read worksheet '%s' (%w)", sheet, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("worksheet '%s' has no header row", sheet)
	}

	columns := make([]string, len(rows[0]))
	for i, column := range rows[0] {
		columns[i] = strings.TrimSpace(column)
	}

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make([]string, len(columns))
		for i := range columns {
			if i < len(row) {
				record[i] = row[i]
			}
		}

		data = append(data, record)
	}

	return &Table{
		Columns: columns,
		Rows:    data,
	}, nil
}

// Project reduces the table to exactly the requested columns, in the
// requested order. A nil or empty list leaves the table unchanged. Every
// requested column missing from the table is reported in a SchemaError.
func (t *Table) Project(columns []string) (*Table, error) {
	if len(columns) == 0 {
		return t, nil
	}

	index := map[string]int{}
	for i, column := range t.Columns {
		index[column] = i
	}

	missing := []string{}
	xref := make([]int, 0, len(columns))
	for _, column := range columns {
		if ix, ok := index[strings.TrimSpace(column)]; ok {
			xref = append(xref, ix)
		} else {
			missing = append(missing, column)
		}
	}

	if len(missing) > 0 {
		return nil, &SchemaError{Columns: missing}
	}

	projected := &Table{
		Columns: make([]string, len(columns)),
		Rows:    make([][]string, len(t.Rows)),
	}

	for i, ix := range xref {
		projected.Columns[i] = t.Columns[ix]
	}

	for i, row := range t.Rows {
		record := make([]string, len(xref))
		for j, ix := range xref {
			record[j] = row[ix]
		}

		projected.Rows[i] = record
	}

	return projected, nil
}

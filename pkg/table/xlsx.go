package table

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/treesquares/treesquares/pkg/errors"
)

// Workbook is an open Excel workbook.
type Workbook struct {
	path string
	f    *excelize.File
}

// OpenWorkbook opens the workbook at path. A missing file is reported with
// code FILE_NOT_FOUND. Callers must Close the workbook.
func OpenWorkbook(path string) (*Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open workbook %s", path)
	}
	return &Workbook{path: path, f: f}, nil
}

// Path returns the file the workbook was opened from.
func (w *Workbook) Path() string { return w.path }

// Sheets lists the sheet names in workbook order.
func (w *Workbook) Sheets() []string { return w.f.GetSheetList() }

// Has reports whether the workbook contains sheet.
func (w *Workbook) Has(sheet string) bool {
	return slices.Contains(w.Sheets(), sheet)
}

// Table loads a sheet. The first row is the header; trailing unnamed
// columns and fully empty rows are dropped. Cells are read raw, without the
// sheet's number formatting.
//
// An empty sheet name selects the first sheet. An unknown sheet is
// reported with code SHEET_NOT_FOUND.
func (w *Workbook) Table(sheet string) (*Table, error) {
	if sheet == "" {
		sheets := w.Sheets()
		if len(sheets) == 0 {
			return nil, errors.New(errors.ErrCodeSheetNotFound, "%s has no sheets", w.path)
		}
		sheet = sheets[0]
	}
	if !w.Has(sheet) {
		return nil, errors.New(errors.ErrCodeSheetNotFound, "sheet %q not found in %s", sheet, w.path)
	}

	rows, err := w.f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read sheet %q", sheet)
	}
	if len(rows) == 0 {
		return New(sheet, nil), nil
	}

	header := rows[0]
	for len(header) > 0 && strings.TrimSpace(header[len(header)-1]) == "" {
		header = header[:len(header)-1]
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := New(sheet, header)
	for _, r := range rows[1:] {
		if isBlank(r) {
			continue
		}
		t.Append(r)
	}
	return t, nil
}

// Close releases the workbook.
func (w *Workbook) Close() error { return w.f.Close() }

// ReadXLSX loads one sheet of the workbook at path.
func ReadXLSX(path, sheet string) (*Table, error) {
	wb, err := OpenWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()
	return wb.Table(sheet)
}

// WriteXLSX writes each table to its own sheet of a new workbook at path.
// Tables without a name are written as Sheet1, Sheet2 and so on.
func WriteXLSX(path string, tables ...*Table) error {
	if len(tables) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no tables to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, t := range tables {
		name := t.Name
		if name == "" {
			name = "Sheet" + strconv.Itoa(i+1)
		}
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return fmt.Errorf("sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("sheet %q: %w", name, err)
		}
		if err := writeSheet(f, name, t); err != nil {
			return fmt.Errorf("sheet %q: %w", name, err)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t *Table) error {
	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for r, row := range t.Rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = cellValue(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}
	return nil
}

// cellValue stores plain numbers as numbers. Values with leading zeros or
// a decimal comma stay text so identifiers such as postal codes survive.
func cellValue(v string) any {
	if v == "" || strings.ContainsAny(v, ", ") || (len(v) > 1 && v[0] == '0' && v[1] != '.') {
		return v
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return v
}

// Open loads a table from path, dispatching on the extension: .csv files
// are read with [ImportCSV] (sheet is ignored), .xlsx and .xlsm workbooks
// with [ReadXLSX].
func Open(path, sheet string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ImportCSV(path)
	case ".xlsx", ".xlsm":
		return ReadXLSX(path, sheet)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported table file %s (want .csv or .xlsx)", path)
	}
}

// OutputPath returns the workbook results for input are written to:
// "people.xlsx" becomes "people-output.xlsx".
func OutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "-output.xlsx"
}

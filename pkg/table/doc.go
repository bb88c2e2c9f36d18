// Package table provides the tabular input and output used by treesquares.
//
// # Overview
//
// Every command in treesquares starts from a rectangular table of string
// cells with named columns: a CSV file, a sheet of an Excel workbook or a
// request body posted to the HTTP server. A [Table] keeps the cells as
// strings exactly as they were read; numeric interpretation happens on
// demand through [Table.Float].
//
// Empty cells read as "", so a missing value never turns into a number.
//
// # Reading
//
//   - [ReadCSV] / [ImportCSV]: comma separated by default; [WithDelimiter]
//     selects another separator (the legacy job file uses ';').
//   - [OpenWorkbook]: an Excel workbook read through excelize. Sheets are
//     listed with [Workbook.Sheets] and loaded with [Workbook.Table].
//   - [Open]: dispatches on the file extension.
//
// # Writing
//
// [WriteXLSX] writes one sheet per table. Cells that parse as numbers are
// stored as numbers so spreadsheet formulas keep working on the output.
//
// # Ordering
//
// [Compare] orders cell values the way a spreadsheet user expects: numbers
// numerically, then text lexically. It is the ordering used for group keys
// and cell labels throughout the treemap package.
package table

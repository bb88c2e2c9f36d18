// Package batch renders many treemap diagrams from a job list.
//
// Jobs come from one of three sources, chosen by the file extension given
// to [Load]:
//
//   - .toml: a job file with one [[job]] table per diagram
//   - .xlsx: a workbook with a "Voronoi" macro sheet, one row per diagram
//   - .csv: the older semicolon separated tetris job list
//
// A job whose input sheet, color sheet or columns are missing is skipped
// with a warning; the remaining jobs still run.
//
// # Job files
//
//	[[job]]
//	input   = "voronoi.xlsx"
//	sheet   = "lan"
//	output  = "out/lan"
//	levels  = ["landsdel", "lan", "kommun"]
//	area    = "yta"
//	quality = "skog"
//	palette = "colors"
//
//	[[job.rule]]
//	when = ">0.5"
//	bg   = "green"
//	fg   = "white"
//
//	[[job.rule]]
//	bg = "#eeeeee"
//
// Relative paths are resolved against the directory of the job file.
package batch

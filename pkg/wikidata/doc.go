// Package wikidata prepares person lists exported from Wikidata SPARQL
// queries for treemap rendering.
//
// A query export holds one row per person and occupation. [Condense] keeps
// one row per person, choosing the occupation ranked highest on a priority
// sheet, and derives the date and place columns the treemap levels group
// by:
//
//	wb, _ := table.OpenWorkbook("voronoi.xlsx")
//	in, err := wikidata.Load(wb)
//	out, err := wikidata.Condense(in.Persons, in.Priorities, in.Places)
//
// The condensed table is usually enriched afterwards with Wikipedia
// statistics, see package wikipedia.
package wikidata

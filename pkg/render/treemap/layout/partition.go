package layout

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/treesquares/treesquares/pkg/table"
)

// Cell is a leaf of the partition: a rectangle and the records it stands for.
type Cell struct {
	Rect    Rect
	Records []Record
	// Level is the hierarchy depth at which the cell became a leaf.
	Level int
}

// Weight returns the summed weight of the cell's records.
func (c Cell) Weight() float64 {
	w := make([]float64, len(c.Records))
	for i, r := range c.Records {
		w[i] = r.Weight
	}
	return floats.Sum(w)
}

// Diagnostic reports records that were dropped from the partition.
type Diagnostic struct {
	Rect    Rect
	Rows    int
	Message string
}

// Result holds the cells of one partition, in paint order, and the
// diagnostics raised on the way.
type Result struct {
	Cells       []Cell
	Diagnostics []Diagnostic
}

func (r *Result) append(o Result) {
	r.Cells = append(r.Cells, o.Cells...)
	r.Diagnostics = append(r.Diagnostics, o.Diagnostics...)
}

// Area returns the summed area of all cells.
func (r Result) Area() float64 {
	a := make([]float64, len(r.Cells))
	for i, c := range r.Cells {
		a[i] = c.Rect.Area()
	}
	return floats.Sum(a)
}

// Partition lays records out inside rect, grouped by the fields of
// hierarchy. Record keys are matched to hierarchy fields by position; keys
// beyond len(hierarchy) are ignored.
//
// Partition is pure: it does not modify records and returns fresh slices.
func Partition(records []Record, hierarchy []string, rect Rect) Result {
	return split(records, len(hierarchy), 1, rect)
}

type group struct {
	key     []string
	weight  float64
	records []Record
}

func split(records []Record, depth, level int, rect Rect) Result {
	switch {
	case len(records) == 0:
		return Result{}
	case len(records) == 1, level > depth:
		return leaf(records, level, rect)
	}

	groups := groupBy(records, level)
	if len(groups) == 1 {
		level++
		groups = groupBy(records, min(level, depth))
	}

	var b1, b2 []Record
	var w1, w2 float64
	for _, g := range groups {
		if w1 <= w2 {
			w1 += g.weight
			b1 = append(b1, g.records...)
		} else {
			w2 += g.weight
			b2 = append(b2, g.records...)
		}
	}

	total := w1 + w2
	if !(total > 0) || math.IsInf(total, 0) {
		return Result{Diagnostics: []Diagnostic{{
			Rect:    rect,
			Rows:    len(records),
			Message: fmt.Sprintf("total weight %g at level %d, dropping %d rows", total, level, len(records)),
		}}}
	}

	r1, r2, _ := rect.Split(w1 / total)

	var res Result
	res.append(branch(b1, w1, depth, level, r1))
	res.append(branch(b2, w2, depth, level, r2))
	return res
}

func branch(records []Record, weight float64, depth, level int, rect Rect) Result {
	if weight > 0 {
		return split(records, depth, level, rect)
	}
	if len(records) == 0 {
		return Result{}
	}
	return Result{Diagnostics: []Diagnostic{{
		Rect:    rect,
		Rows:    len(records),
		Message: fmt.Sprintf("non-positive weight at level %d, dropping %d rows", level, len(records)),
	}}}
}

func leaf(records []Record, level int, rect Rect) Result {
	return Result{Cells: []Cell{{
		Rect:    rect,
		Records: slices.Clone(records),
		Level:   level,
	}}}
}

// groupBy groups records by their first level keys. Groups come out sorted
// by weight descending, ties by key ascending; records inside a group keep
// key order, then input order.
func groupBy(records []Record, level int) []group {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b Record) int {
		return table.CompareKeys(a.prefix(level), b.prefix(level))
	})

	var groups []group
	for _, r := range sorted {
		key := r.prefix(level)
		if n := len(groups); n > 0 && slices.Equal(groups[n-1].key, key) {
			groups[n-1].records = append(groups[n-1].records, r)
			continue
		}
		groups = append(groups, group{key: key, records: []Record{r}})
	}

	for i := range groups {
		w := make([]float64, len(groups[i].records))
		for j, r := range groups[i].records {
			w[j] = r.Weight
		}
		groups[i].weight = floats.Sum(w)
	}

	slices.SortStableFunc(groups, func(a, b group) int {
		switch {
		case a.weight > b.weight:
			return -1
		case a.weight < b.weight:
			return 1
		}
		return 0
	})
	return groups
}

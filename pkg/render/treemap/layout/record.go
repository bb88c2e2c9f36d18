package layout

import (
	"math"
	"strings"

	"github.com/treesquares/treesquares/pkg/errors"
	"github.com/treesquares/treesquares/pkg/table"
)

// Record is one input row reduced to what the partitioner needs.
type Record struct {
	// Keys holds the row's hierarchy values, Keys[i] for hierarchy field i.
	Keys []string
	// Weight is the row's area value; non-numeric cells weigh 0.
	Weight float64
	// Quality is the row's quality value, NaN when empty or non-numeric.
	Quality float64
	// Row is the index of the source row in its table.
	Row int
}

// CheckColumns reports every required column absent from t as a single
// MISSING_COLUMN error. quality may be empty when no coloring is wanted.
func CheckColumns(t *table.Table, hierarchy []string, area, quality string) error {
	cols := append([]string{area}, hierarchy...)
	if quality != "" {
		cols = append(cols, quality)
	}
	if missing := t.Missing(cols...); len(missing) > 0 {
		return errors.New(errors.ErrCodeMissingColumn,
			"%s: missing columns %s", t.Name, strings.Join(missing, ", "))
	}
	return nil
}

// RecordsFrom extracts records from t. Every hierarchy field, the area
// column and, when set, the quality column must exist.
func RecordsFrom(t *table.Table, hierarchy []string, area, quality string) ([]Record, error) {
	if err := CheckColumns(t, hierarchy, area, quality); err != nil {
		return nil, err
	}

	idx := make([]int, len(hierarchy))
	for i, h := range hierarchy {
		idx[i] = t.Index(h)
	}

	records := make([]Record, 0, t.Len())
	for r, row := range t.Rows {
		keys := make([]string, len(idx))
		for i, c := range idx {
			keys[i] = row[c]
		}
		w, ok := t.Float(r, area)
		if !ok {
			w = 0
		}
		q := math.NaN()
		if quality != "" {
			q, _ = t.Float(r, quality)
		}
		records = append(records, Record{Keys: keys, Weight: w, Quality: q, Row: r})
	}
	return records, nil
}

// prefix returns the first n keys, or all keys when n exceeds their number.
func (r Record) prefix(n int) []string {
	if n > len(r.Keys) {
		n = len(r.Keys)
	}
	return r.Keys[:n]
}

package wikidata

import (
	"cmp"
	"slices"
	"strings"

	"github.com/treesquares/treesquares/pkg/errors"
	"github.com/treesquares/treesquares/pkg/table"
)

// Sheet names of a query export workbook.
const (
	PersonsSheet  = "wd-personer"
	PrioritySheet = "wd-personer-prioritet"
	PlacesSheet   = "wd-place"
)

// Events are the life events dates and places are derived for.
var Events = []string{"birth", "death"}

// PlaceLevels are the administrative levels looked up for a place, from
// the widest to the narrowest.
var PlaceLevels = []string{"landskap", "landskapsdel", "kommun"}

const (
	personCol     = "personLabel"
	occupationCol = "occupationLabel"
	placeCol      = "ort"
)

// Inputs holds the three sheets Condense reads.
type Inputs struct {
	Persons    *table.Table
	Priorities *table.Table
	Places     *table.Table
}

// Load reads the person, priority and place sheets of wb.
// A missing sheet is reported with code SHEET_NOT_FOUND.
func Load(wb *table.Workbook) (Inputs, error) {
	var in Inputs
	for _, s := range []struct {
		name string
		dst  **table.Table
	}{
		{PersonsSheet, &in.Persons},
		{PrioritySheet, &in.Priorities},
		{PlacesSheet, &in.Places},
	} {
		t, err := wb.Table(s.name)
		if err != nil {
			return Inputs{}, err
		}
		*s.dst = t
	}
	return in, nil
}

// Priorities maps each occupation to its row index on the priority sheet.
// Lower ranks win.
type Priorities map[string]int

// NewPriorities reads the occupationLabel column of t. The first listing
// of an occupation sets its rank.
func NewPriorities(t *table.Table) (Priorities, error) {
	if err := requireColumns(t, occupationCol); err != nil {
		return nil, err
	}
	p := Priorities{}
	for r := range t.Rows {
		occ := t.Value(r, occupationCol)
		if _, ok := p[occ]; !ok && occ != "" {
			p[occ] = r
		}
	}
	return p, nil
}

// Rank returns the rank of occupation. Unlisted and empty occupations
// rank after every listed one.
func (p Priorities) Rank(occupation string) int {
	if r, ok := p[occupation]; ok {
		return r
	}
	return len(p) + 1
}

// Places maps a place name to its administrative levels.
type Places map[string][]string

// NewPlaces reads the ort column of t with its landskap, landskapsdel and
// kommun. A place listed twice keeps its last row.
func NewPlaces(t *table.Table) (Places, error) {
	if err := requireColumns(t, append([]string{placeCol}, PlaceLevels...)...); err != nil {
		return nil, err
	}
	p := Places{}
	for r := range t.Rows {
		levels := make([]string, len(PlaceLevels))
		for i, l := range PlaceLevels {
			levels[i] = t.Value(r, l)
		}
		p[t.Value(r, placeCol)] = levels
	}
	return p, nil
}

// Levels returns the levels of place, all empty when it is unknown.
func (p Places) Levels(place string) []string {
	if l, ok := p[place]; ok && place != "" {
		return l
	}
	return make([]string, len(PlaceLevels))
}

// Condense returns a copy of persons with one row per personLabel, sorted
// by personLabel. Of the rows of a person the one whose occupation ranks
// highest on the priority sheet is kept.
//
// For each event it replaces {event}dateLabel with {event}date (the first
// ten characters, a plain date), {event}year and {event}century, and adds
// {event}_landskap, {event}_landskapsdel and {event}_kommun looked up from
// {event}placeLabel.
func Condense(persons, priorities, places *table.Table) (*table.Table, error) {
	required := []string{personCol, occupationCol}
	for _, e := range Events {
		required = append(required, e+"dateLabel", e+"placeLabel")
	}
	if err := requireColumns(persons, required...); err != nil {
		return nil, err
	}
	prio, err := NewPriorities(priorities)
	if err != nil {
		return nil, err
	}
	levels, err := NewPlaces(places)
	if err != nil {
		return nil, err
	}

	rows := make([]int, len(persons.Rows))
	for i := range rows {
		rows[i] = i
	}
	rank := func(r int) int { return prio.Rank(persons.Value(r, occupationCol)) }
	slices.SortStableFunc(rows, func(a, b int) int {
		if c := strings.Compare(persons.Value(a, personCol), persons.Value(b, personCol)); c != 0 {
			return c
		}
		return cmp.Compare(rank(a), rank(b))
	})
	rows = slices.CompactFunc(rows, func(a, b int) bool {
		return persons.Value(a, personCol) == persons.Value(b, personCol)
	})

	out := persons.Select(rows)
	for _, e := range Events {
		addDates(out, e)
	}
	for _, e := range Events {
		for r := range out.Rows {
			l := levels.Levels(out.Value(r, e+"placeLabel"))
			for i, level := range PlaceLevels {
				out.Set(r, e+"_"+level, l[i])
			}
		}
	}
	return out, nil
}

func addDates(t *table.Table, event string) {
	label := event + "dateLabel"
	dateCol, yearCol, centuryCol := event+"date", event+"year", event+"century"
	for _, col := range []string{dateCol, yearCol, centuryCol} {
		t.AddColumn(col, "")
	}
	for r := range t.Rows {
		date := prefix(t.Value(r, label), 10)
		t.Set(r, dateCol, date)
		t.Set(r, yearCol, prefix(date, 4))
		century := date
		if len(date) > 2 {
			century = date[:2] + "00"
		}
		t.Set(r, centuryCol, century)
	}
	t.DeleteColumn(label)
}

// prefix returns the first n bytes of s. Dates are ASCII.
func prefix(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func requireColumns(t *table.Table, cols ...string) error {
	if missing := t.Missing(cols...); len(missing) > 0 {
		return errors.New(errors.ErrCodeMissingColumn, "sheet %q lacks columns %s", t.Name, strings.Join(missing, ", "))
	}
	return nil
}

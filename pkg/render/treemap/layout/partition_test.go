package layout

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const eps = 1e-9

func rec(w float64, keys ...string) Record {
	return Record{Keys: keys, Weight: w, Quality: math.NaN()}
}

func rects(res Result) []Rect {
	out := make([]Rect, len(res.Cells))
	for i, c := range res.Cells {
		out[i] = c.Rect
	}
	return out
}

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestPartitionEmpty(t *testing.T) {
	res := Partition(nil, []string{"a"}, Rect{0, 0, 10, 10})
	if len(res.Cells) != 0 || len(res.Diagnostics) != 0 {
		t.Errorf("Partition(nil) = %+v, want empty", res)
	}
}

func TestPartitionSingleRow(t *testing.T) {
	box := Rect{1, 2, 11, 7}
	res := Partition([]Record{rec(5, "x", "y")}, []string{"a", "b"}, box)
	if diff := cmp.Diff([]Rect{box}, rects(res)); diff != "" {
		t.Errorf("cells (-want +got):\n%s", diff)
	}
}

func TestPartitionExhaustedHierarchy(t *testing.T) {
	box := Rect{0, 0, 10, 10}
	records := []Record{rec(1, "x", "p"), rec(2, "x", "q"), rec(3, "x", "r")}
	res := Partition(records, []string{"a"}, box)
	if len(res.Cells) != 1 {
		t.Fatalf("got %d cells, want 1 leaf", len(res.Cells))
	}
	if got := len(res.Cells[0].Records); got != 3 {
		t.Errorf("leaf holds %d records, want 3", got)
	}
	if diff := cmp.Diff(box, res.Cells[0].Rect, approx); diff != "" {
		t.Errorf("leaf rect (-want +got):\n%s", diff)
	}
}

func TestPartitionLighterBucketShare(t *testing.T) {
	// Groups of weight 10 and 30: the heavier group fills bucket 1 first,
	// so the lighter group receives a quarter of the width.
	box := Rect{0, 0, 100, 50}
	records := []Record{rec(10, "light"), rec(30, "heavy")}

	res := Partition(records, []string{"a"}, box)
	want := []Rect{{0, 0, 75, 50}, {75, 0, 100, 50}}
	if diff := cmp.Diff(want, rects(res), approx); diff != "" {
		t.Errorf("cells (-want +got):\n%s", diff)
	}
	if got := res.Cells[1].Records[0].Keys[0]; got != "light" {
		t.Errorf("second cell = %q, want light", got)
	}
	if share := res.Cells[1].Rect.Width() / box.Width(); math.Abs(share-0.25) > eps {
		t.Errorf("lighter share = %v, want 0.25", share)
	}
}

func TestPartitionSplitAxis(t *testing.T) {
	records := []Record{rec(1, "a"), rec(1, "b")}
	tests := []struct {
		name string
		box  Rect
		want []Rect
	}{
		{"tall splits top/bottom", Rect{0, 0, 10, 20}, []Rect{{0, 0, 10, 10}, {0, 10, 10, 20}}},
		{"square splits left/right", Rect{0, 0, 10, 10}, []Rect{{0, 0, 5, 10}, {5, 0, 10, 10}}},
		{"wide splits left/right", Rect{0, 0, 20, 10}, []Rect{{0, 0, 10, 10}, {10, 0, 20, 10}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rects(Partition(records, []string{"k"}, tt.box))
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("cells (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPartitionSkipsSingletonLevel(t *testing.T) {
	// All rows share a: the first cut must already separate the b values.
	box := Rect{0, 0, 100, 50}
	records := []Record{
		rec(10, "Sverige", "Gotland"),
		rec(20, "Sverige", "Skåne"),
		rec(30, "Sverige", "Norrbotten"),
	}
	res := Partition(records, []string{"a", "b"}, box)

	want := []Rect{
		{0, 0, 50, 50},
		{50, 0, 50 + 50*2.0/3, 50},
		{50 + 50*2.0/3, 0, 100, 50},
	}
	if diff := cmp.Diff(want, rects(res), approx); diff != "" {
		t.Errorf("cells (-want +got):\n%s", diff)
	}
	for i, c := range res.Cells {
		if c.Level != 2 {
			t.Errorf("cell %d level = %d, want 2", i, c.Level)
		}
	}
}

func TestPartitionTieBreaksByKey(t *testing.T) {
	box := Rect{0, 0, 30, 10}
	records := []Record{rec(1, "c"), rec(1, "a"), rec(1, "b")}
	res := Partition(records, []string{"k"}, box)

	var order []string
	for _, c := range res.Cells {
		order = append(order, c.Records[0].Keys[0])
	}
	// a and c go to bucket 1 (a first, then c once the buckets are level);
	// b is alone in bucket 2.
	if diff := cmp.Diff([]string{"a", "c", "b"}, order); diff != "" {
		t.Errorf("paint order (-want +got):\n%s", diff)
	}
}

func TestPartitionZeroWeight(t *testing.T) {
	box := Rect{0, 0, 10, 10}

	t.Run("zero group dropped", func(t *testing.T) {
		records := []Record{rec(4, "a"), rec(0, "b")}
		res := Partition(records, []string{"k"}, box)
		if len(res.Cells) != 1 {
			t.Fatalf("got %d cells, want 1", len(res.Cells))
		}
		if len(res.Diagnostics) != 1 || res.Diagnostics[0].Rows != 1 {
			t.Errorf("diagnostics = %+v, want one dropped row", res.Diagnostics)
		}
	})

	t.Run("all zero", func(t *testing.T) {
		records := []Record{rec(0, "a"), rec(0, "b"), rec(0, "c")}
		res := Partition(records, []string{"k"}, box)
		if len(res.Cells) != 0 {
			t.Errorf("got %d cells, want none", len(res.Cells))
		}
		if len(res.Diagnostics) != 1 || res.Diagnostics[0].Rows != 3 {
			t.Errorf("diagnostics = %+v, want all 3 rows dropped", res.Diagnostics)
		}
	})
}

func TestPartitionInfiniteWeight(t *testing.T) {
	records := []Record{rec(math.Inf(1), "a"), rec(1, "b")}
	res := Partition(records, []string{"k"}, Rect{0, 0, 10, 10})
	if len(res.Cells) != 0 {
		t.Errorf("got cells %v, want none", rects(res))
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Rows != 2 {
		t.Errorf("diagnostics = %+v, want both rows dropped", res.Diagnostics)
	}
}

func randomRecords(r *rand.Rand, n int) []Record {
	records := make([]Record, n)
	for i := range records {
		records[i] = rec(
			float64(1+r.IntN(1000)),
			"L"+strconv.Itoa(r.IntN(3)),
			"R"+strconv.Itoa(r.IntN(6)),
			strconv.Itoa(i),
		)
	}
	return records
}

func TestPartitionProperties(t *testing.T) {
	hierarchy := []string{"land", "region", "id"}
	boxes := []Rect{{0, 0, 332, 241.9}, {5, 5, 205, 73}, {0, 0, 40, 300}}

	for seed := uint64(1); seed <= 20; seed++ {
		r := rand.New(rand.NewPCG(seed, seed))
		records := randomRecords(r, 1+r.IntN(60))
		for _, box := range boxes {
			name := fmt.Sprintf("seed%d/%s", seed, box)
			t.Run(name, func(t *testing.T) {
				res := Partition(records, hierarchy, box)
				if len(res.Diagnostics) != 0 {
					t.Fatalf("unexpected diagnostics: %+v", res.Diagnostics)
				}

				if got, want := res.Area(), box.Area(); math.Abs(got-want) > 1e-6*want {
					t.Errorf("total area = %v, want %v", got, want)
				}

				n := 0
				for _, c := range res.Cells {
					n += len(c.Records)
				}
				if n != len(records) {
					t.Errorf("cells cover %d records, want %d", n, len(records))
				}

				for i := range res.Cells {
					for j := i + 1; j < len(res.Cells); j++ {
						if res.Cells[i].Rect.Overlaps(res.Cells[j].Rect, 1e-9) {
							t.Errorf("cells %d %v and %d %v overlap", i, res.Cells[i].Rect, j, res.Cells[j].Rect)
						}
					}
				}

				again := Partition(records, hierarchy, box)
				if diff := cmp.Diff(res, again, cmpopts.EquateNaNs()); diff != "" {
					t.Errorf("second run differs (-first +second):\n%s", diff)
				}
			})
		}
	}
}

func TestPartitionDoesNotModifyInput(t *testing.T) {
	records := []Record{rec(3, "b"), rec(1, "a"), rec(2, "c")}
	before := fmt.Sprint(records)
	Partition(records, []string{"k"}, Rect{0, 0, 10, 10})
	if after := fmt.Sprint(records); after != before {
		t.Errorf("input reordered: %s -> %s", before, after)
	}
}

func ExamplePartition() {
	records := []Record{
		{Keys: []string{"Uppland"}, Weight: 30},
		{Keys: []string{"Gotland"}, Weight: 10},
	}
	res := Partition(records, []string{"landskap"}, Rect{X0: 0, Y0: 0, X1: 100, Y1: 50})
	for _, c := range res.Cells {
		fmt.Printf("%s: %s\n", c.Records[0].Keys[0], c.Rect)
	}
	// Output:
	// Uppland: x0 0.00 y0 0.00 x1 75.00 y1 50.00
	// Gotland: x0 75.00 y0 0.00 x1 100.00 y1 50.00
}

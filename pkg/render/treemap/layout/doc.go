// Package layout computes treemap rectangles from weighted, hierarchically
// keyed records.
//
// # Partitioning
//
// [Partition] recursively halves a rectangle. At each step the records are
// grouped by a prefix of the hierarchy, the groups are sorted by total
// weight (descending, ties by key) and dealt greedily into two buckets: a
// group goes to the first bucket while its running weight does not exceed
// the second's. The rectangle is then cut in proportion to the bucket
// weights, across its longer side: tall rectangles (height/width > 1) are
// cut top/bottom, all others left/right.
//
// A level where every record shares the same key is skipped before
// grouping, so no cut is spent on a level that does not discriminate.
// Recursion stops at a single record or once the hierarchy is exhausted;
// the remaining records become one leaf [Cell].
//
// The greedy dealing is a heuristic, not an optimal two-way partition. For
// a fixed input it is fully deterministic: the same records in the same
// order always produce the same cells, in the same order, with the same
// coordinates.
//
// Branches whose weight sums to zero are not recursed into. Each dropped
// branch is reported as a [Diagnostic] rather than silently lost.
//
// # Bands
//
// [Build] draws one band per hierarchy depth, stacked top to bottom inside
// a box: the first band is partitioned by the first hierarchy field only,
// the second by the first two, and so on. See [BandRects] for the band
// geometry.
package layout

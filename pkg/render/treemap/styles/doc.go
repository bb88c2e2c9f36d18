// Package styles decides how treemap cells look: background and
// foreground colors from quality rules, label text, font size and
// rotation.
//
// Colors are classified by [Rules]: an ordered list of threshold rules
// evaluated against the mean quality of a cell, first match wins. A rule
// with no operator is a catch-all that stops evaluation and leaves the
// default in place: the last rule's background with a black foreground.
//
// Font sizes follow [FontSize]: the label is scaled to the longer side of
// the cell, capped at 24 points and at 90% of the side it is written
// across. Portrait cells carry their label rotated by -90 degrees.
package styles

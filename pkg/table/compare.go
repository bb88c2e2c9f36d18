package table

import "strings"

// Compare orders two cell values: numbers before text, numbers by value,
// text lexically. It returns -1, 0 or +1.
func Compare(a, b string) int {
	fa, aok := ParseFloat(a)
	fb, bok := ParseFloat(b)
	switch {
	case aok && bok:
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return strings.Compare(a, b)
	case aok:
		return -1
	case bok:
		return 1
	}
	return strings.Compare(a, b)
}

// CompareKeys compares two composite keys element by element with [Compare].
// A shorter key that is a prefix of the other sorts first.
func CompareKeys(a, b []string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

// Min returns the smallest value under [Compare], or "" for no values.
func Min(values ...string) string {
	if len(values) == 0 {
		return ""
	}
	m := values[0]
	for _, v := range values[1:] {
		if Compare(v, m) < 0 {
			m = v
		}
	}
	return m
}

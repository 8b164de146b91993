package weather

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// RankCities orders candidates for query in place: names starting with the
// query come before names that only contain it. Prefix matches are ordered by
// the rest of the name after the prefix, the others by the whole name, both
// with tag's collation.
func RankCities(cities []City, query string, tag language.Tag) {
	q := strings.ToLower(query)
	// A Collator is not safe for concurrent use, so each call gets its own.
	col := collate.New(tag)

	sort.SliceStable(cities, func(i, j int) bool {
		a := strings.ToLower(cities[i].Name)
		b := strings.ToLower(cities[j].Name)

		aPrefix := strings.HasPrefix(a, q)
		bPrefix := strings.HasPrefix(b, q)
		if aPrefix != bPrefix {
			return aPrefix
		}
		if aPrefix {
			return col.CompareString(a[len(q):], b[len(q):]) < 0
		}
		return col.CompareString(a, b) < 0
	})
}

// AppendDistinct appends each candidate that is not within threshold of a
// city already in dst.
func AppendDistinct(dst []City, candidates []City, threshold float64) []City {
	for _, c := range candidates {
		if containsNear(dst, c.Coordinates(), threshold) {
			continue
		}
		dst = append(dst, c)
	}
	return dst
}

func containsNear(cities []City, at Coordinates, threshold float64) bool {
	for _, c := range cities {
		if c.Coordinates().Near(at, threshold) {
			return true
		}
	}
	return false
}

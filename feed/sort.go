package feed

import (
	"slices"
	"time"
)

// SortByDate returns a copy of changes ordered most recent first. The sort
// is stable. Records whose date cannot be parsed go after every dated
// record and keep their feed order among themselves.
func SortByDate(changes []ChangeRecord) []ChangeRecord {
	type keyed struct {
		rec   ChangeRecord
		at    time.Time
		valid bool
	}
	keys := make([]keyed, len(changes))
	for i, c := range changes {
		at, ok := c.Time()
		keys[i] = keyed{rec: c, at: at, valid: ok}
	}
	slices.SortStableFunc(keys, func(a, b keyed) int {
		switch {
		case !a.valid && !b.valid:
			return 0
		case !a.valid:
			return 1
		case !b.valid:
			return -1
		}
		return b.at.Compare(a.at)
	})
	sorted := make([]ChangeRecord, len(keys))
	for i, k := range keys {
		sorted[i] = k.rec
	}
	return sorted
}

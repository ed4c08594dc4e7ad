package view

import (
	"strings"
	"sync"
	"time"

	"github.com/webframp/docstracker/feed"
)

// NormalizeTerm is the form of a search term used for matching.
func NormalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// Matches reports whether term occurs, case-insensitively, in the record's
// summary (as markdown or as plain text), author, any filename or its
// formatted date. An empty term
// matches everything.
func Matches(c feed.ChangeRecord, term string, loc *time.Location) bool {
	needle := NormalizeTerm(term)
	if needle == "" {
		return true
	}
	return matchNormalized(c, needle, loc)
}

func matchNormalized(c feed.ChangeRecord, needle string, loc *time.Location) bool {
	contains := func(s string) bool {
		return strings.Contains(strings.ToLower(s), needle)
	}
	if contains(c.Summary.Text) || contains(c.Author) {
		return true
	}
	// Terms copied from the rendered summary carry no markdown syntax.
	if c.Summary.Present && contains(PlainText(c.Summary.Text)) {
		return true
	}
	for _, f := range c.Files {
		if contains(f.Filename) {
			return true
		}
	}
	return contains(DisplayDate(c, loc))
}

// Filter returns the records matching term in their original order. A
// blank term returns changes itself.
func Filter(changes []feed.ChangeRecord, term string, loc *time.Location) []feed.ChangeRecord {
	needle := NormalizeTerm(term)
	if needle == "" {
		return changes
	}
	out := make([]feed.ChangeRecord, 0, len(changes))
	for _, c := range changes {
		if matchNormalized(c, needle, loc) {
			out = append(out, c)
		}
	}
	return out
}

// MaxMemoTerms bounds how many distinct terms a Memo keeps per generation.
const MaxMemoTerms = 64

// Memo caches Filter results per (feed generation, normalized term). A
// new generation discards everything cached for the old one.
type Memo struct {
	loc *time.Location

	mu      sync.Mutex
	gen     uint64
	entries map[string][]feed.ChangeRecord
	misses  int
}

// NewMemo returns a memo that formats dates in loc.
func NewMemo(loc *time.Location) *Memo {
	return &Memo{loc: loc, entries: make(map[string][]feed.ChangeRecord)}
}

// Filter returns Filter(snap.Changes, term), computing it only when the
// generation or term is new.
func (m *Memo) Filter(snap feed.Snapshot, term string) []feed.ChangeRecord {
	key := NormalizeTerm(term)

	m.mu.Lock()
	defer m.mu.Unlock()

	if snap.Generation != m.gen {
		m.gen = snap.Generation
		clear(m.entries)
	}
	if got, ok := m.entries[key]; ok {
		return got
	}
	if len(m.entries) >= MaxMemoTerms {
		clear(m.entries)
	}
	m.misses++
	got := Filter(snap.Changes, key, m.loc)
	m.entries[key] = got
	return got
}

// Misses is how many times Filter had to compute a result.
func (m *Memo) Misses() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.misses
}

// Package view holds the change table's state and the pure transitions the
// HTTP handlers and the terminal browser apply to it.
package view

import (
	"maps"
	"slices"

	"github.com/webframp/docstracker/feed"
)

// State is everything the change table needs to render: the loaded list,
// the live search term and which records are expanded.
//
// Transitions never modify their input; each returns a new State.
type State struct {
	Changes  []feed.ChangeRecord
	Term     string
	Expanded map[string]bool
}

// Loaded replaces the list. Expand state refers to the old list and is
// dropped; the search term is kept.
func Loaded(s State, changes []feed.ChangeRecord) State {
	return State{Changes: changes, Term: s.Term}
}

// Searched sets the search term. A changed term collapses every row.
func Searched(s State, term string) State {
	if term == s.Term {
		return s
	}
	return State{Changes: s.Changes, Term: term}
}

// Toggled flips the expand flag of the record with the given sha.
func Toggled(s State, sha string) State {
	expanded := maps.Clone(s.Expanded)
	if expanded == nil {
		expanded = make(map[string]bool)
	}
	if expanded[sha] {
		delete(expanded, sha)
	} else {
		expanded[sha] = true
	}
	s.Expanded = expanded
	return s
}

// IsExpanded reports whether the record with sha is expanded.
func IsExpanded(s State, sha string) bool {
	return s.Expanded[sha]
}

// ExpandedSHAs returns the expanded shas in sorted order.
func ExpandedSHAs(s State) []string {
	out := make([]string, 0, len(s.Expanded))
	for sha, open := range s.Expanded {
		if open {
			out = append(out, sha)
		}
	}
	slices.Sort(out)
	return out
}

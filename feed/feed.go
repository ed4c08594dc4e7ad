// Package feed loads the changes.json document produced by the docs change
// pipeline and keeps the current, date-sorted list of change records.
package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// FileStatus is the change kind reported for a file in a commit.
type FileStatus string

const (
	StatusAdded    FileStatus = "added"
	StatusRemoved  FileStatus = "removed"
	StatusModified FileStatus = "modified"
	StatusRenamed  FileStatus = "renamed"
)

// Document is the top-level shape of changes.json.
type Document struct {
	Changes []ChangeRecord `json:"changes"`
}

// ChangeRecord is one detected documentation commit.
type ChangeRecord struct {
	SHA     string       `json:"sha"`
	Date    string       `json:"date"`
	Author  string       `json:"author"`
	URL     string       `json:"url"`
	Summary Summary      `json:"ai_summary"`
	Files   []FileChange `json:"files,omitempty"`
}

// FileChange is a single file touched by a commit.
type FileChange struct {
	Filename  string     `json:"filename"`
	Status    FileStatus `json:"status"`
	Additions int        `json:"additions"`
	Deletions int        `json:"deletions"`
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Time parses the record's date. The second return is false when the date
// is missing or in no recognized layout.
func (c ChangeRecord) Time() (time.Time, bool) {
	return ParseDate(c.Date)
}

// ParseDate parses a feed timestamp. Layouts without a zone are read as UTC.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Summary is the normalized form of ai_summary, which the pipeline writes
// either as a plain string or as an object carrying a Response field.
type Summary struct {
	Text    string
	Present bool
}

// NewSummary returns a present summary holding text.
func NewSummary(text string) Summary {
	return Summary{Text: text, Present: true}
}

// UnmarshalJSON accepts a string, an object with a string Response field, or
// null. Any other shape leaves the summary absent.
func (s *Summary) UnmarshalJSON(data []byte) error {
	*s = Summary{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("decode ai_summary string: %w", err)
		}
		*s = NewSummary(text)
	case '{':
		var obj struct {
			Response json.RawMessage `json:"Response"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("decode ai_summary object: %w", err)
		}
		resp := bytes.TrimSpace(obj.Response)
		if len(resp) == 0 || resp[0] != '"' {
			return nil
		}
		var text string
		if err := json.Unmarshal(resp, &text); err != nil {
			return fmt.Errorf("decode ai_summary response: %w", err)
		}
		*s = NewSummary(text)
	}
	return nil
}

// MarshalJSON writes the summary as a plain string, or null when absent.
func (s Summary) MarshalJSON() ([]byte, error) {
	if !s.Present {
		return []byte("null"), nil
	}
	return json.Marshal(s.Text)
}

// Decode parses a changes.json body. A document without a changes field
// yields an empty, non-nil list.
func Decode(data []byte) ([]ChangeRecord, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	if doc.Changes == nil {
		doc.Changes = []ChangeRecord{}
	}
	return doc.Changes, nil
}

// DuplicateSHAs returns each sha that appears more than once, in order of
// its second appearance.
func DuplicateSHAs(changes []ChangeRecord) []string {
	seen := make(map[string]int, len(changes))
	var dups []string
	for _, c := range changes {
		seen[c.SHA]++
		if seen[c.SHA] == 2 {
			dups = append(dups, c.SHA)
		}
	}
	return dups
}

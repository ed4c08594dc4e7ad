package view

import (
	"strings"
	"testing"
	"time"

	"github.com/webframp/docstracker/feed"
)

func TestFileLabel(t *testing.T) {
	tests := []struct {
		status    feed.FileStatus
		wantLabel string
		wantClass string
	}{
		{feed.StatusAdded, "New", "ed-file-added"},
		{feed.StatusRemoved, "Deleted", "ed-file-removed"},
		{feed.StatusModified, "Updated", "ed-file-modified"},
		{feed.StatusRenamed, "Renamed", "ed-file-renamed"},
		{"copied", "", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			label, class := FileLabel(tt.status)
			if label != tt.wantLabel || class != tt.wantClass {
				t.Errorf("FileLabel(%q) = (%q, %q), want (%q, %q)", tt.status, label, class, tt.wantLabel, tt.wantClass)
			}
		})
	}
}

func TestFileMeta(t *testing.T) {
	modified := feed.FileChange{Filename: "a.md", Status: feed.StatusModified, Additions: 3, Deletions: 7}
	if got := FileMeta(modified); got != "(+3, -7)" {
		t.Errorf("got %q, want (+3, -7)", got)
	}
	added := feed.FileChange{Filename: "b.md", Status: feed.StatusAdded, Additions: 10}
	if got := FileMeta(added); got != "" {
		t.Errorf("added files have no meta, got %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	at := time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC)
	if got := FormatDate(at, true, nil); got != "3/9/2024, 3:04:05 PM" {
		t.Errorf("got %q", got)
	}
	if got := FormatDate(time.Time{}, false, time.UTC); got != InvalidDate {
		t.Errorf("got %q, want %q", got, InvalidDate)
	}
}

func TestRenderMarkdown(t *testing.T) {
	got := string(RenderMarkdown("**bold** text"))
	if !strings.Contains(got, "<strong>bold</strong> text") {
		t.Errorf("expected rendered markdown, got %q", got)
	}
	if strings.Contains(got, "**") {
		t.Errorf("raw markdown syntax leaked: %q", got)
	}

	unsafe := string(RenderMarkdown("hi <script>alert(1)</script>"))
	if strings.Contains(unsafe, "<script>") {
		t.Errorf("raw HTML should be omitted, got %q", unsafe)
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"**bold** text", "bold text"},
		{"# Title\n\nBody with `code`.", "Title Body with code."},
		{"- one\n- two", "one two"},
		{"line one\nline two", "line one line two"},
	}
	for _, tt := range tests {
		if got := PlainText(tt.input); got != tt.want {
			t.Errorf("PlainText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRowsScenario(t *testing.T) {
	s := Loaded(State{}, scenario())
	s = Toggled(Toggled(s, "a1"), "b2")

	rows := Rows(s, s.Changes, time.UTC)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	a1 := rows[0]
	if !a1.Expanded || a1.Author != "Dan" {
		t.Errorf("unexpected a1 row: %+v", a1)
	}
	if len(a1.Files) != 1 {
		t.Fatalf("expected one file line, got %d", len(a1.Files))
	}
	if a1.Files[0].Label != "Updated" || a1.Files[0].Meta != "(+1, -1)" {
		t.Errorf("unexpected file line: %+v", a1.Files[0])
	}

	b2 := rows[1]
	if b2.Author != "Amy" || len(b2.Files) != 0 {
		t.Errorf("unexpected b2 row: %+v", b2)
	}
	if b2.Date != "1/1/2024, 12:00:00 AM" {
		t.Errorf("unexpected date %q", b2.Date)
	}
}

func TestNewRowMissingSummary(t *testing.T) {
	row := NewRow(feed.ChangeRecord{SHA: "x", Date: "2024-01-01"}, false, time.UTC)
	if row.HasSummary {
		t.Error("expected no summary")
	}
	if string(row.Summary) != NoSummary || row.SummaryText != NoSummary {
		t.Errorf("expected %q, got %q / %q", NoSummary, row.Summary, row.SummaryText)
	}
}

package view

import (
	"fmt"
	"time"

	"github.com/webframp/docstracker/feed"
)

const (
	// DateLayout matches the en-US locale date-time rendering.
	DateLayout = "1/2/2006, 3:04:05 PM"

	InvalidDate = "Invalid Date"
	NoSummary   = "No summary available"
)

// FormatDate renders t in loc, or InvalidDate when ok is false.
func FormatDate(t time.Time, ok bool, loc *time.Location) string {
	if !ok {
		return InvalidDate
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

// DisplayDate is the formatted date of a record.
func DisplayDate(c feed.ChangeRecord, loc *time.Location) string {
	t, ok := c.Time()
	return FormatDate(t, ok, loc)
}

// FileLabel maps a file status to its display label and CSS class. Unknown
// statuses get neither.
func FileLabel(status feed.FileStatus) (label, class string) {
	switch status {
	case feed.StatusAdded:
		return "New", "ed-file-added"
	case feed.StatusRemoved:
		return "Deleted", "ed-file-removed"
	case feed.StatusModified:
		return "Updated", "ed-file-modified"
	case feed.StatusRenamed:
		return "Renamed", "ed-file-renamed"
	}
	return "", ""
}

// FileMeta is the line-count suffix, shown for modified files only.
func FileMeta(f feed.FileChange) string {
	if f.Status != feed.StatusModified {
		return ""
	}
	return fmt.Sprintf("(+%d, -%d)", f.Additions, f.Deletions)
}

package view

import (
	"html/template"
	"time"

	"github.com/webframp/docstracker/feed"
)

// Row is one rendered table row plus its detail section.
type Row struct {
	SHA         string
	Date        string
	Summary     template.HTML
	SummaryText string
	HasSummary  bool
	Expanded    bool
	Author      string
	URL         string
	Files       []FileLine
}

// FileLine is one entry of a row's changed-files list.
type FileLine struct {
	Name  string
	Label string
	Class string
	Meta  string
}

// Rows builds the rows for the given, already filtered, records using the
// expand state in s.
func Rows(s State, visible []feed.ChangeRecord, loc *time.Location) []Row {
	rows := make([]Row, len(visible))
	for i, c := range visible {
		rows[i] = NewRow(c, IsExpanded(s, c.SHA), loc)
	}
	return rows
}

// NewRow renders a single record.
func NewRow(c feed.ChangeRecord, expanded bool, loc *time.Location) Row {
	row := Row{
		SHA:        c.SHA,
		Date:       DisplayDate(c, loc),
		HasSummary: c.Summary.Present,
		Expanded:   expanded,
		Author:     c.Author,
		URL:        c.URL,
	}
	if c.Summary.Present {
		row.Summary = RenderMarkdown(c.Summary.Text)
		row.SummaryText = PlainText(c.Summary.Text)
	} else {
		row.Summary = template.HTML(NoSummary)
		row.SummaryText = NoSummary
	}
	for _, f := range c.Files {
		label, class := FileLabel(f.Status)
		row.Files = append(row.Files, FileLine{
			Name:  f.Filename,
			Label: label,
			Class: class,
			Meta:  FileMeta(f),
		})
	}
	return row
}

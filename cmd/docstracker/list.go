package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/webframp/docstracker/feed"
	"github.com/webframp/docstracker/view"
)

var listExpand bool

var listCmd = &cobra.Command{
	Use:   "list [term...]",
	Short: "List changes, most recent first",
	Long: `List changes, most recent first, optionally filtered by a search term
matched against summaries, authors, filenames and dates.

Examples:
  docstracker list
  docstracker list typo
  docstracker list --expand "getting started"`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&listExpand, "expand", false, "show author, commit link and changed files")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	loc := cfg.Location()
	term := strings.Join(args, " ")

	changes := feed.NewLoader(cfg.FeedSource).Fetch(cmd.Context())
	visible := view.Filter(changes, term, loc)
	printChanges(cmd.OutOrStdout(), visible, len(changes), term, listExpand, loc)
	return nil
}

func printChanges(w io.Writer, visible []feed.ChangeRecord, total int, term string, expand bool, loc *time.Location) {
	if len(visible) == 0 {
		if strings.TrimSpace(term) != "" {
			fmt.Fprintf(w, "No changes match %q\n", term)
		} else {
			fmt.Fprintln(w, "No changes found")
		}
		return
	}

	fmt.Fprintf(w, "Showing %d of %d changes:\n\n", len(visible), total)
	for _, c := range visible {
		row := view.NewRow(c, expand, loc)
		fmt.Fprintf(w, "  %-22s  %s\n", row.Date, row.SummaryText)
		if !row.Expanded {
			continue
		}
		fmt.Fprintf(w, "    Author:  %s\n", row.Author)
		fmt.Fprintf(w, "    Commit:  %s\n", row.URL)
		if len(row.Files) > 0 {
			fmt.Fprintln(w, "    Changed Files:")
			for _, f := range row.Files {
				line := strings.TrimSpace(strings.Join([]string{f.Label, f.Name, f.Meta}, " "))
				fmt.Fprintf(w, "      %s\n", line)
			}
		}
		fmt.Fprintln(w)
	}
}

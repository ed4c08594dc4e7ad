package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/webframp/docstracker/feed"
	"github.com/webframp/docstracker/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse changes in an interactive terminal view",
	Long: `Browse changes in an interactive terminal view.

Type to search, up/down to move, enter to expand a row, esc to clear the
search, ctrl+r to reload and ctrl+c (or q on an empty search) to quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Log lines would tear the alternate screen.
		if !flagVerbose {
			slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		}
		cfg := loadConfig()
		return tui.Run(feed.NewLoader(cfg.FeedSource), cfg.Location())
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

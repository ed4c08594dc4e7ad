package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/webframp/docstracker/srv"
)

var (
	flagFeed     string
	flagTimezone string
	flagVerbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "docstracker",
	Short: "Browse recent documentation changes and their AI summaries",
	Long: `docstracker loads a changes.json feed of documentation commits and
presents it as a searchable, expandable table:
  - serve   the web page and JSON API
  - list    a plain listing on stdout
  - browse  an interactive terminal browser

The feed source and timezone default to FEED_SOURCE and FEED_TIMEZONE.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if flagVerbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagFeed, "feed", "", "changes.json URL or path (default $FEED_SOURCE or public/changes.json)")
	rootCmd.PersistentFlags().StringVar(&flagTimezone, "timezone", "", "IANA timezone for dates (default $FEED_TIMEZONE or UTC)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
}

// loadConfig reads the environment and applies the persistent flags.
func loadConfig() srv.Config {
	cfg := srv.ConfigFromEnv()
	if flagFeed != "" {
		cfg.FeedSource = flagFeed
	}
	if flagTimezone != "" {
		cfg.Timezone = flagTimezone
	}
	return cfg
}

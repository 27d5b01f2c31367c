// Package app provides the commands of the stac-query CLI.
package app

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/stacklok/stac-query/internal/versions"
)

type rootOptions struct {
	level *zap.AtomicLevel
}

// RootOption configures the root command
type RootOption func(*rootOptions)

// WithLogLevel lets --debug raise the level of the process logger
func WithLogLevel(level zap.AtomicLevel) RootOption {
	return func(o *rootOptions) {
		o.level = &level
	}
}

// NewRootCmd creates a new root command for stac-query.
func NewRootCmd(opts ...RootOption) *cobra.Command {
	o := &rootOptions{}
	for _, opt := range opts {
		opt(o)
	}

	rootCmd := &cobra.Command{
		Use:               "stac-query",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		Short:             "Query STAC catalogs for point cloud items",
		Long: `stac-query walks STAC catalog pages, following their "next" links, and prints the
items that pass the configured filters together with the reader driver and options
needed to open each item's data asset.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug && o.level != nil {
				o.level.SetLevel(zapcore.DebugLevel)
			}
		},
		Run: func(cmd *cobra.Command, _ []string) {
			// If no subcommand is provided, print help
			if err := cmd.Help(); err != nil {
				slog.Error("Error displaying help", "error", err)
			}
		},
	}

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := versions.GetVersionInfo()
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to read format flag: %w", err)
			}

			if format == "json" {
				output, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to format version info as JSON: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(output))
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "stac-query %s (commit %s, built %s, %s, %s)\n",
				info.Version, info.Commit, info.BuildDate, info.GoVersion, info.Platform)
			return nil
		},
	}
	versionCmd.Flags().String("format", "", "Output format (json)")
	return versionCmd
}

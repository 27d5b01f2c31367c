package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stacklok/stac-query/internal/query"
)

func newValidateCmd() *cobra.Command {
	validateCmd := &cobra.Command{
		Use:   "validate [root...]",
		Short: "Check a query without fetching any catalog",
		Long: `Validate loads the query file and flags, then compiles the filters the same way
run does. Nothing is fetched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadQueryConfig(cmd, args)
			if err != nil {
				return err
			}
			if _, err := query.New(cfg); err != nil {
				return fmt.Errorf("invalid query: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "query is valid (%d roots)\n", len(cfg.Roots))
			return nil
		},
	}
	addQueryFlags(validateCmd.Flags())
	return validateCmd
}

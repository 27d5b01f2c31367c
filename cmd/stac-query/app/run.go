package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/stacklok/stac-query/internal/query"
	"github.com/stacklok/stac-query/internal/telemetry"
	"github.com/stacklok/stac-query/internal/versions"
)

const telemetryShutdownTimeout = 5 * time.Second

func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run [root...]",
		Short: "Run a query against one or more root catalogs",
		Long: `Run a query against one or more root catalog pages.

Roots are given as arguments or in the roots list of the query file (--config).
Every root is traversed depth-first through its "next" links; the accepted items
of all roots are printed in argument order.`,
		RunE: runQuery,
	}
	addQueryFlags(runCmd.Flags())
	runCmd.Flags().String("format", formatJSON, "Output format (json or table)")
	return runCmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := logr.FromContextOrDiscard(ctx)

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to read format flag: %w", err)
	}
	if !slices.Contains(outputFormats, format) {
		return fmt.Errorf("unsupported output format %q", format)
	}

	cfg, err := loadQueryConfig(cmd, args)
	if err != nil {
		return err
	}
	if len(cfg.Roots) == 0 {
		return errors.New("no root catalogs given")
	}

	tel, err := telemetry.New(ctx,
		telemetry.WithTelemetryConfig(cfg.Telemetry),
		telemetry.WithServiceVersion(versions.Version),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), telemetryShutdownTimeout)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Telemetry shutdown failed", "error", err)
		}
	}()

	metrics, err := telemetry.NewQueryMetrics(tel.MeterProvider())
	if err != nil {
		return fmt.Errorf("failed to create query metrics: %w", err)
	}

	engine, err := query.New(cfg, query.WithTracer(tel.Tracer()), query.WithMetrics(metrics))
	if err != nil {
		return fmt.Errorf("invalid query: %w", err)
	}

	logger.Info("Running query", "roots", len(cfg.Roots))
	perRoot, err := engine.RunAll(ctx, cfg.Roots)
	if err != nil {
		return err
	}

	var results []query.Result
	for _, r := range perRoot {
		results = append(results, r...)
	}
	logger.Info("Query finished", "results", len(results))

	return writeResults(cmd.OutOrStdout(), format, results)
}

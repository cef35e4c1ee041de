package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"catalog-sync/core/config"
	"catalog-sync/core/logger"
	"catalog-sync/core/reconcile"
	"catalog-sync/feature/runs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	feedPath   string
	dryRun     bool
	yesConfirm bool
)

// reconcileCmd is the parent command for all reconcile operations.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile the Shopify catalog with the vendor feed",
	Long: `Fetch the full Shopify catalog, read the vendor feed and push the
differences as inventory adjustments or price updates.`,
}

var inventoryReconcileCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Reconcile stock quantities",
	Long: `Adjust available stock at the configured location so that every variant
matches the vendor quantity for its SKU.

Examples:
  # Report what would change
  reconcile inventory --dry-run

  # Use a feed already on disk and skip the prompt
  reconcile inventory --feed data/TOTAL.TXT --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReconcile(reconcile.ModeInventory)
	},
}

var pricesReconcileCmd = &cobra.Command{
	Use:   "prices",
	Short: "Reconcile retail prices",
	Long: `Set every variant's price to the vendor price times the margin factor.

Examples:
  reconcile prices --dry-run
  reconcile prices --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReconcile(reconcile.ModePrice)
	},
}

func init() {
	for _, c := range []*cobra.Command{inventoryReconcileCmd, pricesReconcileCmd} {
		c.Flags().StringVar(&feedPath, "feed", "", "Local feed file (skips the vendor transfer)")
		c.Flags().BoolVar(&dryRun, "dry-run", false, "Compute changes without sending them")
		c.Flags().BoolVar(&yesConfirm, "yes", false, "Do not ask for confirmation (non-interactive)")
		reconcileCmd.AddCommand(c)
	}
	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(mode reconcile.Mode) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	if !dryRun && !confirm(fmt.Sprintf("This will push %s changes to %s.", mode, cfg.Shopify.AdminURL())) {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	app, err := setup(ctx, cfg, l)
	if err != nil {
		return err
	}

	l.Info("Starting reconciliation", zap.String("mode", string(mode)), zap.Bool("dry_run", dryRun))
	report, err := app.service.Run(ctx, mode, runs.Options{FeedPath: feedPath, DryRun: dryRun})
	if err != nil {
		return fmt.Errorf("%s reconciliation failed: %w", mode, err)
	}

	printRunReport(l, report)
	return nil
}

// printRunReport logs the counters of a finished run.
func printRunReport(l *zap.Logger, r *reconcile.RunReport) {
	l.Info("Reconciliation report",
		zap.String("run_id", r.RunID),
		zap.String("status", r.Status),
		zap.Bool("dry_run", r.DryRun),
		zap.Int("pages", r.Pages),
		zap.Int("variants", r.Variants),
		zap.Bool("catalog_complete", r.CatalogComplete),
		zap.Int("rows_read", r.RowsRead),
		zap.Int("rows_skipped", r.RowsSkipped),
		zap.Int("rows_unmatched", r.RowsUnmatched),
		zap.Int("ineligible", r.Ineligible),
		zap.Int("mutations", r.Mutations),
		zap.Int("chunks", r.Chunks),
		zap.Int("dispatched", r.Dispatched),
		zap.Int("failed", r.Failed),
		zap.Int("retries", r.Retries),
		zap.Duration("duration", r.Duration()),
	)
	if r.FetchError != "" {
		l.Warn("Catalog was only partially fetched", zap.String("error", r.FetchError))
	}
}

// confirm prompts the user for confirmation or uses the --yes flag.
func confirm(what string) bool {
	if yesConfirm {
		return true
	}

	fmt.Printf("\n%s Type 'yes' to continue: ", what)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}

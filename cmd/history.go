package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"catalog-sync/core/config"
	"catalog-sync/core/database"
	"catalog-sync/core/history"
	"catalog-sync/core/logger"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var (
	historyMode  string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent reconciliation runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyMode, "mode", "", "Only show inventory or prices runs")
	historyCmd.Flags().IntVar(&historyLimit, "limit", history.DefaultLimit, "Number of runs to show")
	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	if !cfg.Database.Enabled {
		return history.ErrDisabled
	}
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	records, err := history.NewRepository(db).Recent(context.Background(), historyMode, historyLimit)
	if err != nil {
		return err
	}

	return renderRuns(os.Stdout, records)
}

// renderRuns writes records as a table, newest first as returned by the repository.
func renderRuns(w io.Writer, records []history.RunRecord) error {
	left, right := tw.AlignLeft, tw.AlignRight
	config := tablewriter.Config{}
	config.Header.Alignment = tw.CellAlignment{PerColumn: []tw.Align{left, left, left, left, right, right, right, right, right}}
	config.Row.Alignment = config.Header.Alignment

	table := tablewriter.NewTable(w, tablewriter.WithConfig(config))
	table.Header("Run ID", "Mode", "Status", "Started", "Duration", "Rows", "Mutations", "Dispatched", "Failed")

	for _, r := range records {
		mode := r.Mode
		if r.DryRun {
			mode += " (dry)"
		}
		err := table.Append(
			r.RunID, mode, r.Status,
			r.StartedAt.Local().Format(time.DateTime),
			r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String(),
			strconv.Itoa(r.RowsRead), strconv.Itoa(r.Mutations),
			strconv.Itoa(r.Dispatched), strconv.Itoa(r.Failed),
		)
		if err != nil {
			return err
		}
	}
	return table.Render()
}

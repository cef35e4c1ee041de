package history

import (
	"time"

	"catalog-sync/core/reconcile"
)

// RunRecord is one row of the sync_runs table.
type RunRecord struct {
	ID              uint      `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	RunID           string    `gorm:"column:run_id;size:36;uniqueIndex" json:"run_id"`
	Mode            string    `gorm:"column:mode;size:16;index" json:"mode"`
	DryRun          bool      `gorm:"column:dry_run" json:"dry_run"`
	Status          string    `gorm:"column:status;size:16" json:"status"`
	StartedAt       time.Time `gorm:"column:started_at;index" json:"started_at"`
	FinishedAt      time.Time `gorm:"column:finished_at" json:"finished_at"`
	Pages           int       `gorm:"column:pages" json:"pages"`
	Products        int       `gorm:"column:products" json:"products"`
	Variants        int       `gorm:"column:variants" json:"variants"`
	CatalogComplete bool      `gorm:"column:catalog_complete" json:"catalog_complete"`
	FetchError      string    `gorm:"column:fetch_error;size:1024" json:"fetch_error,omitempty"`
	RowsRead        int       `gorm:"column:rows_read" json:"rows_read"`
	RowsSkipped     int       `gorm:"column:rows_skipped" json:"rows_skipped"`
	RowsUnmatched   int       `gorm:"column:rows_unmatched" json:"rows_unmatched"`
	Mutations       int       `gorm:"column:mutations" json:"mutations"`
	Dispatched      int       `gorm:"column:dispatched" json:"dispatched"`
	Failed          int       `gorm:"column:failed" json:"failed"`
	Retries         int       `gorm:"column:retries" json:"retries"`
}

// TableName overrides the table name.
func (RunRecord) TableName() string {
	return "sync_runs"
}

// Columns lists the columns a usable sync_runs table must have.
var Columns = []string{
	"id", "run_id", "mode", "dry_run", "status", "started_at", "finished_at",
	"pages", "products", "variants", "catalog_complete", "fetch_error",
	"rows_read", "rows_skipped", "rows_unmatched", "mutations",
	"dispatched", "failed", "retries",
}

// FromReport flattens a run report into a record.
func FromReport(r *reconcile.RunReport) RunRecord {
	return RunRecord{
		RunID:           r.RunID,
		Mode:            string(r.Mode),
		DryRun:          r.DryRun,
		Status:          r.Status,
		StartedAt:       r.StartedAt,
		FinishedAt:      r.FinishedAt,
		Pages:           r.Pages,
		Products:        r.Products,
		Variants:        r.Variants,
		CatalogComplete: r.CatalogComplete,
		FetchError:      truncate(r.FetchError, 1024),
		RowsRead:        r.RowsRead,
		RowsSkipped:     r.RowsSkipped,
		RowsUnmatched:   r.RowsUnmatched,
		Mutations:       r.Mutations,
		Dispatched:      r.Dispatched,
		Failed:          r.Failed,
		Retries:         r.Retries,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

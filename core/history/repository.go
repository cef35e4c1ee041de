package history

import (
	"context"
	"errors"
	"fmt"

	"catalog-sync/core/reconcile"

	"gorm.io/gorm"
)

// DefaultLimit is used by Recent when no positive limit is given.
const DefaultLimit = 20

// ErrDisabled is returned by a repository without a database.
var ErrDisabled = errors.New("run history is disabled")

// Repository persists run reports.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository. A nil db yields a disabled repository
// whose Save is a no-op.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Enabled reports whether a database is attached.
func (r *Repository) Enabled() bool {
	return r != nil && r.db != nil
}

// Migrate creates or updates the sync_runs table.
func (r *Repository) Migrate() error {
	if !r.Enabled() {
		return nil
	}
	if err := r.db.AutoMigrate(&RunRecord{}); err != nil {
		return fmt.Errorf("failed to migrate sync_runs: %w", err)
	}
	return nil
}

// Save stores the report.
func (r *Repository) Save(ctx context.Context, report *reconcile.RunReport) error {
	if !r.Enabled() {
		return nil
	}
	rec := FromReport(report)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to save run %s: %w", report.RunID, err)
	}
	return nil
}

// Recent returns the latest runs, newest first, optionally filtered by mode.
func (r *Repository) Recent(ctx context.Context, mode string, limit int) ([]RunRecord, error) {
	if !r.Enabled() {
		return nil, ErrDisabled
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	q := r.db.WithContext(ctx).Order("started_at DESC").Limit(limit)
	if mode != "" {
		q = q.Where("mode = ?", mode)
	}

	var records []RunRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return records, nil
}

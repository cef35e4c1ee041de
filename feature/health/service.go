package health

import (
	"context"
	"fmt"

	"catalog-sync/core/database"
	"catalog-sync/core/history"
	"catalog-sync/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Component and report states.
const (
	StatusOK       = "ok"
	StatusDisabled = "disabled"
	StatusError    = "error"
	StatusDegraded = "degraded"
)

// Component is the state of one dependency.
type Component struct {
	Status  string   `json:"status"`
	Error   string   `json:"error,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

// Report is the combined health of the service.
type Report struct {
	Status   string    `json:"status"`
	Storage  Component `json:"storage"`
	Database Component `json:"database"`
}

// Healthy reports whether no enabled component is failing.
func (r Report) Healthy() bool {
	return r.Status == StatusOK
}

// Service checks the dependencies a run relies on.
type Service struct {
	client storage.Client
	bucket string
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a health service. client and db may be nil when the
// corresponding component is disabled.
func NewService(client storage.Client, bucket string, db *gorm.DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, bucket: bucket, db: db, logger: logger}
}

// Check probes every component.
func (s *Service) Check(ctx context.Context) Report {
	report := Report{
		Storage:  s.checkStorage(ctx),
		Database: s.checkDatabase(ctx),
	}
	report.Status = StatusOK
	if report.Storage.Status == StatusError || report.Database.Status == StatusError {
		report.Status = StatusDegraded
	}
	return report
}

func (s *Service) checkStorage(ctx context.Context) Component {
	if s.client == nil {
		return Component{Status: StatusDisabled}
	}
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return Component{Status: StatusError, Error: err.Error()}
	}
	if !exists {
		return Component{Status: StatusError, Error: fmt.Sprintf("bucket %s does not exist", s.bucket)}
	}
	return Component{Status: StatusOK}
}

func (s *Service) checkDatabase(ctx context.Context) Component {
	if s.db == nil {
		return Component{Status: StatusDisabled}
	}
	if err := database.Ping(ctx, s.db); err != nil {
		return Component{Status: StatusError, Error: err.Error()}
	}
	missing, err := database.MissingColumns(s.db, history.RunRecord{}.TableName(), history.Columns)
	if err != nil {
		return Component{Status: StatusError, Error: err.Error()}
	}
	if len(missing) > 0 {
		return Component{Status: StatusError, Error: "sync_runs schema is incomplete", Missing: missing}
	}
	return Component{Status: StatusOK}
}

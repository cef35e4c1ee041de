package runs

import (
	"context"
	"errors"
	"fmt"
	"path"

	"catalog-sync/core/history"
	"catalog-sync/core/logger"
	"catalog-sync/core/reconcile"
	"catalog-sync/core/storage"
	"catalog-sync/core/transfer"
	"catalog-sync/feature/inventory"
	"catalog-sync/feature/pricing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Options tune a single run.
type Options struct {
	// FeedPath is a local feed file. When set the vendor transfer is skipped.
	FeedPath string
	// DryRun computes and counts mutations without sending them.
	DryRun bool
}

// Deps are the collaborators of the service. Source, History and Store may be
// nil: runs then require Options.FeedPath, keep no ledger, or archive nothing.
type Deps struct {
	Catalog   reconcile.CatalogSource
	Inventory reconcile.InventoryMutator
	Prices    reconcile.PriceMutator
	PageSize  int

	Source transfer.Source
	Vendor transfer.Config
	Sync   reconcile.Config

	History      *history.Repository
	Store        storage.Client
	Bucket       string
	ReportPrefix string

	Logger *zap.Logger
}

// Service runs reconciliations end to end: retrieve the feed, reconcile,
// record the outcome.
type Service struct {
	deps   Deps
	logger *zap.Logger
	group  singleflight.Group
	newID  func() string
}

// NewService creates a runs service.
func NewService(deps Deps) *Service {
	l := deps.Logger
	if l == nil {
		l = zap.NewNop()
	}
	if deps.History == nil {
		deps.History = history.NewRepository(nil)
	}
	return &Service{deps: deps, logger: l, newID: uuid.NewString}
}

// Run executes one reconciliation for mode. Concurrent calls with the same
// mode and options share a single execution and its report.
func (s *Service) Run(ctx context.Context, mode reconcile.Mode, opts Options) (*reconcile.RunReport, error) {
	key := fmt.Sprintf("%s|%t|%s", mode, opts.DryRun, opts.FeedPath)
	v, err, shared := s.group.Do(key, func() (any, error) {
		return s.run(ctx, mode, opts)
	})
	if shared {
		s.logger.Info("Joined an in-flight run", zap.String("mode", string(mode)))
	}
	if err != nil {
		return nil, err
	}
	return v.(*reconcile.RunReport), nil
}

func (s *Service) run(ctx context.Context, mode reconcile.Mode, opts Options) (*reconcile.RunReport, error) {
	runID := s.newID()
	l := logger.WithRun(s.logger, runID, string(mode))

	adapter, job, err := s.adapterFor(mode)
	if err != nil {
		return nil, err
	}
	feedOpts, err := s.deps.Sync.FeedOptions()
	if err != nil {
		return nil, err
	}

	feedPath := opts.FeedPath
	if feedPath == "" {
		if s.deps.Source == nil {
			return nil, fmt.Errorf("no vendor source configured and no feed path given")
		}
		l.Info("Retrieving vendor feed", zap.String("remote", job.RemotePath))
		feedPath, err = transfer.Retrieve(ctx, s.deps.Source, job, feedOpts.Delimiter, l)
		if err != nil {
			l.Error("Vendor feed retrieval failed", zap.Error(err))
			return nil, err
		}
	}

	dispatcher := reconcile.NewDispatcher(s.deps.Sync.Dispatch(opts.DryRun), s.deps.Inventory, s.deps.Prices, l)
	report, err := reconcile.Run(ctx, &reconcile.Spec{
		RunID:      runID,
		Adapter:    adapter,
		Catalog:    s.deps.Catalog,
		PageSize:   s.deps.PageSize,
		FeedPath:   feedPath,
		Feed:       feedOpts,
		Dispatcher: dispatcher,
		DryRun:     opts.DryRun,
		Logger:     l,
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, l, report)
	return report, nil
}

// record stores the report in the ledger and the object store. Failures are
// logged only: the run itself already happened.
func (s *Service) record(ctx context.Context, l *zap.Logger, report *reconcile.RunReport) {
	if err := s.deps.History.Save(ctx, report); err != nil {
		l.Warn("Failed to save run history", zap.Error(err))
	}

	if s.deps.Store == nil {
		return
	}
	object := ReportObject(s.deps.ReportPrefix, report)
	if err := storage.PutJSON(ctx, s.deps.Store, s.deps.Bucket, object, report); err != nil {
		l.Warn("Failed to archive run report", zap.String("object", object), zap.Error(err))
		return
	}
	l.Info("Run report archived", zap.String("object", object))
}

func (s *Service) adapterFor(mode reconcile.Mode) (reconcile.Adapter, transfer.Job, error) {
	switch mode {
	case reconcile.ModeInventory:
		if s.deps.Sync.LocationID == "" {
			return nil, transfer.Job{}, fmt.Errorf("sync.location_id is required for inventory runs")
		}
		return inventory.NewAdapter(s.deps.Sync.LocationID), s.deps.Vendor.InventoryJob(), nil
	case reconcile.ModePrice:
		margin, err := s.deps.Sync.Margin()
		if err != nil {
			return nil, transfer.Job{}, err
		}
		return pricing.NewAdapter(margin), s.deps.Vendor.PriceJob(), nil
	default:
		return nil, transfer.Job{}, fmt.Errorf("unknown mode %q", mode)
	}
}

// Recent lists the latest recorded runs.
func (s *Service) Recent(ctx context.Context, mode string, limit int) ([]history.RunRecord, error) {
	return s.deps.History.Recent(ctx, mode, limit)
}

// ReportObject returns the object name a report is archived under.
func ReportObject(prefix string, report *reconcile.RunReport) string {
	return path.Join(prefix, string(report.Mode), report.RunID+".json")
}

// IsTransferError reports whether err came from retrieving the vendor feed.
func IsTransferError(err error) bool {
	var terr *transfer.TransferError
	return errors.As(err, &terr)
}

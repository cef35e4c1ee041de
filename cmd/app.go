package cmd

import (
	"context"
	"fmt"

	"catalog-sync/core/config"
	"catalog-sync/core/database"
	"catalog-sync/core/history"
	"catalog-sync/core/shopify"
	"catalog-sync/core/storage"
	"catalog-sync/core/transfer"
	"catalog-sync/feature/runs"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// components are the long-lived dependencies shared by the commands.
type components struct {
	db      *gorm.DB
	store   storage.Client
	history *history.Repository
	service *runs.Service
}

// setup wires configuration into components. The database and the object store
// are optional: a failure to reach them is logged and the feature is turned off.
func setup(ctx context.Context, cfg *config.Config, l *zap.Logger) (*components, error) {
	c := &components{}

	if cfg.Database.Enabled {
		if conn, err := database.Connect(cfg.Database); err != nil {
			l.Warn("Optional database connection failed, run history disabled", zap.Error(err))
		} else {
			c.db = conn
			l.Info("Connected to history database", zap.String("driver", cfg.Database.Driver))
		}
	}
	c.history = history.NewRepository(c.db)
	if err := c.history.Migrate(); err != nil {
		l.Warn("Run history migration failed", zap.Error(err))
	}

	if cfg.Storage.Enabled {
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		if err := storage.EnsureBucket(ctx, store, cfg.Storage.Bucket); err != nil {
			l.Warn("Storage bucket unavailable, report archiving disabled", zap.Error(err))
		} else {
			c.store = store
		}
	}

	shop, err := shopify.NewClient(&cfg.Shopify, l)
	if err != nil {
		return nil, fmt.Errorf("invalid shopify configuration: %w", err)
	}

	var source transfer.Source
	if cfg.Vendor.Protocol != transfer.ProtocolS3 || c.store != nil {
		source, err = transfer.NewSource(&cfg.Vendor, c.store, cfg.Storage.Bucket, l)
		if err != nil {
			return nil, fmt.Errorf("invalid vendor configuration: %w", err)
		}
	} else {
		l.Warn("Vendor protocol s3 needs storage, only --feed runs are possible")
	}

	c.service = runs.NewService(runs.Deps{
		Catalog:      shop,
		Inventory:    shop,
		Prices:       shop,
		PageSize:     shop.PageSize(),
		Source:       source,
		Vendor:       cfg.Vendor,
		Sync:         cfg.Sync,
		History:      c.history,
		Store:        c.store,
		Bucket:       cfg.Storage.Bucket,
		ReportPrefix: cfg.Storage.ReportPrefix,
		Logger:       l,
	})
	return c, nil
}

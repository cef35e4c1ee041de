// Package database handles the optional run history database connection.
//
// It wraps GORM to configure MySQL (production) or SQLite (local runs and tests)
// connections from the application's configuration.
//
// # Connect
//
// Connect establishes the connection and verifies it with a ping bounded by the
// configured timeout. A sync run never requires the database; callers log the
// failure and continue without a history ledger.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let the health check confirm that the
// sync_runs table carries the columns the history repository writes.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logg.Warn("history disabled", zap.Error(err))
//	}
package database

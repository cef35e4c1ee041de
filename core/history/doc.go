// Package history keeps a ledger of reconciliation runs in the sync_runs table.
//
// The ledger is optional. A Repository built without a database accepts Save
// calls and discards them, so runs never depend on the database being up.
package history

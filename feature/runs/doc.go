// Package runs orchestrates reconciliation runs and exposes them over HTTP.
//
// A run retrieves the vendor feed for its mode, reconciles it against the
// catalog, then records the report in the run history and archives it as JSON
// in the object store under {report_prefix}/{mode}/{run_id}.json.
//
// # HTTP Endpoints
//
//   - GET /runs : Recent runs (supports ?mode= and ?limit=).
//   - POST /runs/:mode : Run inventory or prices now (supports ?dry_run=true).
package runs

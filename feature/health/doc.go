// Package health reports whether the service's dependencies are usable.
//
// # Checks Provided
//
//   - Storage: the configured bucket exists and is reachable.
//   - Database: the history database answers a ping and the sync_runs table
//     has every expected column.
//
// Disabled components are reported as such and do not fail the check.
//
// # HTTP Endpoints
//
//   - GET /health : 200 when healthy, 503 otherwise.
package health

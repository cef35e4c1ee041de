// Package transfer retrieves vendor feed files and prepares them for the
// reconciliation engine.
//
// A Source copies one remote file to local disk: SFTPSource from the vendor
// host, ObjectSource from the object store, LocalSource from a directory that
// is already populated. Retrieve chains a Source with archive extraction and
// an optional column Projection, returning a path the feed reader can open.
//
// Any failure is reported as a *TransferError and aborts the run.
package transfer

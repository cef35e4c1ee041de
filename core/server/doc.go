// Package server holds the HTTP server configuration.
//
// While the start command handles the server startup, this package defines the
// configuration structure for the status API: listen port, the API key that
// protects every route, and whether runs may be triggered over HTTP.
//
// # Usage
//
// This package is embedded by core/config and read by cmd/start.go.
package server

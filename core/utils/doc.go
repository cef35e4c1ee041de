// Package utils provides small parsing helpers shared by HTTP handlers and
// CLI commands, mostly for lenient query string and flag values.
package utils

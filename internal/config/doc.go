// Package config loads, merges, and validates configuration for the zpass
// server and client binaries.
//
// Configuration is assembled from multiple sources in priority order (later
// sources never override non-zero fields from earlier ones):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file (path taken from sources 1 and 2)
//
// The entry points are [GetStructuredConfig] for the server and
// [GetClientConfig] for the client-specific view.
package config

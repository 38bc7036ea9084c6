// Package server runs the zpass HTTP transport: startup, signal handling,
// and graceful shutdown.
package server

// Package http implements the HTTP transport layer of the zpass server.
//
// It exposes route wiring, request handlers, and middleware for the REST
// API. Cross-cutting concerns — authentication, request tracing, access
// logging, and response compression — are handled in this package before
// requests reach the service layer. Vault contents cross this layer only as
// opaque ciphertext.
package http

// SPDX-License-Identifier: Apache-2.0

// Package client assembles the client-side runtime of zpass.
//
// It wires the server adapter, the local ciphertext cache, the credential
// store, and the session/sync/autolock services into one App, the surface a
// frontend drives. The package deliberately contains no user interface: it
// ends where rendering and input begin.
package client

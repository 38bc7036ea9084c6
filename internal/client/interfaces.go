// SPDX-License-Identifier: Apache-2.0

package client

import "context"

// Runner is the lifecycle contract of the client runtime: Run blocks until
// the context is cancelled and tears the runtime down before returning.
type Runner interface {
	Run(ctx context.Context) error
}

var _ Runner = (*App)(nil)

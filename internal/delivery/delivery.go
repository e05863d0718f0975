// Package delivery defines the contract every transport entrypoint fulfills.
package delivery

import "context"

// Delivery is a long-running transport (an HTTP server, a worker loop) that
// serves until its context is cancelled.
type Delivery interface {
	Serve(ctx context.Context) error
}

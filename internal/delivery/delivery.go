// Package delivery defines the transports that expose the application to clients.
package delivery

import "context"

// Delivery is a long-running server started by the application lifecycle.
type Delivery interface {
	Serve(ctx context.Context) error
}

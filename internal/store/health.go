package store

import "context"

// HealthPinger is implemented by stores that can verify connectivity to their
// backing database. Probes run on demand from the health endpoint; there is no
// background checking.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}

package search

import (
	"context"
	"sync/atomic"
)

// Availability tracks whether query traffic should go to the hosted index or
// to the database's native search. It is refreshed by explicit probes, not on
// a timer; a race between a probe and an in-flight query only changes which
// path that query takes, so no further synchronization is needed.
type Availability struct {
	gateway Gateway
	up      atomic.Bool
}

// NewAvailability probes the gateway once and remembers the outcome.
func NewAvailability(ctx context.Context, gw Gateway) *Availability {
	a := &Availability{gateway: gw}
	a.Refresh(ctx)
	return a
}

// Enabled reports the last-known availability of the search index.
func (a *Availability) Enabled() bool {
	return a.up.Load()
}

// Refresh re-probes the index health and updates the routing decision.
func (a *Availability) Refresh(ctx context.Context) bool {
	ok := a.gateway.Health(ctx)
	a.up.Store(ok)
	return ok
}

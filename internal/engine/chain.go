package engine

import (
	"context"
	"sync/atomic"
	"time"
)

// Chain is the marketplace's clock: a monotonically increasing block
// height. All expiry predicates (offer expiry, auction end) compare
// against it; wall-clock time is never consulted. In production the
// height advances on a ticker; tests advance it manually.
type Chain struct {
	height   atomic.Uint64
	interval time.Duration
}

// NewChain creates a Chain at height zero that advances one block per
// interval once started.
func NewChain(interval time.Duration) *Chain {
	return &Chain{interval: interval}
}

// Height returns the current block height.
func (c *Chain) Height() uint64 {
	return c.height.Load()
}

// Advance moves the height forward by n blocks and returns the new
// height. Heights never go backwards.
func (c *Chain) Advance(n uint64) uint64 {
	return c.height.Add(n)
}

// Start runs the block ticker until the context is cancelled.
// Intended to be called in a goroutine.
func (c *Chain) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.height.Add(1)
		}
	}
}

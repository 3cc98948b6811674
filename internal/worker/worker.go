package worker

import (
	"context"
	"time"

	"hypersonic/internal/logger"
)

// Ticker is sampled on every tick.
type Ticker interface {
	Tick(ctx context.Context)
}

// Run ticks t once immediately and then every interval until ctx is done.
func Run(ctx context.Context, t Ticker, interval time.Duration) {
	logger.Info("Lifecycle worker started", "interval", interval)
	t.Tick(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Lifecycle worker stopped")
			return
		case <-ticker.C:
			t.Tick(ctx)
		}
	}
}

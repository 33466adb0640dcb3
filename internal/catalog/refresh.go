package catalog

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RunRefreshLoop refreshes the cache once, then every interval until ctx is done.
// Call from a goroutine. A non-positive interval returns immediately.
func RunRefreshLoop(ctx context.Context, cache *Cache, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	refresh := func() {
		n, err := cache.Refresh(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logger.Warn("Catalog refresh failed", zap.Error(err))
			}
			return
		}
		logger.Debug("Catalog refreshed", zap.Int("families", n))
	}

	refresh()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}

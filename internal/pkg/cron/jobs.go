package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/service/cache"
)

// Warmer is satisfied by *cache.Cache.
type Warmer interface {
	Get(ctx context.Context) (cache.Snapshot, error)
}

// RegisterCacheWarmer keeps the data cache filled so the first calendar view after
// a quiet period does not wait on three table fetches. It only helps when the
// cache TTL is longer than interval.
func RegisterCacheWarmer(s *Scheduler, c Warmer, interval, timeout time.Duration) {
	s.AddJob("warm_data_cache", interval, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		snap, err := c.Get(ctx)
		if err != nil {
			return fmt.Errorf("warm data cache: %w", err)
		}
		if snap.FetchedAt.IsZero() {
			return fmt.Errorf("warm data cache: no snapshot loaded")
		}
		return nil
	})
}

package smoke

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/okian/shoresquad/pkg/logger"
)

// submitJoins posts cfg.Joins joins for eventID with cfg.Workers workers.
func submitJoins(ctx context.Context, c *client, cfg *Config, eventID string, stats *Stats) {
	logger.Get().Info(ctx, "submitting joins",
		logger.String("event_id", eventID),
		logger.Int("joins", cfg.Joins),
		logger.Int("workers", cfg.Workers))

	var successful, failed int64

	jobs := make(chan struct{}, cfg.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				if ctx.Err() != nil {
					atomic.AddInt64(&failed, 1)
					continue
				}
				status, err := c.join(ctx, eventID)
				if err != nil || status != http.StatusOK {
					atomic.AddInt64(&failed, 1)
					logger.Get().Debug(ctx, "join failed", logger.Int("status", status), logger.Error(err))
					continue
				}
				atomic.AddInt64(&successful, 1)
			}
		}()
	}

	for i := 0; i < cfg.Joins; i++ {
		jobs <- struct{}{}
	}
	close(jobs)
	wg.Wait()

	stats.JoinsSubmitted = cfg.Joins
	stats.JoinsSuccessful = int(successful)
	stats.JoinsFailed = int(failed)
}

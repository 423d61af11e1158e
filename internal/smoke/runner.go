// Package smoke exercises a running page service over HTTP: it posts
// concurrent joins and checks that every one was counted.
package smoke

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/shoresquad/pkg/logger"
)

// Run executes the complete smoke run.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	applyDefaults(cfg)
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting shoresquad smoke run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("joins", cfg.Joins),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout))

	c := newClient(cfg.BaseURL, cfg.Timeout)

	// Step 1: service health
	if err := c.health(ctx); err != nil {
		return stats, err
	}

	// Step 2: pick the event and its starting count
	target, err := pickEvent(ctx, c, cfg.EventID)
	if err != nil {
		return stats, err
	}
	stats.ParticipantsFrom = target.Participants

	// Step 3: concurrent joins
	submitJoins(ctx, c, cfg, target.ID, stats)

	// Step 4: verification
	if err := verifyCount(ctx, c, target.ID, stats); err != nil {
		return stats, err
	}
	if err := verifyUnknown(ctx, c); err != nil {
		return stats, err
	}
	if err := awaitNotifications(ctx, c, target.ID, cfg.NotifyWait, stats); err != nil {
		logger.Get().Warn(ctx, "notification drain failed", logger.Error(err))
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Joins <= 0 {
		cfg.Joins = DefaultJoins
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.NotifyWait <= 0 {
		cfg.NotifyWait = DefaultNotifyWait
	}
}

func pickEvent(ctx context.Context, c *client, id string) (Event, error) {
	if id != "" {
		return findEvent(ctx, c, id)
	}
	events, err := c.events(ctx)
	if err != nil {
		return Event{}, err
	}
	if len(events) == 0 {
		return Event{}, fmt.Errorf("%w: is the location resolved?", ErrNoEvents)
	}
	return events[0], nil
}

// displayFinalStats logs the run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var joinsPerSecond float64
	if stats.Duration > 0 {
		joinsPerSecond = float64(stats.JoinsSubmitted) / stats.Duration.Seconds()
	}
	logger.Get().Info(ctx, "final statistics",
		logger.Int("joinsSubmitted", stats.JoinsSubmitted),
		logger.Int("joinsSuccessful", stats.JoinsSuccessful),
		logger.Int("joinsFailed", stats.JoinsFailed),
		logger.Int("participantsFrom", stats.ParticipantsFrom),
		logger.Int("participantsTo", stats.ParticipantsTo),
		logger.Int("notifications", stats.Notifications),
		logger.Duration("duration", stats.Duration),
		logger.Float64("joinsPerSecond", joinsPerSecond))
}

package weather

import (
	"context"
	"errors"
	"time"

	"github.com/okian/shoresquad/pkg/logger"
	"github.com/okian/shoresquad/pkg/metrics"
)

// Observed decorates a Gateway with logging and fetch metrics.
type Observed struct {
	name   string
	next   Gateway
	logger logger.Logger
}

// Observe wraps next. name labels the strategy in metrics and logs.
func Observe(name string, next Gateway, log logger.Logger) *Observed {
	if log == nil {
		log = logger.Nop()
	}
	return &Observed{name: name, next: next, logger: log}
}

// Fetch delegates to the wrapped gateway. Every error leaving Fetch matches
// ErrWeatherUnavailable.
func (o *Observed) Fetch(ctx context.Context, referenceDate time.Time) (Snapshot, error) {
	start := time.Now()
	snap, err := o.next.Fetch(ctx, referenceDate)
	elapsed := time.Since(start)

	outcome := "ok"
	if err != nil {
		outcome = "unavailable"
		if !errors.Is(err, ErrWeatherUnavailable) {
			err = errors.Join(ErrWeatherUnavailable, err)
		}
		o.logger.Warn(ctx, "weather fetch failed",
			logger.String("strategy", o.name),
			logger.String("date", referenceDate.Format(time.DateOnly)),
			logger.Error(err),
		)
	} else {
		o.logger.Debug(ctx, "weather fetched",
			logger.String("strategy", o.name),
			logger.Int("forecast_days", len(snap.ForecastDays)),
			logger.Bool("temperature", snap.Current.Temperature != nil),
		)
	}
	metrics.RecordWeatherFetch(o.name, outcome, float64(elapsed.Milliseconds()))
	return snap, err
}

// Strategy returns the label of the wrapped gateway.
func (o *Observed) Strategy() string { return o.name }

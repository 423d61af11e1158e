package smoke

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// verifyCount checks that every successful join was counted exactly once.
// It assumes no other visitor joins the same event during the run.
func verifyCount(ctx context.Context, c *client, eventID string, stats *Stats) error {
	ev, err := findEvent(ctx, c, eventID)
	if err != nil {
		return err
	}
	stats.ParticipantsTo = ev.Participants

	want := stats.ParticipantsFrom + stats.JoinsSuccessful
	if ev.Participants != want {
		return fmt.Errorf("%w: %s has %d participants, want %d", ErrVerification, eventID, ev.Participants, want)
	}
	return nil
}

// verifyUnknown checks that joining an unknown id is ignored.
func verifyUnknown(ctx context.Context, c *client) error {
	status, err := c.join(ctx, unknownEventID)
	if err != nil {
		return err
	}
	if status != http.StatusNoContent {
		return fmt.Errorf("%w: unknown event join returned %d, want %d", ErrVerification, status, http.StatusNoContent)
	}
	return nil
}

// awaitNotifications drains notifications for eventID until one per
// successful join arrived or wait elapses. Missing notifications are
// reported, not failed: the queue drops under pressure.
func awaitNotifications(ctx context.Context, c *client, eventID string, wait time.Duration, stats *Stats) error {
	deadline := time.Now().Add(wait)
	for {
		items, err := c.notifications(ctx)
		if err != nil {
			return err
		}
		for _, n := range items {
			if n.EventID == eventID {
				stats.Notifications++
			}
		}
		if stats.Notifications >= stats.JoinsSuccessful || time.Now().After(deadline) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(notifyPollInterval):
		}
	}
}

func findEvent(ctx context.Context, c *client, eventID string) (Event, error) {
	events, err := c.events(ctx)
	if err != nil {
		return Event{}, err
	}
	for _, e := range events {
		if e.ID == eventID {
			return e, nil
		}
	}
	return Event{}, fmt.Errorf("%w: event %s not listed", ErrVerification, eventID)
}

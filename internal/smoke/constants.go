package smoke

import "time"

// Defaults.
const (
	DefaultJoins      = 20
	DefaultWorkers    = 4
	DefaultTimeout    = 10 * time.Second
	DefaultNotifyWait = 5 * time.Second

	workerChannelMultiplier = 2
	notifyPollInterval      = 100 * time.Millisecond
	unknownEventID          = "smoke-unknown-event"
)

package service

// Phase is a step of the controller startup sequence.
type Phase int

// Startup phases, in the order they can occur.
const (
	PhaseIdle Phase = iota
	PhaseNavigationWired
	PhaseLocationResolved
	PhaseMapInitialized
	PhaseMapSkipped
	PhaseWeatherResolved
	PhaseWeatherFailed
	PhaseWeatherSkipped
	PhaseInteractive
)

var phaseNames = map[Phase]string{
	PhaseIdle:             "idle",
	PhaseNavigationWired:  "navigation_wired",
	PhaseLocationResolved: "location_resolved",
	PhaseMapInitialized:   "map_initialized",
	PhaseMapSkipped:       "map_skipped",
	PhaseWeatherResolved:  "weather_resolved",
	PhaseWeatherFailed:    "weather_failed",
	PhaseWeatherSkipped:   "weather_skipped",
	PhaseInteractive:      "interactive",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "unknown"
}

// MarshalText renders the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

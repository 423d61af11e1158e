package smoke

import "time"

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL string        // Base URL of the page service
	EventID string        // Event to join; empty picks the first listed event
	Joins   int           // Number of joins to post
	Workers int           // Number of concurrent workers
	Timeout time.Duration // HTTP request timeout
	// NotifyWait bounds how long to wait for join notifications to arrive.
	NotifyWait time.Duration
}

// Event mirrors the cleanup event shape returned by the API.
type Event struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Participants int    `json:"participants"`
}

// Notification mirrors the notification shape returned by the API.
type Notification struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	EventID string `json:"event_id"`
	Message string `json:"message"`
}

// Stats holds run statistics.
type Stats struct {
	JoinsSubmitted   int
	JoinsSuccessful  int
	JoinsFailed      int
	ParticipantsFrom int
	ParticipantsTo   int
	Notifications    int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}

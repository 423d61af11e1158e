package cleanup

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

type seedFile struct {
	Events []seedEvent `yaml:"events"`
}

type seedEvent struct {
	ID           string  `yaml:"id"`
	Latitude     float64 `yaml:"lat"`
	Longitude    float64 `yaml:"lng"`
	Title        string  `yaml:"title"`
	Date         string  `yaml:"date"`
	Participants int     `yaml:"participants"`
}

// DefaultSeed returns the demo events shipped with the binary.
func DefaultSeed() ([]Event, error) {
	return decodeSeed(defaultSeed)
}

// LoadSeed reads seed events from a YAML file.
func LoadSeed(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadSeed(f)
}

// ReadSeed decodes seed events from r.
func ReadSeed(r io.Reader) ([]Event, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return decodeSeed(b)
}

func decodeSeed(b []byte) ([]Event, error) {
	var sf seedFile
	if err := yaml.Unmarshal(b, &sf); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	events := make([]Event, 0, len(sf.Events))
	for _, se := range sf.Events {
		date, err := time.Parse(time.DateOnly, se.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: date %q", ErrInvalidEvent, se.ID, se.Date)
		}
		events = append(events, Event{
			ID:           se.ID,
			Latitude:     se.Latitude,
			Longitude:    se.Longitude,
			Title:        se.Title,
			Date:         date,
			Participants: se.Participants,
		})
	}
	return events, nil
}

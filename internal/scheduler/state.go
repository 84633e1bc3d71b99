package scheduler

import (
	"fmt"
	"time"

	"codeberg.org/snonux/freestyle/internal/wordpool"
)

const (
	// MsgNoWords is shown when no word could be found for the settings
	MsgNoWords = "No more available words. Please change theme or difficulty."
	// MsgTooManyFailures is shown when the session was stopped after repeated failures
	MsgTooManyFailures = "Word generation failed multiple times. Please try again."
)

// State is the scheduler state
type State int

const (
	Idle State = iota
	Generating
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Generating:
		return "generating"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText encodes the state by name
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*s = Idle
	case "generating":
		*s = Generating
	default:
		return fmt.Errorf("unknown state: %q", text)
	}
	return nil
}

// Config holds scheduler timing and limits
type Config struct {
	WordInterval   time.Duration
	CountdownTick  time.Duration
	CountdownStart int
	MaxFailures    int
	Theme          wordpool.Theme
	Difficulty     wordpool.Difficulty
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		WordInterval:   10 * time.Second,
		CountdownTick:  time.Second,
		CountdownStart: 10,
		MaxFailures:    3,
		Theme:          wordpool.DefaultTheme,
		Difficulty:     wordpool.DefaultDifficulty,
	}
}

// withDefaults fills zero fields from DefaultConfig
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.WordInterval <= 0 {
		c.WordInterval = d.WordInterval
	}
	if c.CountdownTick <= 0 {
		c.CountdownTick = d.CountdownTick
	}
	if c.CountdownStart <= 0 {
		c.CountdownStart = d.CountdownStart
	}
	if c.MaxFailures <= 0 {
		c.MaxFailures = d.MaxFailures
	}
	if !c.Theme.Valid() {
		c.Theme = d.Theme
	}
	if !c.Difficulty.Valid() {
		c.Difficulty = d.Difficulty
	}
	return c
}

// Snapshot is a consistent copy of the observable session state
type Snapshot struct {
	State      State               `json:"state"`
	Word       string              `json:"word"`
	Rhymes     []string            `json:"rhymes"`
	Countdown  int                 `json:"countdown"`
	Error      string              `json:"error,omitempty"`
	Theme      wordpool.Theme      `json:"theme"`
	Difficulty wordpool.Difficulty `json:"difficulty"`
	Source     string              `json:"source,omitempty"`
	UsedWords  int                 `json:"usedWords"`
	Failures   int                 `json:"failures"`
	Session    uint64              `json:"session"`
	Version    uint64              `json:"version"`
}

// Generating reports whether the snapshot was taken while generating
func (s Snapshot) Generating() bool {
	return s.State == Generating
}

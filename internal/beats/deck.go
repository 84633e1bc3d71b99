package beats

import (
	"math"
	"sync"
	"time"
)

const (
	DefaultVolume     = 0.7
	VolumeStep        = 0.1
	MinBPM            = 60
	MaxBPM            = 200
	CrossfadeDuration = 500 * time.Millisecond
)

// Crossfade describes a fade from the old beat to the new one
type Crossfade struct {
	From       string        `json:"from"`
	To         string        `json:"to"`
	FromVolume float64       `json:"fromVolume"`
	ToVolume   float64       `json:"toVolume"`
	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"durationMs"`
}

// DeckState is a copy of the deck settings
type DeckState struct {
	Beat    Beat    `json:"beat"`
	Volume  float64 `json:"volume"`
	BPM     int     `json:"bpm"`
	Rate    float64 `json:"rate"`
	Playing bool    `json:"playing"`
}

// Deck tracks which beat plays and how
type Deck struct {
	mu      sync.Mutex
	beat    Beat
	volume  float64
	bpm     int
	playing bool
}

// NewDeck creates a paused deck with the given beat
func NewDeck(beatID string) (*Deck, error) {
	beat, err := Lookup(beatID)
	if err != nil {
		return nil, err
	}
	return &Deck{
		beat:   beat,
		volume: DefaultVolume,
		bpm:    beat.DefaultBPM,
	}, nil
}

// Select switches the beat and resets the tempo to its native BPM. While
// playing the switch is a cross-fade, returned to the caller.
func (d *Deck) Select(beatID string) (*Crossfade, error) {
	beat, err := Lookup(beatID)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var fade *Crossfade
	if d.playing && beat.ID != d.beat.ID {
		fade = &Crossfade{
			From:       d.beat.ID,
			To:         beat.ID,
			FromVolume: d.volume,
			ToVolume:   d.volume,
			Duration:   CrossfadeDuration,
			DurationMS: CrossfadeDuration.Milliseconds(),
		}
	}
	d.beat = beat
	d.bpm = beat.DefaultBPM
	return fade, nil
}

// SetVolume clamps v to [0,1] and returns the applied volume
func (d *Deck) SetVolume(v float64) float64 {
	if math.IsNaN(v) {
		v = DefaultVolume
	}
	v = math.Max(0, math.Min(1, v))

	d.mu.Lock()
	defer d.mu.Unlock()
	d.volume = v
	return v
}

// AdjustVolume changes the volume by steps of VolumeStep
func (d *Deck) AdjustVolume(steps int) float64 {
	d.mu.Lock()
	v := d.volume + float64(steps)*VolumeStep
	d.mu.Unlock()
	// keep one decimal so repeated steps land on 0 and 1 exactly
	return d.SetVolume(math.Round(v*10) / 10)
}

// SetBPM clamps bpm to [MinBPM, MaxBPM] and returns the applied value
func (d *Deck) SetBPM(bpm int) int {
	bpm = max(MinBPM, min(MaxBPM, bpm))

	d.mu.Lock()
	defer d.mu.Unlock()
	d.bpm = bpm
	return bpm
}

// Rate is the playback speed relative to the beat's native tempo
func (d *Deck) Rate() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rateLocked()
}

func (d *Deck) rateLocked() float64 {
	return float64(d.bpm) / float64(d.beat.DefaultBPM)
}

// SetPlaying starts or pauses the deck
func (d *Deck) SetPlaying(playing bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.playing = playing
}

// State returns the current deck settings
func (d *Deck) State() DeckState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DeckState{
		Beat:    d.beat,
		Volume:  d.volume,
		BPM:     d.bpm,
		Rate:    d.rateLocked(),
		Playing: d.playing,
	}
}

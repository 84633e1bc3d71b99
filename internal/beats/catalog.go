package beats

import (
	"fmt"
	"strings"
)

// Beat is a looping backing track
type Beat struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Subtitle   string `json:"subtitle"`
	File       string `json:"file"`
	DefaultBPM int    `json:"defaultBpm"`
}

// DefaultBeat is selected when nothing else is configured
const DefaultBeat = "hiphop"

var catalog = []Beat{
	{ID: "hiphop", Name: "Hip Hop", Subtitle: "ヒップホップ", File: "Hip Hop Beats.mp3", DefaultBPM: 90},
	{ID: "lofi", Name: "Lo-fi", Subtitle: "ローファイ", File: "Lofi Beats.mp3", DefaultBPM: 85},
	{ID: "trap", Name: "Trap", Subtitle: "トラップ", File: "Trap Music.mp3", DefaultBPM: 140},
}

// Catalog returns all beats in display order
func Catalog() []Beat {
	return append([]Beat(nil), catalog...)
}

// Lookup finds a beat by ID
func Lookup(id string) (Beat, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, b := range catalog {
		if b.ID == id {
			return b, nil
		}
	}
	return Beat{}, fmt.Errorf("unknown beat: %q", id)
}

// Package bell holds the built-in bell sound presets a board can ring with.
package bell

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Preset is a named note sequence used to synthesize a ring.
type Preset struct {
	Key          string    `json:"key"`
	Name         string    `json:"name"`
	Notes        []string  `json:"notes"`
	Frequencies  []float64 `json:"frequencies"`
	NoteDuration float64   `json:"noteDuration"` // seconds each note sounds
	Interval     float64   `json:"interval"`     // seconds between note onsets
}

// DefaultPreset is used when a school has no valid preset configured.
const DefaultPreset = "default"

var presets = []Preset{
	{Key: "default", Name: "Default", Notes: []string{"C5", "G4"}, NoteDuration: 0.5, Interval: 0.3},
	{Key: "ding", Name: "Ding", Notes: []string{"A5"}, NoteDuration: 0.2, Interval: 0},
	{Key: "school", Name: "School Bell", Notes: []string{"E5", "C5"}, NoteDuration: 0.8, Interval: 0.5},
	{Key: "ascending", Name: "Ascending", Notes: []string{"C4", "E4", "G4", "C5"}, NoteDuration: 0.3, Interval: 0.2},
	{Key: "descending", Name: "Descending", Notes: []string{"C5", "G4", "E4", "C4"}, NoteDuration: 0.3, Interval: 0.2},
}

var byKey = func() map[string]Preset {
	m := make(map[string]Preset, len(presets))
	for i := range presets {
		freqs := make([]float64, len(presets[i].Notes))
		for j, n := range presets[i].Notes {
			f, err := Frequency(n)
			if err != nil {
				panic(err)
			}
			freqs[j] = f
		}
		presets[i].Frequencies = freqs
		m[presets[i].Key] = presets[i]
	}
	return m
}()

// Presets returns the built-in presets in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// Lookup finds a preset by key.
func Lookup(key string) (Preset, bool) {
	p, ok := byKey[strings.ToLower(strings.TrimSpace(key))]
	return p, ok
}

// Resolve returns the preset for key, or the default preset when key is unknown.
func Resolve(key string) Preset {
	if p, ok := Lookup(key); ok {
		return p
	}
	return byKey[DefaultPreset]
}

// Duration is the total ring length in seconds.
func (p Preset) Duration() float64 {
	if len(p.Notes) == 0 {
		return 0
	}
	return float64(len(p.Notes)-1)*p.Interval + p.NoteDuration
}

var notePattern = regexp.MustCompile(`^([A-Ga-g])([#b]?)(-?\d)$`)

var semitones = map[string]int{"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11}

// Frequency converts scientific pitch notation ("A4", "C#5", "Bb3") to Hz,
// equal temperament with A4 = 440 Hz.
func Frequency(note string) (float64, error) {
	m := notePattern.FindStringSubmatch(strings.TrimSpace(note))
	if m == nil {
		return 0, fmt.Errorf("bell: invalid note %q", note)
	}
	semi := semitones[strings.ToUpper(m[1])]
	switch m[2] {
	case "#":
		semi++
	case "b":
		semi--
	}
	octave, err := strconv.Atoi(m[3])
	if err != nil {
		return 0, fmt.Errorf("bell: invalid octave in %q: %w", note, err)
	}
	midi := (octave+1)*12 + semi
	f := 440 * math.Pow(2, float64(midi-69)/12)
	return math.Round(f*100) / 100, nil
}

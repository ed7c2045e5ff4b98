package sinks

import (
	"fmt"
	"os/exec"
	"strings"

	"milwatch/internal/alert"
)

// phonetic spells callsign characters for speech output.
var phonetic = map[rune]string{
	'A': "Alpha", 'B': "Bravo", 'C': "Charlie", 'D': "Delta", 'E': "Echo",
	'F': "Foxtrot", 'G': "Golf", 'H': "Hotel", 'I': "India", 'J': "Juliett",
	'K': "Kilo", 'L': "Lima", 'M': "Mike", 'N': "November", 'O': "Oscar",
	'P': "Papa", 'Q': "Quebec", 'R': "Romeo", 'S': "Sierra", 'T': "Tango",
	'U': "Uniform", 'V': "Victor", 'W': "Whiskey", 'X': "X-ray", 'Y': "Yankee",
	'Z': "Zulu", '0': "Zero", '1': "One", '2': "Two", '3': "Three", '4': "Four",
	'5': "Five", '6': "Six", '7': "Seven", '8': "Eight", '9': "Nine",
}

// cardinalNames expands the short compass points for speech.
var cardinalNames = map[string]string{
	"N": "North", "NNE": "North-North-East", "NE": "North-East", "ENE": "East-North-East",
	"E": "East", "ESE": "East-South-East", "SE": "South-East", "SSE": "South-South-East",
	"S": "South", "SSW": "South-South-West", "SW": "South-West", "WSW": "West-South-West",
	"W": "West", "WNW": "West-North-West", "NW": "North-West", "NNW": "North-North-West",
}

// Speech renders an alert through the espeak-ng command-line tool.
// Rendering takes seconds, which is exactly why sinks drain their own
// queues: the feed keeps flowing while this one talks.
type Speech struct {
	Command string // defaults to espeak-ng
}

func (s *Speech) Name() string { return "speech" }

func (s *Speech) Deliver(a alert.Alert) error {
	cmd := s.Command
	if cmd == "" {
		cmd = "espeak-ng"
	}

	sentence := Sentence(a)
	c := exec.Command(cmd, "-a", "200", "-s", "150", sentence)
	if err := c.Run(); err != nil {
		return fmt.Errorf("run %s: %w", cmd, err)
	}
	return nil
}

// Sentence builds the spoken form of an alert.
func Sentence(a alert.Alert) string {
	var spelled []string
	for _, r := range strings.ToUpper(a.Callsign) {
		if word, ok := phonetic[r]; ok {
			spelled = append(spelled, word)
		} else {
			spelled = append(spelled, string(r))
		}
	}

	cardinal := a.Cardinal
	if full, ok := cardinalNames[cardinal]; ok {
		cardinal = full
	}

	return fmt.Sprintf(
		"Aircraft, %s, reason %s, has been detected flying at an altitude of %d feet, "+
			"traveling at a speed of %.0f knots. %.1f miles and %d degrees %s from your current location.",
		strings.Join(spelled, " "), a.Label, a.Altitude, a.GroundSpeed,
		a.DistanceMi, a.BearingDeg, cardinal)
}

package models

import (
	"encoding/json"
	"strings"
)

// DefaultFireMarker is the substring of a sensor state that signals fire.
const DefaultFireMarker = "INCENDIO"

// Status is the derived condition of a measurement.
type Status int

const (
	StatusUnknown Status = iota // no state reported
	StatusNormal
	StatusFire
)

// ClassifyState maps a raw sensor state to a Status. The match on marker is
// case-sensitive; an empty marker falls back to DefaultFireMarker.
func ClassifyState(state *string, marker string) Status {
	if state == nil {
		return StatusUnknown
	}
	if marker == "" {
		marker = DefaultFireMarker
	}
	if strings.Contains(*state, marker) {
		return StatusFire
	}
	return StatusNormal
}

// FireDetected reports whether s is the alarm variant.
func (s Status) FireDetected() bool { return s == StatusFire }

func (s Status) String() string {
	switch s {
	case StatusNormal:
		return "NORMAL"
	case StatusFire:
		return "FIRE"
	default:
		return "UNKNOWN"
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

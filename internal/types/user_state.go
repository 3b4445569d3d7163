package types

import "fmt"

type Energy string

const (
	EnergyDead  Energy = "Dead"
	EnergyOkay  Energy = "Okay"
	EnergyReady Energy = "Ready"
)

func (e Energy) Valid() bool {
	switch e {
	case EnergyDead, EnergyOkay, EnergyReady:
		return true
	}
	return false
}

// UserState is the per-request input to scoring and selection. Read-only once
// constructed.
type UserState struct {
	MoodText       string `json:"mood_text"`
	TimeAvailable  int    `json:"time_available"`
	Energy         Energy `json:"energy"`
	Language       string `json:"language"`
	TightenRuntime bool   `json:"tighten_runtime"`
}

func (s UserState) Validate() error {
	if s.TimeAvailable < 60 || s.TimeAvailable > 240 {
		return fmt.Errorf("time_available must be between 60 and 240 minutes, got %d", s.TimeAvailable)
	}
	if !s.Energy.Valid() {
		return fmt.Errorf("energy must be one of Dead, Okay, Ready, got %q", s.Energy)
	}
	return nil
}

package model

// EncounterState is the progress of a boss encounter inside its instance.
// Written by the boss AI, persisted by the encounter manager.
type EncounterState int32

const (
	EncounterNotStarted EncounterState = 0
	EncounterInProgress EncounterState = 1
	EncounterDone       EncounterState = 2
)

// String returns human-readable state name
func (s EncounterState) String() string {
	switch s {
	case EncounterNotStarted:
		return "NOT_STARTED"
	case EncounterInProgress:
		return "IN_PROGRESS"
	case EncounterDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

package model

// Intention is the coarse AI state of a creature.
type Intention int32

const (
	// IntentionIdle - no victim, nothing to do
	IntentionIdle Intention = iota
	// IntentionAttack - fighting its victim
	IntentionAttack
	// IntentionCast - casting a spell
	IntentionCast
)

// String returns human-readable intention name
func (i Intention) String() string {
	switch i {
	case IntentionIdle:
		return "IDLE"
	case IntentionAttack:
		return "ATTACK"
	case IntentionCast:
		return "CAST"
	default:
		return "UNKNOWN"
	}
}

package ai

import "time"

// Controller is the behavior attached to one agent. The host simulation
// calls these hooks; a controller never calls back into them itself.
//
// All hooks run on the world loop goroutine, one agent at a time.
type Controller interface {
	// OnReset clears all timers and phase state (evade, respawn, spawn).
	OnReset()

	// OnEngage is called when the agent enters combat with who.
	OnEngage(who uint32)

	// OnDamageTaken is called after every damage application.
	// healthFraction is the agent's health after the hit, in [0, 1].
	OnDamageTaken(attacker uint32, amount int32, healthFraction float64)

	// OnDeath is called once when the agent dies.
	OnDeath(killer uint32)

	// OnTick advances the agent by dt (called every world tick).
	OnTick(dt time.Duration)
}

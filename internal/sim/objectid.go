package sim

import "sync/atomic"

// objectIDGenerator hands out object IDs per world so seeded runs are
// reproducible.
//
// ID ranges (convention):
//
//	0x10000000 - 0x1FFFFFFF: Players
//	0x20000000 - 0x2FFFFFFF: NPCs
type objectIDGenerator struct {
	nextPlayerID atomic.Uint32
	nextNpcID    atomic.Uint32
}

func newObjectIDGenerator() *objectIDGenerator {
	gen := &objectIDGenerator{}
	gen.nextPlayerID.Store(0x10000000)
	gen.nextNpcID.Store(0x20000000)
	return gen
}

// NextPlayerID generates next unique player object ID.
func (g *objectIDGenerator) NextPlayerID() uint32 {
	return g.nextPlayerID.Add(1)
}

// NextNpcID generates next unique NPC object ID.
func (g *objectIDGenerator) NextNpcID() uint32 {
	return g.nextNpcID.Add(1)
}

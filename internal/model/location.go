package model

// Location is a position in the game world.
// Value type, passed by value (immutable).
type Location struct {
	X       int32
	Y       int32
	Z       int32
	Heading uint16 // 0-65535
}

// NewLocation creates a Location with the given coordinates.
func NewLocation(x, y, z int32, heading uint16) Location {
	return Location{X: x, Y: y, Z: z, Heading: heading}
}

// WithHeading returns a copy with a new heading.
func (l Location) WithHeading(heading uint16) Location {
	l.Heading = heading
	return l
}

// Offset returns a copy shifted by (dx, dy, dz). Heading is kept.
func (l Location) Offset(dx, dy, dz int32) Location {
	l.X += dx
	l.Y += dy
	l.Z += dz
	return l
}

// DistanceSquared returns the squared distance to other (no sqrt on the hot path).
func (l Location) DistanceSquared(other Location) int64 {
	dx := int64(l.X - other.X)
	dy := int64(l.Y - other.Y)
	dz := int64(l.Z - other.Z)
	return dx*dx + dy*dy + dz*dz
}

// InRange reports whether other is within r of l.
func (l Location) InRange(other Location, r int32) bool {
	return l.DistanceSquared(other) <= int64(r)*int64(r)
}

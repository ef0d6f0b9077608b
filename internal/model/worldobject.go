package model

import "sync"

// WorldObject is the base of every object placed in the world:
// an objectID, a name and a location.
type WorldObject struct {
	objectID uint32
	name     string
	location Location

	mu sync.RWMutex
}

// NewWorldObject creates a new world object.
func NewWorldObject(objectID uint32, name string, loc Location) *WorldObject {
	return &WorldObject{
		objectID: objectID,
		name:     name,
		location: loc,
	}
}

// ObjectID returns the unique object id (immutable after creation).
func (w *WorldObject) ObjectID() uint32 {
	return w.objectID
}

// Name returns the object name.
func (w *WorldObject) Name() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.name
}

// Location returns a copy of the object coordinates.
func (w *WorldObject) Location() Location {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.location
}

// SetLocation sets new coordinates.
func (w *WorldObject) SetLocation(loc Location) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.location = loc
}

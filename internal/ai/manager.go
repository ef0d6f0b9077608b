package ai

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// TickManager drives every registered controller once per world tick,
// in ascending objectID order so runs with a seeded RNG are reproducible.
type TickManager struct {
	mu              sync.RWMutex
	controllers     map[uint32]Controller // objectID → controller
	interval        time.Duration
	stopCh          chan struct{}
	stopOnce        sync.Once
	controllerCount atomic.Int32 // cached count of controllers (O(1) access)

	// tick is what Start calls each interval; TickAll unless replaced.
	tick func(dt time.Duration)
}

// NewTickManager creates a tick manager firing every interval in real-time mode.
func NewTickManager(interval time.Duration) *TickManager {
	if interval <= 0 {
		interval = time.Second
	}
	m := &TickManager{
		controllers: make(map[uint32]Controller),
		interval:    interval,
		stopCh:      make(chan struct{}),
	}
	m.tick = m.TickAll
	return m
}

// SetTickFunc replaces what Start runs each interval. A world that has its
// own per-tick work calls TickAll from fn. Must be called before Start.
func (m *TickManager) SetTickFunc(fn func(dt time.Duration)) {
	if fn == nil {
		fn = m.TickAll
	}
	m.tick = fn
}

// Register registers a controller and resets it.
// Re-registering an objectID replaces the previous controller.
func (m *TickManager) Register(objectID uint32, controller Controller) {
	m.mu.Lock()
	if _, exists := m.controllers[objectID]; !exists {
		m.controllerCount.Add(1)
	}
	m.controllers[objectID] = controller
	m.mu.Unlock()

	controller.OnReset()

	if IsDebugEnabled() {
		slog.Debug("AI controller registered", "objectID", objectID)
	}
}

// Unregister removes a controller. No-op for unknown objectIDs.
func (m *TickManager) Unregister(objectID uint32) {
	m.mu.Lock()
	_, ok := m.controllers[objectID]
	if ok {
		delete(m.controllers, objectID)
		m.controllerCount.Add(-1)
	}
	m.mu.Unlock()

	if ok && IsDebugEnabled() {
		slog.Debug("AI controller unregistered", "objectID", objectID)
	}
}

// Start runs the real-time tick loop (blocks until context is canceled).
// Each tick passes the wall-clock time elapsed since the previous one.
func (m *TickManager) Start(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	slog.Info("AI tick manager started", "interval", m.interval)

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			slog.Info("AI tick manager stopping")
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("AI tick manager stopped")
			return nil

		case now := <-ticker.C:
			m.tick(now.Sub(last))
			last = now
		}
	}
}

// Stop stops the real-time loop. Safe to call more than once.
func (m *TickManager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// TickAll ticks every controller registered at call time with dt.
// Controllers registered during the pass (summons) start on the next pass.
func (m *TickManager) TickAll(dt time.Duration) {
	m.mu.RLock()
	ids := make([]uint32, 0, len(m.controllers))
	for id := range m.controllers {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	slices.Sort(ids)

	for _, id := range ids {
		m.mu.RLock()
		c, ok := m.controllers[id]
		m.mu.RUnlock()
		if !ok {
			continue // unregistered by an earlier controller this pass
		}
		c.OnTick(dt)
	}

	if len(ids) > 0 && IsDebugEnabled() {
		slog.Debug("AI tick completed", "controllers", len(ids), "dt", dt)
	}
}

// Count returns number of registered controllers (O(1) cached count).
func (m *TickManager) Count() int {
	return int(m.controllerCount.Load())
}

// GetController returns the controller for an objectID.
func (m *TickManager) GetController(objectID uint32) (Controller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.controllers[objectID]
	if !ok {
		return nil, fmt.Errorf("controller not found for objectID %d", objectID)
	}
	return c, nil
}

package raid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/udisondev/zgscript/internal/model"
)

// EncounterStore provides DB persistence for encounter progress.
type EncounterStore interface {
	LoadEncounters(ctx context.Context) ([]EncounterRow, error)
	SaveEncounter(ctx context.Context, row EncounterRow) error
}

// EncounterRow mirrors db.EncounterRow for decoupling.
type EncounterRow struct {
	Name      string
	State     int16
	Attempts  int32
	Kills     int32
	UpdatedAt time.Time
}

type encounterEntry struct {
	row   EncounterRow
	dirty bool
}

// EncounterManager tracks instance encounter progress.
//
// States:
//   - NOT_STARTED: boss alive and out of combat
//   - IN_PROGRESS: boss engaged; every engagement counts as an attempt
//   - DONE: boss killed; sticky until the lockout is cleared
//
// Record is cheap and safe to call from inside an AI tick: it only updates
// memory. Changes reach the store through RunSaveLoop or Flush.
type EncounterManager struct {
	store EncounterStore
	now   func() time.Time

	mu      sync.RWMutex
	entries map[string]*encounterEntry
}

// NewEncounterManager creates a new encounter manager.
func NewEncounterManager(store EncounterStore) *EncounterManager {
	return &EncounterManager{
		store:   store,
		now:     time.Now,
		entries: make(map[string]*encounterEntry, 8),
	}
}

// Init loads encounter progress from the store.
func (m *EncounterManager) Init(ctx context.Context) error {
	rows, err := m.store.LoadEncounters(ctx)
	if err != nil {
		return fmt.Errorf("load encounters: %w", err)
	}

	m.mu.Lock()
	for _, row := range rows {
		m.entries[row.Name] = &encounterEntry{row: row}
	}
	m.mu.Unlock()

	slog.Info("encounter manager initialized", "loaded", len(rows))
	return nil
}

// Record applies a progress change reported by a boss controller.
// It returns false when the change was ignored: a repeat of the current
// state, or any change away from DONE.
func (m *EncounterManager) Record(name string, state model.EncounterState) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[name]
	if !ok {
		e = &encounterEntry{row: EncounterRow{Name: name}}
		m.entries[name] = e
	}

	cur := model.EncounterState(e.row.State)
	if cur == state || cur == model.EncounterDone {
		return false
	}

	switch state {
	case model.EncounterInProgress:
		e.row.Attempts++
	case model.EncounterDone:
		e.row.Kills++
	}
	e.row.State = int16(state)
	e.row.UpdatedAt = m.now()
	e.dirty = true

	slog.Info("encounter progress",
		"encounter", name,
		"from", cur,
		"to", state,
		"attempts", e.row.Attempts,
		"kills", e.row.Kills)
	return true
}

// ClearLockout puts a finished encounter back to NOT_STARTED. Counters are kept.
func (m *EncounterManager) ClearLockout(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[name]
	if !ok || model.EncounterState(e.row.State) == model.EncounterNotStarted {
		return
	}
	e.row.State = int16(model.EncounterNotStarted)
	e.row.UpdatedAt = m.now()
	e.dirty = true
}

// State returns the current state of an encounter (NOT_STARTED if unknown).
func (m *EncounterManager) State(name string) model.EncounterState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[name]; ok {
		return model.EncounterState(e.row.State)
	}
	return model.EncounterNotStarted
}

// Progress returns a copy of the tracked row.
func (m *EncounterManager) Progress(name string) (EncounterRow, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[name]
	if !ok {
		return EncounterRow{}, false
	}
	return e.row, true
}

// Names returns tracked encounter names, sorted.
func (m *EncounterManager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.entries))
	for name := range m.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Flush saves every changed entry. Entries that fail to save stay dirty
// and are retried by the next flush.
func (m *EncounterManager) Flush(ctx context.Context) error {
	m.mu.Lock()
	pending := make([]EncounterRow, 0, len(m.entries))
	for _, e := range m.entries {
		if e.dirty {
			pending = append(pending, e.row)
			e.dirty = false
		}
	}
	m.mu.Unlock()

	var errs []error
	for _, row := range pending {
		if err := m.store.SaveEncounter(ctx, row); err != nil {
			errs = append(errs, fmt.Errorf("save encounter %s: %w", row.Name, err))
			m.markDirty(row.Name)
		}
	}

	if saved := len(pending) - len(errs); saved > 0 {
		slog.Debug("encounter states saved", "count", saved)
	}
	return errors.Join(errs...)
}

func (m *EncounterManager) markDirty(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[name]; ok {
		e.dirty = true
	}
}

// RunSaveLoop periodically flushes encounter progress to the store.
// Blocks until context is canceled, then makes a final flush.
func (m *EncounterManager) RunSaveLoop(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("encounter save loop started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			// Final save before exit; ctx is already canceled.
			if err := m.Flush(context.WithoutCancel(ctx)); err != nil {
				slog.Error("final encounter save", "error", err)
			}
			slog.Info("encounter save loop stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := m.Flush(ctx); err != nil {
				slog.Error("save encounter states", "error", err)
			}
		}
	}
}

// MemoryStore is an EncounterStore kept in process memory.
type MemoryStore struct {
	mu   sync.Mutex
	rows map[string]EncounterRow
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string]EncounterRow)}
}

// LoadEncounters returns every stored row, sorted by name.
func (s *MemoryStore) LoadEncounters(context.Context) ([]EncounterRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]EncounterRow, 0, len(s.rows))
	for _, row := range s.rows {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows, nil
}

// SaveEncounter upserts a row.
func (s *MemoryStore) SaveEncounter(_ context.Context, row EncounterRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[row.Name] = row
	return nil
}

package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// StateVersion is the current version of the state file format.
const StateVersion = 1

// DriverState contains the persisted runtime state of the backlight
// driver.
type DriverState struct {
	// Version is the state file format version.
	Version int `json:"version"`

	// SavedAt is when the state was last saved.
	SavedAt time.Time `json:"saved_at"`

	// Level is the last brightness level asserted to the firmware.
	Level uint32 `json:"level"`

	// Max is the firmware-reported maximum level at the time of
	// saving. A persisted level is only restored when Max still
	// matches, guarding against firmware updates changing the range.
	Max uint32 `json:"max"`
}

// DriverStateStore manages persistence of driver state to a JSON file.
type DriverStateStore struct {
	mu   sync.Mutex
	path string
}

// NewDriverStateStore creates a store backed by path.
func NewDriverStateStore(path string) *DriverStateStore {
	return &DriverStateStore{path: path}
}

// Save persists the driver state to disk.
func (s *DriverStateStore) Save(state *DriverState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	state.Version = StateVersion
	if state.SavedAt.IsZero() {
		state.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	// Write-then-rename so a crash never leaves a torn state file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Load reads the driver state from disk.
// Returns nil, nil if the file doesn't exist (empty state).
func (s *DriverStateStore) Load() (*DriverState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state := &DriverState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}

	return state, nil
}

// Clear removes the state file.
func (s *DriverStateStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

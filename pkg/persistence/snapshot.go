package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/mash-protocol/mash-regs/pkg/codec"
	"github.com/mash-protocol/mash-regs/pkg/regmap"
)

// SnapshotVersion is the current version of the snapshot file format.
const SnapshotVersion = 1

// Snapshot holds the decoded values of one read pass.
type Snapshot struct {
	// Version is the snapshot file format version.
	Version int `json:"version"`

	// Device is the device label from the register map.
	Device string `json:"device,omitempty"`

	// SessionID identifies the read pass in the transaction log.
	SessionID string `json:"session_id,omitempty"`

	// SavedAt is when the snapshot was last saved.
	SavedAt time.Time `json:"saved_at"`

	// Values maps register names to their decoded values.
	Values map[string]SnapshotValue `json:"values"`
}

// SnapshotValue is one decoded register value.
type SnapshotValue struct {
	Type  regmap.Type  `json:"type"`
	Unit  string       `json:"unit,omitempty"`
	Uint  *uint64      `json:"uint,omitempty"`
	Float *float64     `json:"float,omitempty"`
	Stats *codec.Stats `json:"stats,omitempty"`
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot(device, sessionID string) *Snapshot {
	return &Snapshot{
		Version:   SnapshotVersion,
		Device:    device,
		SessionID: sessionID,
		Values:    make(map[string]SnapshotValue),
	}
}

// Record stores v under name, replacing any earlier value.
func (s *Snapshot) Record(name string, v regmap.Value) {
	if s.Values == nil {
		s.Values = make(map[string]SnapshotValue)
	}
	sv := SnapshotValue{Type: v.Type, Unit: v.Unit}
	switch v.Type {
	case regmap.TypeQ:
		f := v.Float
		sv.Float = &f
	case regmap.TypeStats:
		st := v.Stats
		sv.Stats = &st
	default:
		u := v.Uint
		sv.Uint = &u
	}
	s.Values[name] = sv
}

// Text returns the value of name in the textual form regmap.Map.BindWrite
// accepts. Stats values have no textual form.
func (s *Snapshot) Text(name string) (string, bool) {
	v, ok := s.Values[name]
	if !ok {
		return "", false
	}
	switch {
	case v.Uint != nil:
		return strconv.FormatUint(*v.Uint, 10), true
	case v.Float != nil:
		return strconv.FormatFloat(*v.Float, 'g', -1, 64), true
	default:
		return "", false
	}
}

// SnapshotStore manages persistence of snapshots to a JSON file.
type SnapshotStore struct {
	mu   sync.Mutex
	path string
}

// NewSnapshotStore creates a new snapshot store.
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

// Path returns the file the store writes to.
func (s *SnapshotStore) Path() string {
	return s.path
}

// Save persists the snapshot to disk.
func (s *SnapshotStore) Save(snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	snap.Version = SnapshotVersion
	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// Load reads the snapshot from disk.
// Returns nil, nil if the file doesn't exist.
func (s *SnapshotStore) Load() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, err
	}
	if snap.Values == nil {
		snap.Values = make(map[string]SnapshotValue)
	}

	return snap, nil
}

// Clear removes the snapshot file.
func (s *SnapshotStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

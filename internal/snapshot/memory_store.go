package snapshot

import "github.com/goccy/go-json"

type snapshotKey struct {
	applicationID string
	stepID        int
}

// MemoryStore keeps snapshots in process memory. Used in tests and as the
// degraded fallback when the durable store cannot be opened.
type MemoryStore struct {
	snapshots map[snapshotKey]json.RawMessage
	positions map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[snapshotKey]json.RawMessage),
		positions: make(map[string]int),
	}
}

func (s *MemoryStore) Get(applicationID string, stepID int) (json.RawMessage, bool) {
	snap, ok := s.snapshots[snapshotKey{applicationID, stepID}]
	return snap, ok
}

func (s *MemoryStore) Set(applicationID string, stepID int, snap json.RawMessage) {
	stored := make(json.RawMessage, len(snap))
	copy(stored, snap)
	s.snapshots[snapshotKey{applicationID, stepID}] = stored
}

func (s *MemoryStore) GetAll(applicationID string) map[int]json.RawMessage {
	out := make(map[int]json.RawMessage)
	for key, snap := range s.snapshots {
		if key.applicationID == applicationID {
			out[key.stepID] = snap
		}
	}
	return out
}

func (s *MemoryStore) SavePosition(applicationID string, step int) {
	s.positions[applicationID] = step
}

func (s *MemoryStore) LoadPosition(applicationID string) (int, bool) {
	step, ok := s.positions[applicationID]
	return step, ok
}

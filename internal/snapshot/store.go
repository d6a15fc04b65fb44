package snapshot

import "github.com/goccy/go-json"

// Store persists serializable step snapshots and the current step pointer,
// keyed by application id. Implementations must never surface storage
// failures to callers: a broken store degrades the wizard to "no resume",
// nothing more.
type Store interface {
	// Get returns the snapshot for (applicationID, stepID), or ok=false if
	// none is stored or the store is unavailable.
	Get(applicationID string, stepID int) (json.RawMessage, bool)
	// Set replaces the snapshot for (applicationID, stepID) entirely.
	Set(applicationID string, stepID int, snap json.RawMessage)
	// GetAll returns every stored snapshot for the application keyed by step.
	GetAll(applicationID string) map[int]json.RawMessage
	// SavePosition records the current step for the application.
	SavePosition(applicationID string, step int)
	// LoadPosition returns the saved step, or ok=false if none is stored.
	LoadPosition(applicationID string) (int, bool)
}

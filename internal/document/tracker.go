package document

import (
	"github.com/google/uuid"
)

// FileEntry is one locally selected file. Entries are keyed by a stable id
// rather than a positional index so removing or reordering entries cannot
// attach upload state to the wrong file.
type FileEntry struct {
	ID             string
	DocumentTypeID string
	Filename       string
	SizeBytes      int64
	Uploading      bool
	Uploaded       bool
}

// Tracker holds the transient upload state of the documents step. File
// contents never live here; after a reload only the snapshot counts/flags
// remain.
type Tracker struct {
	entries map[string]*FileEntry
	order   []string
}

func NewTracker() *Tracker {
	return &Tracker{entries: make(map[string]*FileEntry)}
}

// Add registers a newly selected file optimistically and returns its entry
// id. The caller must Remove the entry if the upload fails.
func (t *Tracker) Add(documentTypeID, filename string, sizeBytes int64) string {
	entry := &FileEntry{
		ID:             uuid.NewString(),
		DocumentTypeID: documentTypeID,
		Filename:       filename,
		SizeBytes:      sizeBytes,
		Uploading:      true,
	}
	t.entries[entry.ID] = entry
	t.order = append(t.order, entry.ID)
	return entry.ID
}

// MarkUploaded records a successful upload for one entry.
func (t *Tracker) MarkUploaded(entryID string) {
	if entry, ok := t.entries[entryID]; ok {
		entry.Uploading = false
		entry.Uploaded = true
	}
}

// Remove rolls back a single entry. Sibling files of the same document type
// are untouched.
func (t *Tracker) Remove(entryID string) {
	if _, ok := t.entries[entryID]; !ok {
		return
	}
	delete(t.entries, entryID)
	for i, id := range t.order {
		if id == entryID {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Entries returns the entries for one document type in selection order.
func (t *Tracker) Entries(documentTypeID string) []FileEntry {
	var out []FileEntry
	for _, id := range t.order {
		entry := t.entries[id]
		if entry.DocumentTypeID == documentTypeID {
			out = append(out, *entry)
		}
	}
	return out
}

// Len returns the number of tracked files across all document types.
func (t *Tracker) Len() int {
	return len(t.order)
}

// Snapshot produces the serializable, file-free view of the tracked state.
func (t *Tracker) Snapshot(types []DocumentType) StepSnapshot {
	snap := StepSnapshot{Documents: make(map[string]TypeState, len(types))}
	for _, dt := range types {
		snap.Documents[dt.ID] = TypeState{DocumentTypeID: dt.ID}
	}
	for _, id := range t.order {
		entry := t.entries[id]
		state := snap.Documents[entry.DocumentTypeID]
		state.DocumentTypeID = entry.DocumentTypeID
		state.FileCount++
		if entry.Uploaded {
			state.Uploaded = true
		}
		snap.Documents[entry.DocumentTypeID] = state
	}
	return snap
}

package document

// DocumentType is one entry of the backend document catalog.
type DocumentType struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	Stage        string `json:"stage"`
	IsMandatory  bool   `json:"is_mandatory"`
	AcceptsOCR   bool   `json:"accepts_ocr"`
	DisplayOrder int    `json:"display_order"`
}

// UploadResult reports whether the backend queued extraction for the file.
type UploadResult struct {
	ProcessOCR bool `json:"process_ocr"`
}

// TypeState is the persisted, file-free record of one document type's upload
// progress. Raw file payloads never appear in snapshots; only counts and
// flags survive a reload.
type TypeState struct {
	DocumentTypeID string `json:"documentTypeId"`
	FileCount      int    `json:"fileCount"`
	Uploaded       bool   `json:"uploaded"`
}

// StepSnapshot is the documents step's persisted form, keyed by document
// type id.
type StepSnapshot struct {
	Documents map[string]TypeState `json:"documents"`
}

// SnapshotComplete reports whether every mandatory document type has at
// least one uploaded file recorded in the snapshot. The wizard re-evaluates
// this whenever persisted data changes.
func SnapshotComplete(types []DocumentType, snap StepSnapshot) bool {
	for _, dt := range types {
		if !dt.IsMandatory {
			continue
		}
		state, ok := snap.Documents[dt.ID]
		if !ok || state.FileCount == 0 || !state.Uploaded {
			return false
		}
	}
	return true
}

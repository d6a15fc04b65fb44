package ocr

import (
	"fmt"

	"github.com/goccy/go-json"
)

// SectionData is the extraction output of one document.
type SectionData struct {
	SourceDocumentID string                 `json:"source_document_id"`
	DocumentType     string                 `json:"document_type"`
	DocumentName     string                 `json:"document_name"`
	ExtractedData    map[string]interface{} `json:"extracted_data"`
	ConfidenceScores map[string]float64     `json:"confidence_scores"`
}

// Section is a tagged variant over the two wire shapes a section can take:
// a single object for one-shot sections (personal details, language) or an
// array for repeatable sections (schooling, qualifications, employment).
// The shape is resolved once here at the JSON boundary.
type Section struct {
	Single   *SectionData
	Repeated []SectionData
}

func (s *Section) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		var repeated []SectionData
		if err := json.Unmarshal(data, &repeated); err != nil {
			return fmt.Errorf("failed to unmarshal repeated section: %w", err)
		}
		s.Repeated = repeated
		s.Single = nil
		return nil
	}
	var single SectionData
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("failed to unmarshal section: %w", err)
	}
	s.Single = &single
	s.Repeated = nil
	return nil
}

// Empty reports whether the section carries no extraction output.
func (s Section) Empty() bool {
	return s.Single == nil && len(s.Repeated) == 0
}

// Latest returns the section data to populate from. For repeated sections
// that is the most recent entry, the last element.
func (s Section) Latest() *SectionData {
	if s.Single != nil {
		return s.Single
	}
	if len(s.Repeated) > 0 {
		return &s.Repeated[len(s.Repeated)-1]
	}
	return nil
}

// Metadata is the document-level progress block of an extraction result.
type Metadata struct {
	TotalDocuments int `json:"total_documents"`
	OCRCompleted   int `json:"ocr_completed"`
	OCRPending     int `json:"ocr_pending"`
	OCRFailed      int `json:"ocr_failed"`
}

// Result is the extraction-results payload for one application.
type Result struct {
	ApplicationID string             `json:"application_id"`
	Sections      map[string]Section `json:"sections"`
	Metadata      Metadata           `json:"metadata"`
}

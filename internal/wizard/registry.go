package wizard

import (
	"github.com/applyflow/applyflow_client/internal/form"
	"github.com/applyflow/applyflow_client/internal/ocr"
)

const (
	// DocumentsStep is the step whose completion is inferred from persisted
	// upload state rather than an explicit submit.
	DocumentsStep = 1

	TotalSteps = 7
)

// StepDefinition describes one wizard page: its blank record, the document
// type feeding its auto-fill (if any), and the extraction section it
// populates from.
type StepDefinition struct {
	ID           int
	Title        string
	NewRecord    func() *form.Record
	DocumentCode string
	OcrSpec      *ocr.PopulateSpec
	// Repeatable steps hold a list of entry records rather than one record.
	Repeatable bool
}

func specPtr(spec ocr.PopulateSpec) *ocr.PopulateSpec {
	return &spec
}

// Steps returns the wizard's step registry in display order.
func Steps() []StepDefinition {
	return []StepDefinition{
		{
			ID:    DocumentsStep,
			Title: "Documents",
		},
		{
			ID:           2,
			Title:        "Personal Details",
			NewRecord:    form.NewPersonalDetails,
			DocumentCode: "PASSPORT",
			OcrSpec:      specPtr(ocr.PersonalDetailsSpec()),
		},
		{
			ID:         3,
			Title:      "Qualifications",
			NewRecord:  form.NewQualification,
			OcrSpec:    specPtr(ocr.QualificationsSpec()),
			Repeatable: true,
		},
		{
			ID:           4,
			Title:        "Language & Culture",
			NewRecord:    form.NewLanguageCulture,
			DocumentCode: "ENGLISH_TEST",
			OcrSpec:      specPtr(ocr.LanguageCulturalSpec()),
		},
		{
			ID:         5,
			Title:      "Employment",
			NewRecord:  form.NewEmploymentEntry,
			OcrSpec:    specPtr(ocr.EmploymentSpec()),
			Repeatable: true,
		},
		{
			ID:           6,
			Title:        "Schooling",
			NewRecord:    form.NewSchoolingEntry,
			DocumentCode: "ACADEMIC_TRANSCRIPT",
			OcrSpec:      specPtr(ocr.SchoolingSpec()),
			Repeatable:   true,
		},
		{
			ID:        7,
			Title:     "Additional Services",
			NewRecord: form.NewAdditionalService,
		},
	}
}

package wizard

import (
	"context"
	"io"

	"github.com/applyflow/applyflow_client/internal/document"
	"github.com/applyflow/applyflow_client/internal/form"
	"github.com/applyflow/applyflow_client/internal/ocr"
)

// Extractor is the polling side of the auto-fill flow.
type Extractor interface {
	Poll(ctx context.Context, applicationID string, spec ocr.PopulateSpec, rec *form.Record) (*ocr.PollResult, error)
}

// Autofill runs the upload → poll → populate sequence for one step. Each
// call tracks its own file entry, so concurrent auto-fills for different
// entries stay independent: a failure rolls back only its own file.
type Autofill struct {
	uploader document.Uploader
	poller   Extractor
	tracker  *document.Tracker
}

func NewAutofill(uploader document.Uploader, poller Extractor, tracker *document.Tracker) *Autofill {
	return &Autofill{
		uploader: uploader,
		poller:   poller,
		tracker:  tracker,
	}
}

func (a *Autofill) Tracker() *document.Tracker {
	return a.tracker
}

// UploadAndExtract uploads one file and, when the document type supports
// extraction, polls until its section is ready and fills rec. A nil result
// with nil error means the upload succeeded but no extraction applies.
func (a *Autofill) UploadAndExtract(ctx context.Context, applicationID string, docType document.DocumentType, filename, contentType string, size int64, file io.Reader, spec *ocr.PopulateSpec, rec *form.Record) (*ocr.PollResult, error) {
	entryID := a.tracker.Add(docType.ID, filename, size)

	uploaded, err := a.uploader.Upload(ctx, applicationID, docType.ID, filename, contentType, size, file)
	if err != nil {
		a.tracker.Remove(entryID)
		return nil, err
	}
	a.tracker.MarkUploaded(entryID)

	if spec == nil || rec == nil || !docType.AcceptsOCR || !uploaded.ProcessOCR {
		return nil, nil
	}
	return a.poller.Poll(ctx, applicationID, *spec, rec)
}

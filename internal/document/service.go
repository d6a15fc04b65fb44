package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/applyflow/applyflow_client/internal/api"
	"github.com/applyflow/applyflow_client/internal/ocr"
	"github.com/rs/zerolog/log"
)

const defaultMaxFileSize = 10 * 1024 * 1024

var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"application/pdf": true,
}

var (
	ErrMissingApplicationID = errors.New("application id is required")
	ErrMissingDocumentType  = errors.New("document type id is required")
	ErrMissingFile          = errors.New("file is required")
	ErrTypeNotConfigured    = errors.New("no matching document type configured")
	ErrTypeAmbiguous        = errors.New("document type match is ambiguous")
)

type Config struct {
	MaxFileSize   int64    `mapstructure:"max_file_size_bytes"`
	FallbackCodes []string `mapstructure:"fallback_codes"`
}

// Uploader is the remote side of the upload flow, satisfied by Service and
// faked in tests.
type Uploader interface {
	Upload(ctx context.Context, applicationID, documentTypeID, filename, contentType string, size int64, file io.Reader) (*UploadResult, error)
}

type Service struct {
	client      *api.Client
	maxFileSize int64
}

func NewService(client *api.Client, config Config) *Service {
	maxFileSize := config.MaxFileSize
	if maxFileSize <= 0 {
		maxFileSize = defaultMaxFileSize
	}
	return &Service{
		client:      client,
		maxFileSize: maxFileSize,
	}
}

// Types fetches the document catalog sorted by display order.
func (s *Service) Types(ctx context.Context) ([]DocumentType, error) {
	var types []DocumentType
	if err := s.client.GetJSON(ctx, "/documents/types", &types); err != nil {
		return nil, fmt.Errorf("failed to fetch document types: %w", err)
	}
	sort.Slice(types, func(i, j int) bool {
		return types[i].DisplayOrder < types[j].DisplayOrder
	})
	return types, nil
}

// Upload sends one file for (applicationID, documentTypeID). All validation
// runs before any network call; a validation failure never reaches the wire.
func (s *Service) Upload(ctx context.Context, applicationID, documentTypeID, filename, contentType string, size int64, file io.Reader) (*UploadResult, error) {
	if applicationID == "" {
		return nil, ErrMissingApplicationID
	}
	if documentTypeID == "" {
		return nil, ErrMissingDocumentType
	}
	if filename == "" || file == nil {
		return nil, ErrMissingFile
	}
	if !allowedContentTypes[contentType] {
		return nil, fmt.Errorf("unsupported content type: %s", contentType)
	}
	if size > s.maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d)", size, s.maxFileSize)
	}

	fields := map[string]string{
		"application_id":   applicationID,
		"document_type_id": documentTypeID,
	}

	var result UploadResult
	if err := s.client.PostMultipart(ctx, "/documents/upload", fields, "file", filename, file, &result); err != nil {
		return nil, fmt.Errorf("failed to upload document: %w", err)
	}

	log.Info().
		Str("applicationId", applicationID).
		Str("documentTypeId", documentTypeID).
		Str("filename", filename).
		Bool("processOcr", result.ProcessOCR).
		Msg("Document uploaded")
	return &result, nil
}

// OcrResults fetches the extraction results for an application. Satisfies
// the poller's Fetcher interface.
func (s *Service) OcrResults(ctx context.Context, applicationID string) (*ocr.Result, error) {
	if applicationID == "" {
		return nil, ErrMissingApplicationID
	}
	var result ocr.Result
	if err := s.client.GetJSON(ctx, "/documents/application/"+applicationID+"/extracted-data", &result); err != nil {
		return nil, fmt.Errorf("failed to fetch extracted data: %w", err)
	}
	return &result, nil
}

// ResolveType picks the catalog entry for a wanted code. Exact match wins,
// then the configured fallback codes in order, then a unique substring
// match. Zero or ambiguous matches are errors rather than a silent pick of
// the first catalog entry.
func ResolveType(types []DocumentType, code string, fallbackCodes []string) (DocumentType, error) {
	for _, dt := range types {
		if dt.Code == code {
			return dt, nil
		}
	}

	for _, fallback := range fallbackCodes {
		for _, dt := range types {
			if dt.Code == fallback {
				return dt, nil
			}
		}
	}

	var matches []DocumentType
	for _, dt := range types {
		if strings.Contains(dt.Code, code) {
			matches = append(matches, dt)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return DocumentType{}, fmt.Errorf("%w: %s", ErrTypeNotConfigured, code)
	default:
		return DocumentType{}, fmt.Errorf("%w: %s matches %d types", ErrTypeAmbiguous, code, len(matches))
	}
}

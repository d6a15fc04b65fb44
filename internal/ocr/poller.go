package ocr

import (
	"context"
	"time"

	"github.com/applyflow/applyflow_client/internal/form"
	"github.com/rs/zerolog/log"
)

const (
	defaultInitialDelay = 2 * time.Second
	defaultInterval     = 2 * time.Second
	defaultMaxAttempts  = 15
)

type Config struct {
	InitialDelaySec int `mapstructure:"initial_delay_sec"`
	IntervalSec     int `mapstructure:"interval_sec"`
	MaxAttempts     int `mapstructure:"max_attempts"`
}

// Fetcher retrieves the extraction results for an application. The API
// service implements it; tests substitute a scripted fake.
type Fetcher interface {
	OcrResults(ctx context.Context, applicationID string) (*Result, error)
}

// Clock is the injected sleep primitive between poll attempts, so the loop
// is testable without real delays.
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PopulateSpec describes how one section's extracted fields map onto a form
// record.
type PopulateSpec struct {
	// Section is the key under the result's sections mapping.
	Section string
	// FieldMapping renames extracted field names to form field names.
	// Unmapped names pass through unchanged.
	FieldMapping map[string]string
	// SkipFields are extracted names that have no form counterpart.
	SkipFields []string
}

type Outcome int

const (
	// OutcomePopulated means extraction finished and fields were applied.
	// FieldsPopulated may be zero: uploaded, extracted, nothing usable.
	OutcomePopulated Outcome = iota
	// OutcomeNoData means extraction finished but produced nothing for the
	// section. Distinct from a timeout.
	OutcomeNoData
	// OutcomeTimeout means the attempt budget ran out before extraction
	// finished. The upload itself stands; only auto-fill is lost.
	OutcomeTimeout
)

type PollResult struct {
	Outcome         Outcome
	FieldsPopulated int
	Attempts        int
}

// Poller runs the fetch/wait loop after a document upload. Attempts for one
// poll are strictly sequential; independent polls may run concurrently since
// each writes only its own record.
type Poller struct {
	fetcher      Fetcher
	clock        Clock
	initialDelay time.Duration
	interval     time.Duration
	maxAttempts  int
}

func NewPoller(fetcher Fetcher, config Config) *Poller {
	p := &Poller{
		fetcher:      fetcher,
		clock:        realClock{},
		initialDelay: time.Duration(config.InitialDelaySec) * time.Second,
		interval:     time.Duration(config.IntervalSec) * time.Second,
		maxAttempts:  config.MaxAttempts,
	}
	if p.initialDelay <= 0 {
		p.initialDelay = defaultInitialDelay
	}
	if p.interval <= 0 {
		p.interval = defaultInterval
	}
	if p.maxAttempts <= 0 {
		p.maxAttempts = defaultMaxAttempts
	}
	return p
}

// WithClock substitutes the sleep primitive. Test hook.
func (p *Poller) WithClock(clock Clock) *Poller {
	p.clock = clock
	return p
}

// Poll fetches extraction results until the section is ready or the attempt
// budget is spent, then applies the extracted fields to rec. Cancelling ctx
// stops the loop before any further record mutation.
func (p *Poller) Poll(ctx context.Context, applicationID string, spec PopulateSpec, rec *form.Record) (*PollResult, error) {
	if err := p.clock.Sleep(ctx, p.initialDelay); err != nil {
		return nil, err
	}

	attempts := 0
	for {
		attempts++
		log.Debug().
			Str("applicationId", applicationID).
			Str("section", spec.Section).
			Int("attempt", attempts).
			Msg("Polling extraction results")

		result, err := p.fetcher.OcrResults(ctx, applicationID)
		if err == nil && result != nil {
			section := result.Sections[spec.Section]
			pending := result.Metadata.OCRPending

			if pending == 0 && !section.Empty() {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				populated := applyFields(section.Latest(), spec, rec)
				log.Info().
					Str("applicationId", applicationID).
					Str("section", spec.Section).
					Int("fieldsPopulated", populated).
					Msg("Extraction complete")
				return &PollResult{Outcome: OutcomePopulated, FieldsPopulated: populated, Attempts: attempts}, nil
			}

			if pending == 0 {
				log.Info().
					Str("applicationId", applicationID).
					Str("section", spec.Section).
					Msg("Extraction complete but produced no data")
				return &PollResult{Outcome: OutcomeNoData, Attempts: attempts}, nil
			}
		} else if err != nil {
			log.Debug().Err(err).Int("attempt", attempts).Msg("Extraction fetch failed")
		}

		if attempts >= p.maxAttempts {
			log.Warn().
				Str("applicationId", applicationID).
				Str("section", spec.Section).
				Int("attempts", attempts).
				Msg("Extraction polling timed out")
			return &PollResult{Outcome: OutcomeTimeout, Attempts: attempts}, nil
		}
		if err := p.clock.Sleep(ctx, p.interval); err != nil {
			return nil, err
		}
	}
}

// applyFields writes extracted values into the record. A field the user (or
// a prior extraction) already filled is never overwritten.
func applyFields(data *SectionData, spec PopulateSpec, rec *form.Record) int {
	if data == nil || data.ExtractedData == nil {
		return 0
	}

	skip := make(map[string]bool, len(spec.SkipFields))
	for _, f := range spec.SkipFields {
		skip[f] = true
	}

	populated := 0
	for name, value := range data.ExtractedData {
		if skip[name] {
			continue
		}
		field := name
		if mapped, ok := spec.FieldMapping[name]; ok {
			field = mapped
		}
		if !rec.IsEmpty(field) {
			continue
		}
		if value == nil {
			continue
		}
		if s, ok := value.(string); ok && s == "" {
			continue
		}
		rec.Set(field, value)
		populated++
	}
	return populated
}

package ocr

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/applyflow/applyflow_client/internal/form"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
)

// fakeClock records sleeps and returns immediately.
type fakeClock struct {
	sleeps []time.Duration
	cancel context.CancelFunc
	// cancelAfter cancels the context after this many sleeps (0 = never).
	cancelAfter int
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	if c.cancelAfter > 0 && len(c.sleeps) >= c.cancelAfter && c.cancel != nil {
		c.cancel()
	}
	return ctx.Err()
}

// scriptedFetcher returns its responses in order, repeating the last one.
type scriptedFetcher struct {
	responses []*Result
	errs      []error
	calls     int
}

func (f *scriptedFetcher) OcrResults(ctx context.Context, applicationID string) (*Result, error) {
	i := f.calls
	f.calls++
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return f.responses[i], err
}

func pendingResult(pending int) *Result {
	return &Result{Metadata: Metadata{OCRPending: pending}}
}

func personalResult(extracted map[string]interface{}) *Result {
	return &Result{
		Sections: map[string]Section{
			"personal_details": {Single: &SectionData{ExtractedData: extracted}},
		},
		Metadata: Metadata{OCRPending: 0, OCRCompleted: 1},
	}
}

func newTestPoller(fetcher Fetcher, clock Clock) *Poller {
	return NewPoller(fetcher, Config{}).WithClock(clock)
}

func TestPoller_ShouldPopulateEmptyFieldAfterPendingClears(t *testing.T) {
	// given two pending responses, then a completed one
	fetcher := &scriptedFetcher{responses: []*Result{
		pendingResult(1),
		pendingResult(1),
		personalResult(map[string]interface{}{"given_name": "Amit"}),
	}}
	clock := &fakeClock{}
	rec := form.NewPersonalDetails()

	// when
	result, err := newTestPoller(fetcher, clock).Poll(context.Background(), "app-1", PersonalDetailsSpec(), rec)

	// then
	assert.NoError(t, err)
	assert.Equal(t, OutcomePopulated, result.Outcome)
	assert.Equal(t, 1, result.FieldsPopulated)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, "Amit", rec.Get("given_name"))
	assert.True(t, rec.IsDirty("given_name"))
}

func TestPoller_ShouldNeverOverwriteExistingValue(t *testing.T) {
	// given
	fetcher := &scriptedFetcher{responses: []*Result{
		personalResult(map[string]interface{}{"given_name": "Amit"}),
	}}
	rec := form.NewPersonalDetails()
	rec.Set("given_name", "Ram")

	// when
	result, err := newTestPoller(fetcher, &fakeClock{}).Poll(context.Background(), "app-1", PersonalDetailsSpec(), rec)

	// then
	assert.NoError(t, err)
	assert.Equal(t, OutcomePopulated, result.Outcome)
	assert.Equal(t, 0, result.FieldsPopulated)
	assert.Equal(t, "Ram", rec.Get("given_name"))
}

func TestPoller_ShouldTimeOutAfterMaxAttemptsWithoutMutation(t *testing.T) {
	// given extraction that never finishes
	fetcher := &scriptedFetcher{responses: []*Result{pendingResult(1)}}
	clock := &fakeClock{}
	rec := form.NewPersonalDetails()

	// when
	result, err := newTestPoller(fetcher, clock).Poll(context.Background(), "app-1", PersonalDetailsSpec(), rec)

	// then
	assert.NoError(t, err)
	assert.Equal(t, OutcomeTimeout, result.Outcome)
	assert.Equal(t, 15, result.Attempts)
	for _, field := range rec.Fields() {
		assert.True(t, rec.IsEmpty(field))
	}
	// initial delay plus 14 retry waits
	assert.Len(t, clock.sleeps, 15)
}

func TestPoller_ShouldReportNoDataWhenSectionAbsent(t *testing.T) {
	// given extraction finished with nothing for the section
	fetcher := &scriptedFetcher{responses: []*Result{pendingResult(0)}}
	rec := form.NewLanguageCulture()

	// when
	result, err := newTestPoller(fetcher, &fakeClock{}).Poll(context.Background(), "app-1", LanguageCulturalSpec(), rec)

	// then
	assert.NoError(t, err)
	assert.Equal(t, OutcomeNoData, result.Outcome)
	assert.Equal(t, 1, result.Attempts)
}

func TestPoller_ShouldRetrySilentlyThroughFetchFailures(t *testing.T) {
	// given two failures, then success
	fetcher := &scriptedFetcher{
		responses: []*Result{nil, nil, personalResult(map[string]interface{}{"family_name": "Sharma"})},
		errs:      []error{fmt.Errorf("connection reset"), fmt.Errorf("bad gateway"), nil},
	}
	rec := form.NewPersonalDetails()

	// when
	result, err := newTestPoller(fetcher, &fakeClock{}).Poll(context.Background(), "app-1", PersonalDetailsSpec(), rec)

	// then
	assert.NoError(t, err)
	assert.Equal(t, OutcomePopulated, result.Outcome)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, "Sharma", rec.Get("family_name"))
}

func TestPoller_ShouldUseLastEntryOfRepeatedSection(t *testing.T) {
	// given a schooling history with two extracted entries
	fetcher := &scriptedFetcher{responses: []*Result{{
		Sections: map[string]Section{
			"schooling_history": {Repeated: []SectionData{
				{ExtractedData: map[string]interface{}{"institution_name": "Old School"}},
				{ExtractedData: map[string]interface{}{"institution_name": "ABC High School", "gpa": "3.8"}},
			}},
		},
		Metadata: Metadata{OCRPending: 0},
	}}}
	rec := form.NewSchoolingEntry()

	// when
	result, err := newTestPoller(fetcher, &fakeClock{}).Poll(context.Background(), "app-1", SchoolingSpec(), rec)

	// then
	assert.NoError(t, err)
	assert.Equal(t, 2, result.FieldsPopulated)
	assert.Equal(t, "ABC High School", rec.Get("institution"))
	assert.Equal(t, "3.8", rec.Get("result"))
}

func TestPoller_ShouldSkipDenylistedAndEmptyValues(t *testing.T) {
	// given
	fetcher := &scriptedFetcher{responses: []*Result{{
		Sections: map[string]Section{
			"language_cultural": {Single: &SectionData{ExtractedData: map[string]interface{}{
				"test_type":        "IELTS",
				"overall_score":    "7.5",
				"component_scores": map[string]interface{}{"reading": 8.0},
				"candidate_name":   "Amit Sharma",
				"first_language":   "",
				"english_test_date": nil,
			}}},
		},
		Metadata: Metadata{OCRPending: 0},
	}}}
	rec := form.NewLanguageCulture()

	// when
	result, err := newTestPoller(fetcher, &fakeClock{}).Poll(context.Background(), "app-1", LanguageCulturalSpec(), rec)

	// then
	assert.NoError(t, err)
	assert.Equal(t, 2, result.FieldsPopulated)
	assert.Equal(t, "IELTS", rec.Get("english_test_type"))
	assert.Equal(t, "7.5", rec.Get("english_test_score"))
	assert.True(t, rec.IsEmpty("first_language"))
	assert.True(t, rec.IsEmpty("english_test_date"))
}

func TestPoller_ShouldStopWithoutMutationWhenContextCancelled(t *testing.T) {
	// given a poll whose owner goes away during the first wait
	ctx, cancel := context.WithCancel(context.Background())
	clock := &fakeClock{cancel: cancel, cancelAfter: 1}
	fetcher := &scriptedFetcher{responses: []*Result{
		personalResult(map[string]interface{}{"given_name": "Amit"}),
	}}
	rec := form.NewPersonalDetails()

	// when
	result, err := newTestPoller(fetcher, clock).Poll(ctx, "app-1", PersonalDetailsSpec(), rec)

	// then
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
	assert.True(t, rec.IsEmpty("given_name"))
	assert.Equal(t, 0, fetcher.calls)
}

func TestSection_UnmarshalJSON_ShouldResolveBothWireShapes(t *testing.T) {
	// given
	payload := []byte(`{
		"application_id": "app-1",
		"sections": {
			"personal_details": {"extracted_data": {"given_name": "Amit"}},
			"schooling_history": [
				{"extracted_data": {"institution_name": "ABC"}},
				{"extracted_data": {"institution_name": "XYZ"}}
			]
		},
		"metadata": {"total_documents": 2, "ocr_completed": 2, "ocr_pending": 0, "ocr_failed": 0}
	}`)

	// when
	var result Result
	err := json.Unmarshal(payload, &result)

	// then
	assert.NoError(t, err)
	personal := result.Sections["personal_details"]
	assert.NotNil(t, personal.Single)
	assert.Nil(t, personal.Repeated)

	schooling := result.Sections["schooling_history"]
	assert.Nil(t, schooling.Single)
	assert.Len(t, schooling.Repeated, 2)
	assert.Equal(t, "XYZ", schooling.Latest().ExtractedData["institution_name"])
}

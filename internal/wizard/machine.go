package wizard

import (
	"errors"

	"github.com/applyflow/applyflow_client/internal/document"
	"github.com/applyflow/applyflow_client/internal/snapshot"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// ErrStepIncomplete rejects forward navigation past an unfinished step. The
// rejection carries no state change; the caller surfaces it to the user.
var ErrStepIncomplete = errors.New("please submit this step before continuing")

// Machine tracks the wizard's position and per-step completion. All
// mutations happen through named operations from the single UI goroutine.
type Machine struct {
	currentStep   int
	totalSteps    int
	completed     map[int]bool
	store         snapshot.Store
	applicationID string
}

func NewMachine(totalSteps int, store snapshot.Store) *Machine {
	return &Machine{
		currentStep: 1,
		totalSteps:  totalSteps,
		completed:   make(map[int]bool),
		store:       store,
	}
}

// SetApplicationID scopes position persistence to an application. Until it
// is set, position changes are in-memory only.
func (m *Machine) SetApplicationID(applicationID string) {
	m.applicationID = applicationID
}

func (m *Machine) CurrentStep() int {
	return m.currentStep
}

func (m *Machine) TotalSteps() int {
	return m.totalSteps
}

// GoToStep sets the position unconditionally (resume/reset path) and
// persists it.
func (m *Machine) GoToStep(step int) {
	m.currentStep = step
	if m.applicationID != "" && m.store != nil {
		m.store.SavePosition(m.applicationID, step)
	}
}

// RequestAdvance moves to targetStep if allowed: backward or same-step
// navigation is always allowed, forward navigation only once the current
// step is completed. A rejection leaves the position unchanged.
func (m *Machine) RequestAdvance(targetStep int) error {
	if targetStep <= m.currentStep {
		m.GoToStep(targetStep)
		return nil
	}
	if !m.completed[m.currentStep] {
		return ErrStepIncomplete
	}
	m.GoToStep(targetStep)
	return nil
}

// MarkStepCompleted is idempotent.
func (m *Machine) MarkStepCompleted(stepID int) {
	m.completed[stepID] = true
}

func (m *Machine) IsStepCompleted(stepID int) bool {
	return m.completed[stepID]
}

// Resume restores the saved position for the application, clamped to
// [1, totalSteps]. Without a saved position the wizard starts at step 1.
func (m *Machine) Resume() {
	step := 1
	if m.applicationID != "" && m.store != nil {
		if saved, ok := m.store.LoadPosition(m.applicationID); ok {
			step = saved
		}
	}
	if step < 1 {
		step = 1
	}
	if step > m.totalSteps {
		step = m.totalSteps
	}
	m.currentStep = step
}

// RefreshDocumentsCompletion re-evaluates the data-driven completion rule
// for the documents step: complete once every mandatory document type has an
// uploaded file recorded in the persisted snapshot. Called whenever
// persisted data changes, independent of explicit MarkStepCompleted calls.
func (m *Machine) RefreshDocumentsCompletion(stepID int, types []document.DocumentType) {
	if m.applicationID == "" || m.store == nil {
		return
	}
	raw, ok := m.store.Get(m.applicationID, stepID)
	if !ok {
		return
	}
	var snap document.StepSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		log.Warn().Err(err).Int("stepId", stepID).Msg("Failed to decode documents snapshot")
		return
	}
	if document.SnapshotComplete(types, snap) {
		m.MarkStepCompleted(stepID)
	}
}

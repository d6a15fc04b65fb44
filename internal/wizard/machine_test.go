package wizard

import (
	"testing"

	"github.com/applyflow/applyflow_client/internal/document"
	"github.com/applyflow/applyflow_client/internal/snapshot"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
)

func TestMachine_RequestAdvance_ShouldAlwaysAllowBackwardNavigation(t *testing.T) {
	// given
	m := NewMachine(7, snapshot.NewMemoryStore())
	m.GoToStep(4)

	// when
	err := m.RequestAdvance(2)

	// then
	assert.NoError(t, err)
	assert.Equal(t, 2, m.CurrentStep())
}

func TestMachine_RequestAdvance_ShouldRejectForwardFromIncompleteStep(t *testing.T) {
	// given
	m := NewMachine(7, snapshot.NewMemoryStore())
	m.GoToStep(3)

	// when
	err := m.RequestAdvance(4)

	// then
	assert.ErrorIs(t, err, ErrStepIncomplete)
	assert.Equal(t, 3, m.CurrentStep())
}

func TestMachine_RequestAdvance_ShouldAllowForwardOnceCompleted(t *testing.T) {
	// given
	m := NewMachine(7, snapshot.NewMemoryStore())
	m.GoToStep(3)
	m.MarkStepCompleted(3)

	// when
	err := m.RequestAdvance(5)

	// then
	assert.NoError(t, err)
	assert.Equal(t, 5, m.CurrentStep())
}

func TestMachine_MarkStepCompleted_ShouldBeIdempotent(t *testing.T) {
	// given
	m := NewMachine(7, snapshot.NewMemoryStore())

	// when
	m.MarkStepCompleted(2)
	m.MarkStepCompleted(2)

	// then
	assert.True(t, m.IsStepCompleted(2))
	m.GoToStep(2)
	assert.NoError(t, m.RequestAdvance(3))
}

func TestMachine_GoToStep_ShouldPersistPosition(t *testing.T) {
	// given
	store := snapshot.NewMemoryStore()
	m := NewMachine(7, store)
	m.SetApplicationID("app-1")

	// when
	m.GoToStep(5)

	// then
	step, ok := store.LoadPosition("app-1")
	assert.True(t, ok)
	assert.Equal(t, 5, step)
}

func TestMachine_Resume_ShouldClampSavedPositionToRange(t *testing.T) {
	// given a stale saved position beyond the step count
	store := snapshot.NewMemoryStore()
	store.SavePosition("app-1", 12)
	m := NewMachine(7, store)
	m.SetApplicationID("app-1")

	// when
	m.Resume()

	// then
	assert.Equal(t, 7, m.CurrentStep())
}

func TestMachine_Resume_ShouldStartAtOneWithoutSavedPosition(t *testing.T) {
	// given
	m := NewMachine(7, snapshot.NewMemoryStore())
	m.SetApplicationID("app-1")

	// when
	m.Resume()

	// then
	assert.Equal(t, 1, m.CurrentStep())
}

func TestMachine_RefreshDocumentsCompletion_ShouldFollowPersistedSnapshot(t *testing.T) {
	// given mandatory types A and B, with only A uploaded
	types := []document.DocumentType{
		{ID: "A", Code: "PASSPORT", IsMandatory: true},
		{ID: "B", Code: "ACADEMIC_TRANSCRIPT", IsMandatory: true},
	}
	store := snapshot.NewMemoryStore()
	m := NewMachine(7, store)
	m.SetApplicationID("app-1")

	snapA, _ := json.Marshal(document.StepSnapshot{Documents: map[string]document.TypeState{
		"A": {DocumentTypeID: "A", FileCount: 1, Uploaded: true},
	}})
	store.Set("app-1", DocumentsStep, snapA)

	// when
	m.RefreshDocumentsCompletion(DocumentsStep, types)

	// then
	assert.False(t, m.IsStepCompleted(DocumentsStep))

	// when B is uploaded too
	snapAB, _ := json.Marshal(document.StepSnapshot{Documents: map[string]document.TypeState{
		"A": {DocumentTypeID: "A", FileCount: 1, Uploaded: true},
		"B": {DocumentTypeID: "B", FileCount: 1, Uploaded: true},
	}})
	store.Set("app-1", DocumentsStep, snapAB)
	m.RefreshDocumentsCompletion(DocumentsStep, types)

	// then
	assert.True(t, m.IsStepCompleted(DocumentsStep))
}

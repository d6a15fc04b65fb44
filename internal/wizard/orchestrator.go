package wizard

import (
	"context"
	"fmt"

	"github.com/applyflow/applyflow_client/internal/application"
	"github.com/applyflow/applyflow_client/internal/document"
	"github.com/applyflow/applyflow_client/internal/form"
	"github.com/applyflow/applyflow_client/internal/snapshot"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// ApplicationClient is the slice of the application service the orchestrator
// needs.
type ApplicationClient interface {
	Create(ctx context.Context) (*application.Application, error)
	Get(ctx context.Context, applicationID string) (*application.Application, error)
	SubmitStep(ctx context.Context, applicationID string, stepID int, rec *form.Record) error
}

// CatalogClient fetches the document-type catalog.
type CatalogClient interface {
	Types(ctx context.Context) ([]document.DocumentType, error)
}

// Orchestrator composes the store, state machine, and backend clients per
// wizard session. It owns mount-time initialization: create-or-fetch of the
// application record and position resume.
type Orchestrator struct {
	machine *Machine
	store   snapshot.Store
	apps    ApplicationClient
	catalog CatalogClient
	steps   []StepDefinition

	applicationID string
	app           *application.Application
	types         []document.DocumentType
	created       bool
	fetched       bool
}

func NewOrchestrator(store snapshot.Store, apps ApplicationClient, catalog CatalogClient, applicationID string) *Orchestrator {
	steps := Steps()
	return &Orchestrator{
		machine:       NewMachine(len(steps), store),
		store:         store,
		apps:          apps,
		catalog:       catalog,
		steps:         steps,
		applicationID: applicationID,
	}
}

// Mount initializes a wizard session: ensures the application record exists
// (creating at most once, fetching at most once), resumes the step position,
// and persists it. Safe to call again after a transient failure; the
// create/fetch guards survive retries within one mount lifecycle.
func (o *Orchestrator) Mount(ctx context.Context) error {
	if o.applicationID == "" {
		if o.created {
			return fmt.Errorf("application creation already attempted")
		}
		o.created = true
		app, err := o.apps.Create(ctx)
		if err != nil {
			return fmt.Errorf("failed to create application: %w", err)
		}
		o.app = app
		o.applicationID = app.ID
	} else if !o.fetched {
		o.fetched = true
		app, err := o.apps.Get(ctx, o.applicationID)
		if err != nil {
			return fmt.Errorf("failed to fetch application: %w", err)
		}
		o.app = app
	}

	o.machine.SetApplicationID(o.applicationID)
	o.machine.Resume()
	o.resumePastPersistedSteps()

	// The catalog drives the documents-step completion rule; without it the
	// rule simply stays unevaluated.
	if types, err := o.catalog.Types(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to fetch document types")
	} else {
		o.types = types
		o.machine.RefreshDocumentsCompletion(DocumentsStep, o.types)
	}

	o.machine.GoToStep(o.machine.CurrentStep())
	log.Info().
		Str("applicationId", o.applicationID).
		Int("step", o.machine.CurrentStep()).
		Msg("Wizard mounted")
	return nil
}

// resumePastPersistedSteps advances to one past the highest step with a
// persisted snapshot, capped at the last step and never behind the current
// position.
func (o *Orchestrator) resumePastPersistedSteps() {
	persisted := o.store.GetAll(o.applicationID)
	highest := 0
	for stepID := range persisted {
		if stepID > highest {
			highest = stepID
		}
	}
	if highest == 0 {
		return
	}
	target := highest + 1
	if target > o.machine.TotalSteps() {
		target = o.machine.TotalSteps()
	}
	if target > o.machine.CurrentStep() {
		o.machine.GoToStep(target)
	}
}

func (o *Orchestrator) ApplicationID() string {
	return o.applicationID
}

func (o *Orchestrator) Application() *application.Application {
	return o.app
}

func (o *Orchestrator) Machine() *Machine {
	return o.machine
}

func (o *Orchestrator) DocumentTypes() []document.DocumentType {
	return o.types
}

// CurrentStep returns the definition of the step being displayed.
func (o *Orchestrator) CurrentStep() StepDefinition {
	return o.steps[o.machine.CurrentStep()-1]
}

// Navigate routes a step click through the state machine's gating.
func (o *Orchestrator) Navigate(targetStep int) error {
	if targetStep < 1 || targetStep > o.machine.TotalSteps() {
		return fmt.Errorf("step %d out of range", targetStep)
	}
	return o.machine.RequestAdvance(targetStep)
}

// SubmitStep persists the step snapshot, pushes the values to the backend,
// marks the step complete, and advances. The local snapshot is written
// before the network call so a failed submit still resumes in place.
func (o *Orchestrator) SubmitStep(ctx context.Context, stepID int, rec *form.Record) error {
	snap, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to serialize step %d: %w", stepID, err)
	}
	o.store.Set(o.applicationID, stepID, snap)

	if err := o.apps.SubmitStep(ctx, o.applicationID, stepID, rec); err != nil {
		return err
	}

	o.machine.MarkStepCompleted(stepID)
	if next := stepID + 1; next <= o.machine.TotalSteps() && stepID == o.machine.CurrentStep() {
		o.machine.GoToStep(next)
	}
	return nil
}

// SaveDocumentsSnapshot persists the documents step's file-free state and
// re-evaluates the inferred completion rule.
func (o *Orchestrator) SaveDocumentsSnapshot(tracker *document.Tracker) error {
	snap, err := json.Marshal(tracker.Snapshot(o.types))
	if err != nil {
		return fmt.Errorf("failed to serialize documents snapshot: %w", err)
	}
	o.store.Set(o.applicationID, DocumentsStep, snap)
	o.machine.RefreshDocumentsCompletion(DocumentsStep, o.types)
	return nil
}

// RestoreStep loads the persisted snapshot of a step into a fresh record.
// Returns a blank record when nothing is persisted or the step holds no
// record (the documents step).
func (o *Orchestrator) RestoreStep(stepID int) *form.Record {
	def := o.steps[stepID-1]
	if def.NewRecord == nil {
		return nil
	}
	rec := def.NewRecord()
	raw, ok := o.store.Get(o.applicationID, stepID)
	if !ok {
		return rec
	}
	if err := json.Unmarshal(raw, rec); err != nil {
		log.Warn().Err(err).Int("stepId", stepID).Msg("Failed to decode step snapshot")
	}
	return rec
}

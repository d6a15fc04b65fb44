package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/applyflow/applyflow_client/internal"
	"github.com/applyflow/applyflow_client/internal/api"
	"github.com/applyflow/applyflow_client/internal/application"
	"github.com/applyflow/applyflow_client/internal/auth"
	"github.com/applyflow/applyflow_client/internal/document"
	"github.com/applyflow/applyflow_client/internal/metrics"
	"github.com/applyflow/applyflow_client/internal/ocr"
	"github.com/applyflow/applyflow_client/internal/snapshot"
	"github.com/applyflow/applyflow_client/internal/wizard"
)

func main() {
	config, err := internal.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
		return
	}

	db, err := internal.NewDB()
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing database")
		return
	}
	defer db.Close()

	session := auth.NewSession(config.Auth)
	client := api.NewClient(config.API, session)
	authService := auth.NewService(client, config.Auth, session)

	ctx := context.Background()
	if email := os.Getenv("APPLYFLOW_EMAIL"); email != "" {
		if _, err := authService.Login(ctx, email, os.Getenv("APPLYFLOW_PASSWORD")); err != nil {
			log.Fatal().Err(err).Msg("Error establishing session")
			return
		}
	}

	store := snapshot.NewSQLiteStore(db)
	applicationService := application.NewService(client, config.Applications)
	documentService := document.NewService(client, config.Documents)
	poller := ocr.NewPoller(documentService, config.OCR)
	autofill := wizard.NewAutofill(documentService, poller, document.NewTracker())

	orchestrator := wizard.NewOrchestrator(store, applicationService, documentService, os.Getenv("APPLYFLOW_APPLICATION_ID"))
	if err := orchestrator.Mount(ctx); err != nil {
		log.Fatal().Err(err).Msg("Error mounting wizard session")
		return
	}
	log.Info().
		Str("applicationId", orchestrator.ApplicationID()).
		Int("step", orchestrator.Machine().CurrentStep()).
		Str("stepTitle", orchestrator.CurrentStep().Title).
		Msg("Wizard session ready")

	refresher := metrics.NewRefresher(metrics.NewService(client), config.Metrics)
	refresher.Start()
	defer refresher.Stop()

	runResumedSession(ctx, orchestrator, autofill)
}

// runResumedSession replays the restorable state of the resumed session
// so an embedding caller can see where the applicant left off.
func runResumedSession(ctx context.Context, orchestrator *wizard.Orchestrator, autofill *wizard.Autofill) {
	for _, step := range wizard.Steps() {
		rec := orchestrator.RestoreStep(step.ID)
		if rec == nil {
			continue
		}
		log.Info().
			Int("step", step.ID).
			Str("title", step.Title).
			Int("fields", len(rec.Fields())).
			Msg("Restored step snapshot")
	}

	log.Info().
		Bool("documentsComplete", orchestrator.Machine().IsStepCompleted(wizard.DocumentsStep)).
		Int("trackedFiles", autofill.Tracker().Len()).
		Msg("Documents step state")
}

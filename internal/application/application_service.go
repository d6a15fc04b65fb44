package application

import (
	"context"
	"fmt"

	"github.com/applyflow/applyflow_client/internal/api"
	"github.com/applyflow/applyflow_client/internal/form"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AgentProfileID   string `mapstructure:"agent_profile_id"`
	CourseOfferingID string `mapstructure:"course_offering_id"`
}

type Service struct {
	client *api.Client
	config Config
}

func NewService(client *api.Client, config Config) *Service {
	return &Service{
		client: client,
		config: config,
	}
}

// Create registers a new application record and returns it.
func (s *Service) Create(ctx context.Context) (*Application, error) {
	if s.config.AgentProfileID == "" {
		return nil, fmt.Errorf("agent profile id cannot be empty")
	}
	if s.config.CourseOfferingID == "" {
		return nil, fmt.Errorf("course offering id cannot be empty")
	}

	req := CreateRequest{
		AgentProfileID:   s.config.AgentProfileID,
		CourseOfferingID: s.config.CourseOfferingID,
	}
	var app Application
	if err := s.client.PostJSON(ctx, "/applications", req, &app); err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	log.Info().Str("applicationId", app.ID).Msg("Application created")
	return &app, nil
}

// Get fetches the backend record for an existing application.
func (s *Service) Get(ctx context.Context, applicationID string) (*Application, error) {
	if applicationID == "" {
		return nil, fmt.Errorf("application id cannot be empty")
	}
	var app Application
	if err := s.client.GetJSON(ctx, "/applications/"+applicationID, &app); err != nil {
		return nil, fmt.Errorf("failed to fetch application: %w", err)
	}
	return &app, nil
}

// SubmitStep pushes one step's form values to the backend.
func (s *Service) SubmitStep(ctx context.Context, applicationID string, stepID int, rec *form.Record) error {
	if applicationID == "" {
		return fmt.Errorf("application id cannot be empty")
	}
	path := fmt.Sprintf("/applications/%s/steps/%d", applicationID, stepID)
	if err := s.client.PostJSON(ctx, path, rec, nil); err != nil {
		return fmt.Errorf("failed to submit step %d: %w", stepID, err)
	}
	log.Info().Str("applicationId", applicationID).Int("stepId", stepID).Msg("Step submitted")
	return nil
}

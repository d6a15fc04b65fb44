package metrics

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/applyflow/applyflow_client/internal/api"
)

// Service fetches staff metrics. On any error the zero-valued counter
// set is returned alongside the error so callers can render an empty
// dashboard without nil checks.
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Get returns the metrics scoped to the caller's RTO profile.
func (s *Service) Get(ctx context.Context) (StaffMetrics, error) {
	var metrics StaffMetrics
	if err := s.client.GetJSON(ctx, "/staff/metrics", &metrics); err != nil {
		log.Warn().Err(err).Msg("Failed to fetch staff metrics")
		return StaffMetrics{}, fmt.Errorf("failed to fetch staff metrics: %w", err)
	}
	return metrics, nil
}

// GetAll returns the metrics across all RTO profiles.
func (s *Service) GetAll(ctx context.Context) (StaffMetrics, error) {
	var metrics StaffMetrics
	if err := s.client.GetJSON(ctx, "/staff/metrics/all", &metrics); err != nil {
		log.Warn().Err(err).Msg("Failed to fetch aggregate staff metrics")
		return StaffMetrics{}, fmt.Errorf("failed to fetch aggregate staff metrics: %w", err)
	}
	return metrics, nil
}

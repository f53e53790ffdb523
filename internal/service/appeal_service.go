package service

import (
	"context"
	"fmt"

	"verity/internal/domain"
	"verity/internal/generate"
)

// AppealService generates appeal letters and phone scripts for denied claims.
type AppealService struct{}

// NewAppealService creates an AppealService.
func NewAppealService() *AppealService {
	return &AppealService{}
}

// Generate renders the appeal content for a denial.
func (s *AppealService) Generate(_ context.Context, in *domain.AppealInput) (*domain.AppealContent, error) {
	if in.Service == "" || in.DenialReason == "" || in.DesiredOutcome == "" {
		return nil, fmt.Errorf("%w: service, denial_reason, desired_outcome", domain.ErrMissingFields)
	}
	if in.Urgency == "" {
		in.Urgency = domain.UrgencyPlanned
	}
	return generate.Appeal(in)
}

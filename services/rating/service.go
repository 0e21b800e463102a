package rating

import (
	"context"
	"fmt"

	contractorRepo "keyhubcentral/database/repository/contractor"
	"keyhubcentral/models"
	"keyhubcentral/services"

	"go.uber.org/zap"
)

// Service persists rating mutations. Every write path, admin edits and
// customer submissions alike, funnels through the same update so the
// overall-score invariant cannot drift.
type Service interface {
	MergeContractorRating(ctx context.Context, contractorID string, update CategoryUpdate) (*models.Rating, error)
	ResetContractorRating(ctx context.Context, contractorID string) (*models.Rating, error)
}

// DefaultService is the Mongo-backed implementation.
type DefaultService struct {
	Contractors contractorRepo.Repository
	Logger      *zap.Logger
}

// MergeContractorRating applies a partial category update atomically and
// returns the merged rating. The read-modify-write is guarded by the
// previous overall score and retried once on a lost race.
func (s *DefaultService) MergeContractorRating(ctx context.Context, contractorID string, update CategoryUpdate) (*models.Rating, error) {
	if err := validateUpdate(update); err != nil {
		return nil, err
	}

	const attempts = 2
	for attempt := 1; attempt <= attempts; attempt++ {
		contractor, err := s.Contractors.GetByID(ctx, contractorID)
		if err != nil {
			return nil, fmt.Errorf("merge rating: %w", err)
		}
		if contractor == nil {
			return nil, &services.NotFoundError{Resource: "contractor", ID: contractorID}
		}

		next := UpdateRating(contractor.Rating, update)
		updated, err := s.Contractors.UpdateRating(ctx, contractorID, contractor.Rating.Overall, next)
		if err != nil {
			return nil, fmt.Errorf("merge rating: %w", err)
		}
		if updated != nil {
			return &updated.Rating, nil
		}
		if s.Logger != nil {
			s.Logger.Warn("rating update lost a race, retrying",
				zap.String("contractorId", contractorID), zap.Int("attempt", attempt))
		}
	}
	return nil, &services.ConcurrencyError{Resource: "contractor", ID: contractorID}
}

// ResetContractorRating restores every category to the neutral default and
// recomputes the overall score.
func (s *DefaultService) ResetContractorRating(ctx context.Context, contractorID string) (*models.Rating, error) {
	neutral := NeutralCategoryScore
	return s.MergeContractorRating(ctx, contractorID, CategoryUpdate{
		Customer: &neutral,
		Speed:    &neutral,
		Warranty: &neutral,
		Internal: &neutral,
	})
}

func validateUpdate(update CategoryUpdate) error {
	check := func(field string, v *float64) error {
		if v == nil {
			return nil
		}
		if *v < MinCategoryScore || *v > MaxCategoryScore {
			return &services.ValidationError{
				Field:   field,
				Message: fmt.Sprintf("must be between %.1f and %.1f", MinCategoryScore, MaxCategoryScore),
			}
		}
		return nil
	}
	if err := check("customer", update.Customer); err != nil {
		return err
	}
	if err := check("speed", update.Speed); err != nil {
		return err
	}
	if err := check("warranty", update.Warranty); err != nil {
		return err
	}
	return check("internal", update.Internal)
}

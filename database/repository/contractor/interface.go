package contractorRepo

import (
	"context"

	"keyhubcentral/models"
)

// Repository defines persistence operations for contractors.
type Repository interface {
	GetByID(ctx context.Context, id string) (*models.Contractor, error)
	// GetActive returns active contractors, optionally narrowed to those
	// holding at least one of the given trades.
	GetActive(ctx context.Context, trades []models.Trade) ([]models.Contractor, error)
	Create(ctx context.Context, contractor *models.Contractor) error
	Update(ctx context.Context, contractor *models.Contractor) error
	// UpdateRating atomically replaces the rating of the contractor whose
	// current overall matches prevOverall. It returns the updated contractor,
	// (nil, nil) when the contractor exists but the guard did not match, and
	// an error when the contractor does not exist.
	UpdateRating(ctx context.Context, id string, prevOverall float64, rating models.Rating) (*models.Contractor, error)
	Delete(ctx context.Context, id string) error
}

package availabilityRepo

import (
	"context"

	"keyhubcentral/models"
)

// Repository defines persistence for per-contractor, per-day availability
// records. Absence of a record means the contractor is available; callers
// apply that default, the repository only reports what is stored.
type Repository interface {
	// Get returns the record for the exact (contractorID, date) key, or nil
	// when none exists.
	Get(ctx context.Context, contractorID, date string) (*models.Availability, error)
	// GetRange returns records with startDate <= date <= endDate, ascending
	// by date.
	GetRange(ctx context.Context, contractorID, startDate, endDate string) ([]models.Availability, error)
	// Set upserts the record for its (contractorID, date) key. Last write
	// wins; status and notes are fully replaced.
	Set(ctx context.Context, record *models.Availability) error
	// Clear deletes the record for the key. Deleting a missing record is a
	// no-op.
	Clear(ctx context.Context, contractorID, date string) error
	// GetManyForDate fetches records for many contractors on one date in a
	// single batched query. Records scoped to a different block than the one
	// requested are still returned; the caller resolves block precedence.
	GetManyForDate(ctx context.Context, contractorIDs []string, date string) ([]models.Availability, error)
}

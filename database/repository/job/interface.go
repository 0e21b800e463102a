package jobRepo

import (
	"context"

	"keyhubcentral/models"
)

// Repository is the read-only view of the jobs pipeline the contractor core
// needs: completion events and recommendation requests reference jobs, they
// never mutate them.
type Repository interface {
	// GetByID returns the job, or nil when none exists.
	GetByID(ctx context.Context, id string) (*models.Job, error)
}

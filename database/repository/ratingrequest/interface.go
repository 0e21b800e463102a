package ratingRequestRepo

import (
	"context"
	"time"

	"keyhubcentral/models"
)

// Repository defines persistence for rating requests.
type Repository interface {
	// GetByToken returns the request for a token, or nil when none exists.
	GetByToken(ctx context.Context, token string) (*models.RatingRequest, error)
	// CreateIfAbsent inserts the request unless one already exists for its
	// (jobId, contractorId) natural key. It reports whether a new record was
	// created, making duplicate job-completion events harmless.
	CreateIfAbsent(ctx context.Context, request *models.RatingRequest) (bool, error)
	// ListByJob returns all requests created for one job.
	ListByJob(ctx context.Context, jobID string) ([]models.RatingRequest, error)
	// ListCompletedByContractor returns every completed request carrying a
	// rating for the contractor; input to the customer-category average.
	ListCompletedByContractor(ctx context.Context, contractorID string) ([]models.RatingRequest, error)
	// MarkCompleted transitions a pending request to completed with the
	// submitted rating. It reports whether the transition happened; false
	// means the request was not pending anymore.
	MarkCompleted(ctx context.Context, token string, rating float64, completedAt time.Time) (bool, error)
	// MarkExpired flips a single pending request to expired.
	MarkExpired(ctx context.Context, token string) error
	// ExpireOverdue flips every pending request past its deadline to expired
	// and returns how many were flipped.
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

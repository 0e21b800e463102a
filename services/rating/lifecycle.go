package rating

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	contractorRepo "keyhubcentral/database/repository/contractor"
	jobRepo "keyhubcentral/database/repository/job"
	ratingRequestRepo "keyhubcentral/database/repository/ratingrequest"
	"keyhubcentral/models"
	"keyhubcentral/services"

	"go.uber.org/zap"
)

// tokenBytes yields a 32-character hex token. The token is a single-use link
// identifier, but it travels in customer email, so it comes from crypto/rand.
const tokenBytes = 16

// LifecycleService drives rating requests from job completion through
// customer submission and back into the contractor's rating.
type LifecycleService struct {
	Requests    ratingRequestRepo.Repository
	Contractors contractorRepo.Repository
	Jobs        jobRepo.Repository
	Rating      Service
	Logger      *zap.Logger

	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *LifecycleService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// HandleJobCompleted creates one pending rating request per crew member of a
// completed job. Crew IDs that no longer resolve to a contractor are skipped.
// The (jobId, contractorId) natural key makes re-delivery of the same
// completion event a no-op.
func (s *LifecycleService) HandleJobCompleted(ctx context.Context, jobID string) ([]models.RatingRequest, error) {
	job, err := s.Jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("job completion: %w", err)
	}
	if job == nil {
		return nil, &services.NotFoundError{Resource: "job", ID: jobID}
	}
	if !job.HasCustomerContact() {
		if s.Logger != nil {
			s.Logger.Info("job completed without customer contact, skipping rating requests",
				zap.String("jobId", jobID))
		}
		return nil, nil
	}

	now := s.now()
	var created []models.RatingRequest
	for _, contractorID := range job.CrewIDs {
		contractor, err := s.Contractors.GetByID(ctx, contractorID)
		if err != nil {
			return created, fmt.Errorf("job completion: %w", err)
		}
		if contractor == nil {
			if s.Logger != nil {
				s.Logger.Warn("crew member no longer resolves to a contractor",
					zap.String("jobId", jobID), zap.String("contractorId", contractorID))
			}
			continue
		}

		token, err := newToken()
		if err != nil {
			return created, fmt.Errorf("job completion: %w", err)
		}
		request := models.RatingRequest{
			Token:         token,
			JobID:         job.ID,
			ContractorID:  contractorID,
			CustomerEmail: job.CustomerEmail,
			CustomerPhone: job.CustomerPhone,
			Status:        models.RequestPending,
			CreatedAt:     now,
			ExpiresAt:     now.Add(models.RatingRequestTTL),
		}
		inserted, err := s.Requests.CreateIfAbsent(ctx, &request)
		if err != nil {
			return created, fmt.Errorf("job completion: %w", err)
		}
		if inserted {
			created = append(created, request)
		}
	}
	return created, nil
}

// GetRequest returns the request for a token, lazily expiring it when its
// deadline has passed.
func (s *LifecycleService) GetRequest(ctx context.Context, token string) (*models.RatingRequest, error) {
	request, err := s.Requests.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, &services.NotFoundError{Resource: "rating request", ID: token}
	}
	if request.ExpiredBy(s.now()) {
		if err := s.Requests.MarkExpired(ctx, token); err != nil {
			return nil, err
		}
		request.Status = models.RequestExpired
	}
	return request, nil
}

// SubmitRating records a customer rating against a pending request, then
// recomputes the contractor's customer category as the mean of all completed
// requests. This is the only path besides a direct admin edit that touches
// the customer category, and both go through the same merge.
func (s *LifecycleService) SubmitRating(ctx context.Context, token string, value float64) (*models.Rating, error) {
	if value < MinCategoryScore || value > MaxCategoryScore {
		return nil, &services.ValidationError{
			Field:   "rating",
			Message: fmt.Sprintf("must be between %.0f and %.0f", MinCategoryScore, MaxCategoryScore),
		}
	}

	request, err := s.GetRequest(ctx, token)
	if err != nil {
		return nil, err
	}
	switch request.Status {
	case models.RequestCompleted:
		return nil, &services.ValidationError{Field: "token", Message: "rating already submitted"}
	case models.RequestExpired:
		return nil, &services.ValidationError{Field: "token", Message: "rating request has expired"}
	}

	transitioned, err := s.Requests.MarkCompleted(ctx, token, value, s.now())
	if err != nil {
		return nil, fmt.Errorf("submit rating: %w", err)
	}
	if !transitioned {
		// Another submission won the race.
		return nil, &services.ValidationError{Field: "token", Message: "rating already submitted"}
	}

	average, err := s.customerAverage(ctx, request.ContractorID)
	if err != nil {
		return nil, err
	}
	return s.Rating.MergeContractorRating(ctx, request.ContractorID, CategoryUpdate{Customer: &average})
}

// ExpireOverdue flips every pending request past its deadline. Readers
// already expire lazily; the sweep keeps reporting queries honest.
func (s *LifecycleService) ExpireOverdue(ctx context.Context) (int64, error) {
	return s.Requests.ExpireOverdue(ctx, s.now())
}

// customerAverage is the arithmetic mean of all completed requests' ratings
// for the contractor, rounded to one decimal.
func (s *LifecycleService) customerAverage(ctx context.Context, contractorID string) (float64, error) {
	completed, err := s.Requests.ListCompletedByContractor(ctx, contractorID)
	if err != nil {
		return 0, fmt.Errorf("customer average: %w", err)
	}
	var sum float64
	var count int
	for _, request := range completed {
		if request.Rating == nil {
			continue
		}
		sum += *request.Rating
		count++
	}
	if count == 0 {
		return NeutralCategoryScore, nil
	}
	return RoundScore(sum / float64(count)), nil
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

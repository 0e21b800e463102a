package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	contractorRepo "keyhubcentral/database/repository/contractor"
	"keyhubcentral/models"
	"keyhubcentral/services"
	availabilitySvc "keyhubcentral/services/availability"
	"keyhubcentral/services/geocode"

	"go.uber.org/zap"
)

// Combined-score weights. They must sum to 1.0; availability dominates
// because an unavailable crew is useless however close or well rated.
const (
	AvailabilityWeight = 0.40
	DistanceWeight     = 0.35
	RatingWeight       = 0.25
)

// Sub-score assigned per availability status.
const (
	AvailableScore   = 100.0
	BusyScore        = 50.0
	UnavailableScore = 0.0
)

// ratingScale converts a 1–5 overall rating onto the 0–100 score axis.
const ratingScale = 20.0

// Engine ranks contractors for a job. Results are computed fresh on every
// call and never cached: availability and ratings move between calls.
type Engine interface {
	Recommend(ctx context.Context, req models.RecommendationRequest) (*models.RecommendationResult, error)
}

// DefaultEngine is the production implementation.
type DefaultEngine struct {
	Contractors  contractorRepo.Repository
	Availability availabilitySvc.Service
	Geocoder     geocode.Geocoder
	Logger       *zap.Logger
}

// Recommend returns contractors ranked by weighted score, descending. Ties
// break by ascending distance, then descending rating, then contractor ID,
// so identical inputs always produce identical ordering.
func (e *DefaultEngine) Recommend(ctx context.Context, req models.RecommendationRequest) (*models.RecommendationResult, error) {
	if _, err := time.Parse(models.DateLayout, req.Date); err != nil {
		return nil, &services.ValidationError{Field: "date", Message: "must be a YYYY-MM-DD date"}
	}
	if !models.ValidTimeBlock(req.TimeBlock) {
		return nil, &services.ValidationError{Field: "timeBlock", Message: "unknown time block"}
	}

	jobLocation := e.resolveJobLocation(ctx, req)

	contractors, err := e.Contractors.GetActive(ctx, req.Filters.Trades)
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}
	if len(contractors) == 0 {
		return &models.RecommendationResult{Reason: models.ReasonNoCandidates}, nil
	}

	ids := make([]string, len(contractors))
	for i := range contractors {
		ids[i] = contractors[i].ID
	}
	statuses, err := e.Availability.StatusesForBlock(ctx, ids, req.Date, req.TimeBlock)
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}

	// Candidates are independent; score them in parallel. Each goroutine owns
	// one slot of the results slice, so no lock is needed.
	results := make([]*models.ContractorRecommendation, len(contractors))
	var wg sync.WaitGroup
	for i := range contractors {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = e.score(&contractors[i], statuses[contractors[i].ID], jobLocation, req.Filters)
		}(i)
	}
	wg.Wait()

	recommendations := make([]models.ContractorRecommendation, 0, len(contractors))
	for _, r := range results {
		if r != nil {
			recommendations = append(recommendations, *r)
		}
	}
	if len(recommendations) == 0 {
		reason := models.ReasonNoCandidates
		if jobLocation == nil {
			reason = models.ReasonLocationUnresolved
		}
		return &models.RecommendationResult{Reason: reason}, nil
	}

	sort.Slice(recommendations, func(i, j int) bool {
		a, b := &recommendations[i], &recommendations[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if *a.DistanceMiles != *b.DistanceMiles {
			return *a.DistanceMiles < *b.DistanceMiles
		}
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		return a.Contractor.ID < b.Contractor.ID
	})

	if limit := req.Filters.Limit; limit > 0 && limit < len(recommendations) {
		recommendations = recommendations[:limit]
	}
	return &models.RecommendationResult{Recommendations: recommendations}, nil
}

// score evaluates one candidate, returning nil when a filter excludes it.
func (e *DefaultEngine) score(contractor *models.Contractor, status models.AvailabilityStatus, jobLocation *models.GeoPoint, filters models.RecommendationFilters) *models.ContractorRecommendation {
	if filters.OnlyAvailable && status != models.StatusAvailable {
		return nil
	}

	// An unresolved location on either side means the candidate cannot be
	// scored, so it is excluded rather than given a fake distance.
	distance := Distance(jobLocation, contractor.Location)
	if distance == nil {
		return nil
	}
	if filters.MaxDistanceMiles != nil && *distance > *filters.MaxDistanceMiles {
		return nil
	}

	overall := contractor.Rating.Overall
	if filters.MinRating != nil && overall < *filters.MinRating {
		return nil
	}

	radius := contractor.EffectiveServiceRadius()
	availabilityScore := availabilitySubScore(status)
	distanceScore := ProximityScore(*distance, radius)
	ratingScore := clampScore(overall * ratingScale)

	breakdown := models.ScoreBreakdown{
		Availability: roundScore(availabilityScore * AvailabilityWeight),
		Distance:     roundScore(distanceScore * DistanceWeight),
		Rating:       roundScore(ratingScore * RatingWeight),
	}
	total := roundScore(availabilityScore*AvailabilityWeight +
		distanceScore*DistanceWeight +
		ratingScore*RatingWeight)

	return &models.ContractorRecommendation{
		Contractor:          *contractor,
		Score:               total,
		DistanceMiles:       distance,
		Rating:              overall,
		AvailabilityStatus:  status,
		WithinServiceRadius: IsWithinServiceRadius(*distance, radius),
		Breakdown:           breakdown,
	}
}

// resolveJobLocation prefers pre-resolved coordinates, falling back to
// geocoding the address. Geocoding failure is soft: candidates will all be
// excluded and the result carries a location_unresolved reason.
func (e *DefaultEngine) resolveJobLocation(ctx context.Context, req models.RecommendationRequest) *models.GeoPoint {
	if req.Location != nil {
		return req.Location
	}
	if req.Address == "" || e.Geocoder == nil {
		return nil
	}
	point, err := e.Geocoder.Geocode(ctx, req.Address)
	if err != nil {
		var unresolved *services.UnresolvedLocationError
		if !errors.As(err, &unresolved) && e.Logger != nil {
			e.Logger.Error("unexpected geocoding failure", zap.Error(err))
		} else if e.Logger != nil {
			e.Logger.Warn("job address could not be geocoded", zap.String("address", req.Address))
		}
		return nil
	}
	return point
}

func availabilitySubScore(status models.AvailabilityStatus) float64 {
	switch status {
	case models.StatusAvailable:
		return AvailableScore
	case models.StatusBusy:
		return BusyScore
	default:
		return UnavailableScore
	}
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func roundScore(v float64) float64 {
	return math.Round(v*10) / 10
}

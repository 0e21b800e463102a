package rating_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"keyhubcentral/models"
)

// fakeContractorRepo is an in-memory stand-in for the Mongo contractor
// repository.
type fakeContractorRepo struct {
	mu          sync.Mutex
	contractors map[string]models.Contractor
	// failGuard makes the next n UpdateRating calls report a lost race.
	failGuard int
}

func newFakeContractorRepo(contractors ...models.Contractor) *fakeContractorRepo {
	repo := &fakeContractorRepo{contractors: make(map[string]models.Contractor)}
	for _, c := range contractors {
		repo.contractors[c.ID] = c
	}
	return repo
}

func (r *fakeContractorRepo) GetByID(_ context.Context, id string) (*models.Contractor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contractors[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeContractorRepo) GetActive(_ context.Context, trades []models.Trade) ([]models.Contractor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var active []models.Contractor
	for _, c := range r.contractors {
		if c.Status == models.ContractorActive && c.HasAnyTrade(trades) {
			active = append(active, c)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })
	return active, nil
}

func (r *fakeContractorRepo) Create(_ context.Context, c *models.Contractor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contractors[c.ID] = *c
	return nil
}

func (r *fakeContractorRepo) Update(_ context.Context, c *models.Contractor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contractors[c.ID] = *c
	return nil
}

func (r *fakeContractorRepo) UpdateRating(_ context.Context, id string, prevOverall float64, next models.Rating) (*models.Contractor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contractors[id]
	if !ok {
		return nil, nil
	}
	if r.failGuard > 0 {
		r.failGuard--
		return nil, nil
	}
	if c.Rating.Overall != prevOverall {
		return nil, nil
	}
	c.Rating = next
	r.contractors[id] = c
	return &c, nil
}

func (r *fakeContractorRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.contractors, id)
	return nil
}

// fakeRequestRepo is an in-memory rating-request store enforcing the
// (jobId, contractorId) natural key.
type fakeRequestRepo struct {
	mu       sync.Mutex
	requests map[string]models.RatingRequest // keyed by token
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]models.RatingRequest)}
}

func (r *fakeRequestRepo) GetByToken(_ context.Context, token string) (*models.RatingRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[token]
	if !ok {
		return nil, nil
	}
	return &req, nil
}

func (r *fakeRequestRepo) CreateIfAbsent(_ context.Context, request *models.RatingRequest) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.requests {
		if existing.JobID == request.JobID && existing.ContractorID == request.ContractorID {
			return false, nil
		}
	}
	r.requests[request.Token] = *request
	return true, nil
}

func (r *fakeRequestRepo) ListByJob(_ context.Context, jobID string) ([]models.RatingRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.RatingRequest
	for _, req := range r.requests {
		if req.JobID == jobID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) ListCompletedByContractor(_ context.Context, contractorID string) ([]models.RatingRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.RatingRequest
	for _, req := range r.requests {
		if req.ContractorID == contractorID && req.Status == models.RequestCompleted {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) MarkCompleted(_ context.Context, token string, rating float64, completedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[token]
	if !ok || req.Status != models.RequestPending {
		return false, nil
	}
	req.Status = models.RequestCompleted
	req.Rating = &rating
	req.CompletedAt = &completedAt
	r.requests[token] = req
	return true, nil
}

func (r *fakeRequestRepo) MarkExpired(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[token]
	if ok && req.Status == models.RequestPending {
		req.Status = models.RequestExpired
		r.requests[token] = req
	}
	return nil
}

func (r *fakeRequestRepo) ExpireOverdue(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var flipped int64
	for token, req := range r.requests {
		if req.Status == models.RequestPending && now.After(req.ExpiresAt) {
			req.Status = models.RequestExpired
			r.requests[token] = req
			flipped++
		}
	}
	return flipped, nil
}

// fakeJobRepo serves jobs from a fixed map.
type fakeJobRepo struct {
	jobs map[string]models.Job
}

func (r *fakeJobRepo) GetByID(_ context.Context, id string) (*models.Job, error) {
	job, ok := r.jobs[id]
	if !ok {
		return nil, nil
	}
	return &job, nil
}

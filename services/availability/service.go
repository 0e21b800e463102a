package availability

import (
	"context"
	"time"

	availabilityRepo "keyhubcentral/database/repository/availability"
	"keyhubcentral/models"
	"keyhubcentral/services"
)

// Service is the availability store: per-contractor, per-day status records
// with the "no record means available" default applied here, not in callers.
type Service interface {
	Get(ctx context.Context, contractorID, date string) (*models.Availability, error)
	GetRange(ctx context.Context, contractorID, startDate, endDate string) ([]models.Availability, error)
	Set(ctx context.Context, record *models.Availability) error
	Clear(ctx context.Context, contractorID, date string) error
	// StatusesForBlock resolves the effective status of many contractors for
	// one (date, timeBlock) in a single batched fetch. Contractors with no
	// applicable record map to available.
	StatusesForBlock(ctx context.Context, contractorIDs []string, date string, block models.TimeBlock) (map[string]models.AvailabilityStatus, error)
}

// DefaultService validates inputs and delegates persistence to the repository.
type DefaultService struct {
	Repo availabilityRepo.Repository
}

func (s *DefaultService) Get(ctx context.Context, contractorID, date string) (*models.Availability, error) {
	if err := validateDate("date", date); err != nil {
		return nil, err
	}
	return s.Repo.Get(ctx, contractorID, date)
}

func (s *DefaultService) GetRange(ctx context.Context, contractorID, startDate, endDate string) ([]models.Availability, error) {
	if err := validateDate("startDate", startDate); err != nil {
		return nil, err
	}
	if err := validateDate("endDate", endDate); err != nil {
		return nil, err
	}
	if endDate < startDate {
		return nil, &services.ValidationError{Field: "endDate", Message: "must not precede startDate"}
	}
	return s.Repo.GetRange(ctx, contractorID, startDate, endDate)
}

// Set upserts the contractor's record for the day. Last write wins: a later
// Set fully replaces status, block scope, and notes.
func (s *DefaultService) Set(ctx context.Context, record *models.Availability) error {
	if record.ContractorID == "" {
		return &services.ValidationError{Field: "contractorId", Message: "is required"}
	}
	if err := validateDate("date", record.Date); err != nil {
		return err
	}
	if !models.ValidAvailabilityStatus(record.Status) {
		return &services.ValidationError{Field: "status", Message: "unknown availability status"}
	}
	if !models.ValidTimeBlock(record.TimeBlock) {
		return &services.ValidationError{Field: "timeBlock", Message: "unknown time block"}
	}
	record.UpdatedAt = time.Now().UTC()
	return s.Repo.Set(ctx, record)
}

func (s *DefaultService) Clear(ctx context.Context, contractorID, date string) error {
	if err := validateDate("date", date); err != nil {
		return err
	}
	return s.Repo.Clear(ctx, contractorID, date)
}

func (s *DefaultService) StatusesForBlock(ctx context.Context, contractorIDs []string, date string, block models.TimeBlock) (map[string]models.AvailabilityStatus, error) {
	if err := validateDate("date", date); err != nil {
		return nil, err
	}
	if !models.ValidTimeBlock(block) {
		return nil, &services.ValidationError{Field: "timeBlock", Message: "unknown time block"}
	}

	statuses := make(map[string]models.AvailabilityStatus, len(contractorIDs))
	for _, id := range contractorIDs {
		statuses[id] = models.StatusAvailable
	}
	if len(contractorIDs) == 0 {
		return statuses, nil
	}

	records, err := s.Repo.GetManyForDate(ctx, contractorIDs, date)
	if err != nil {
		return nil, err
	}
	for i := range records {
		record := &records[i]
		if blockApplies(record.TimeBlock, block) {
			statuses[record.ContractorID] = record.Status
		}
	}
	return statuses, nil
}

// blockApplies reports whether a stored record's block scope covers the
// requested block. Day-wide records cover every block; a block-scoped record
// covers only its own block, unless the request is day-wide.
func blockApplies(recordBlock, requested models.TimeBlock) bool {
	if recordBlock == "" || recordBlock == models.BlockAllDay {
		return true
	}
	if requested == "" || requested == models.BlockAllDay {
		return true
	}
	return recordBlock == requested
}

func validateDate(field, date string) error {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return &services.ValidationError{Field: field, Message: "must be a YYYY-MM-DD date"}
	}
	return nil
}

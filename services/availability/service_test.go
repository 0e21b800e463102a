package availability_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"keyhubcentral/models"
	"keyhubcentral/services"
	"keyhubcentral/services/availability"

	"github.com/stretchr/testify/require"
)

// fakeAvailabilityRepo keeps records in a map keyed by contractorId|date.
type fakeAvailabilityRepo struct {
	mu      sync.Mutex
	records map[string]models.Availability
}

func newFakeRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{records: make(map[string]models.Availability)}
}

func key(contractorID, date string) string { return contractorID + "|" + date }

func (r *fakeAvailabilityRepo) Get(_ context.Context, contractorID, date string) (*models.Availability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[key(contractorID, date)]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (r *fakeAvailabilityRepo) GetRange(_ context.Context, contractorID, startDate, endDate string) ([]models.Availability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Availability
	for _, record := range r.records {
		if record.ContractorID == contractorID && record.Date >= startDate && record.Date <= endDate {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *fakeAvailabilityRepo) Set(_ context.Context, record *models.Availability) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[key(record.ContractorID, record.Date)] = *record
	return nil
}

func (r *fakeAvailabilityRepo) Clear(_ context.Context, contractorID, date string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, key(contractorID, date))
	return nil
}

func (r *fakeAvailabilityRepo) GetManyForDate(_ context.Context, contractorIDs []string, date string) ([]models.Availability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Availability
	for _, id := range contractorIDs {
		if record, ok := r.records[key(id, date)]; ok {
			out = append(out, record)
		}
	}
	return out, nil
}

func newService() (availability.Service, *fakeAvailabilityRepo) {
	repo := newFakeRepo()
	return &availability.DefaultService{Repo: repo}, repo
}

func TestSetGetClearRoundTrip(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	err := svc.Set(ctx, &models.Availability{
		ContractorID: "c1", Date: "2026-04-01", Status: models.StatusBusy,
	})
	require.NoError(t, err)

	record, err := svc.Get(ctx, "c1", "2026-04-01")
	require.NoError(t, err)
	require.NotNil(t, record)
	require.Equal(t, models.StatusBusy, record.Status)
	require.False(t, record.UpdatedAt.IsZero())

	require.NoError(t, svc.Clear(ctx, "c1", "2026-04-01"))
	record, err = svc.Get(ctx, "c1", "2026-04-01")
	require.NoError(t, err)
	require.Nil(t, record)

	// Clearing again is a no-op.
	require.NoError(t, svc.Clear(ctx, "c1", "2026-04-01"))
}

func TestSetIsLastWriteWins(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, &models.Availability{
		ContractorID: "c1", Date: "2026-04-01", Status: models.StatusBusy, Notes: "morning job",
	}))
	require.NoError(t, svc.Set(ctx, &models.Availability{
		ContractorID: "c1", Date: "2026-04-01", Status: models.StatusOnLeave,
	}))

	record, err := svc.Get(ctx, "c1", "2026-04-01")
	require.NoError(t, err)
	require.Equal(t, models.StatusOnLeave, record.Status)
	require.Empty(t, record.Notes)
}

func TestSetValidation(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	var validation *services.ValidationError

	err := svc.Set(ctx, &models.Availability{ContractorID: "c1", Date: "not-a-date", Status: models.StatusBusy})
	require.ErrorAs(t, err, &validation)

	err = svc.Set(ctx, &models.Availability{ContractorID: "c1", Date: "2026-04-01", Status: "half-busy"})
	require.ErrorAs(t, err, &validation)

	err = svc.Set(ctx, &models.Availability{ContractorID: "c1", Date: "2026-04-01", Status: models.StatusBusy, TimeBlock: "dusk"})
	require.ErrorAs(t, err, &validation)

	err = svc.Set(ctx, &models.Availability{Date: "2026-04-01", Status: models.StatusBusy})
	require.ErrorAs(t, err, &validation)
}

func TestGetRangeAscending(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	for _, date := range []string{"2026-04-03", "2026-04-01", "2026-04-02"} {
		require.NoError(t, svc.Set(ctx, &models.Availability{
			ContractorID: "c1", Date: date, Status: models.StatusUnavailable,
		}))
	}
	require.NoError(t, svc.Set(ctx, &models.Availability{
		ContractorID: "other", Date: "2026-04-02", Status: models.StatusBusy,
	}))

	records, err := svc.GetRange(ctx, "c1", "2026-04-01", "2026-04-03")
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "2026-04-01", records[0].Date)
	require.Equal(t, "2026-04-02", records[1].Date)
	require.Equal(t, "2026-04-03", records[2].Date)

	_, err = svc.GetRange(ctx, "c1", "2026-04-03", "2026-04-01")
	var validation *services.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestStatusesForBlockDefaultsToAvailable(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, &models.Availability{
		ContractorID: "c2", Date: "2026-04-01", Status: models.StatusBusy,
	}))

	statuses, err := svc.StatusesForBlock(ctx, []string{"c1", "c2", "c3"}, "2026-04-01", models.BlockMorning)
	require.NoError(t, err)
	require.Equal(t, models.StatusAvailable, statuses["c1"])
	require.Equal(t, models.StatusBusy, statuses["c2"])
	require.Equal(t, models.StatusAvailable, statuses["c3"])
}

func TestStatusesForBlockScoping(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	// Busy in the morning only.
	require.NoError(t, svc.Set(ctx, &models.Availability{
		ContractorID: "c1", Date: "2026-04-01",
		Status: models.StatusBusy, TimeBlock: models.BlockMorning,
	}))

	morning, err := svc.StatusesForBlock(ctx, []string{"c1"}, "2026-04-01", models.BlockMorning)
	require.NoError(t, err)
	require.Equal(t, models.StatusBusy, morning["c1"])

	afternoon, err := svc.StatusesForBlock(ctx, []string{"c1"}, "2026-04-01", models.BlockAfternoon)
	require.NoError(t, err)
	require.Equal(t, models.StatusAvailable, afternoon["c1"])

	// A day-wide query sees the block-scoped record.
	allDay, err := svc.StatusesForBlock(ctx, []string{"c1"}, "2026-04-01", models.BlockAllDay)
	require.NoError(t, err)
	require.Equal(t, models.StatusBusy, allDay["c1"])
}

package recommend_test

import (
	"context"
	"sort"
	"testing"

	"keyhubcentral/models"
	"keyhubcentral/services"
	"keyhubcentral/services/recommend"

	"github.com/stretchr/testify/require"
)

// jobSite is the reference location recommendations are computed against.
var jobSite = models.GeoPoint{Lat: 34.0, Lng: -118.0}

// milesNorth returns a point roughly the given number of miles due north of
// the job site (one degree of latitude ≈ 69.1 miles).
func milesNorth(miles float64) *models.GeoPoint {
	return &models.GeoPoint{Lat: jobSite.Lat + miles/69.1, Lng: jobSite.Lng}
}

type stubContractorRepo struct {
	contractors []models.Contractor
}

func (r *stubContractorRepo) GetByID(_ context.Context, id string) (*models.Contractor, error) {
	for i := range r.contractors {
		if r.contractors[i].ID == id {
			return &r.contractors[i], nil
		}
	}
	return nil, nil
}

func (r *stubContractorRepo) GetActive(_ context.Context, trades []models.Trade) ([]models.Contractor, error) {
	var active []models.Contractor
	for _, c := range r.contractors {
		if c.Status == models.ContractorActive && c.HasAnyTrade(trades) {
			active = append(active, c)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })
	return active, nil
}

func (r *stubContractorRepo) Create(_ context.Context, _ *models.Contractor) error { return nil }
func (r *stubContractorRepo) Update(_ context.Context, _ *models.Contractor) error { return nil }
func (r *stubContractorRepo) UpdateRating(_ context.Context, _ string, _ float64, _ models.Rating) (*models.Contractor, error) {
	return nil, nil
}
func (r *stubContractorRepo) Delete(_ context.Context, _ string) error { return nil }

// stubAvailability serves a fixed status map; unknown IDs are available.
type stubAvailability struct {
	statuses map[string]models.AvailabilityStatus
}

func (s *stubAvailability) Get(_ context.Context, _, _ string) (*models.Availability, error) {
	return nil, nil
}
func (s *stubAvailability) GetRange(_ context.Context, _, _, _ string) ([]models.Availability, error) {
	return nil, nil
}
func (s *stubAvailability) Set(_ context.Context, _ *models.Availability) error { return nil }
func (s *stubAvailability) Clear(_ context.Context, _, _ string) error          { return nil }
func (s *stubAvailability) StatusesForBlock(_ context.Context, ids []string, _ string, _ models.TimeBlock) (map[string]models.AvailabilityStatus, error) {
	out := make(map[string]models.AvailabilityStatus, len(ids))
	for _, id := range ids {
		status, ok := s.statuses[id]
		if !ok {
			status = models.StatusAvailable
		}
		out[id] = status
	}
	return out, nil
}

// stubGeocoder resolves every address to a fixed point, or fails.
type stubGeocoder struct {
	point *models.GeoPoint
	fail  bool
}

func (g *stubGeocoder) Geocode(_ context.Context, address string) (*models.GeoPoint, error) {
	if g.fail || g.point == nil {
		return nil, &services.UnresolvedLocationError{Address: address}
	}
	return g.point, nil
}

func activeContractor(id string, miles float64, overall float64) models.Contractor {
	return models.Contractor{
		ID:                 id,
		BusinessName:       id + " LLC",
		Trades:             []models.Trade{models.TradeInstaller},
		Status:             models.ContractorActive,
		Location:           milesNorth(miles),
		ServiceRadiusMiles: 50,
		Rating:             models.Rating{Overall: overall},
	}
}

func newEngine(avail map[string]models.AvailabilityStatus, contractors ...models.Contractor) *recommend.DefaultEngine {
	return &recommend.DefaultEngine{
		Contractors:  &stubContractorRepo{contractors: contractors},
		Availability: &stubAvailability{statuses: avail},
		Geocoder:     &stubGeocoder{point: &jobSite},
	}
}

func baseRequest() models.RecommendationRequest {
	return models.RecommendationRequest{
		Date:      "2026-04-01",
		TimeBlock: models.BlockMorning,
		Location:  &jobSite,
	}
}

func TestRecommendWeightsSumToOne(t *testing.T) {
	sum := recommend.AvailabilityWeight + recommend.DistanceWeight + recommend.RatingWeight
	require.InDelta(t, 1.0, sum, 1e-9)
}

func TestNearbyContractorOutranksOutOfRadius(t *testing.T) {
	// A: 5 miles out, rating 4.5. B: 60 miles out (outside its 50-mile
	// radius), rating 5.0. Both available; A must rank first.
	engine := newEngine(nil,
		activeContractor("A", 5, 4.5),
		activeContractor("B", 60, 5.0),
	)

	result, err := engine.Recommend(context.Background(), baseRequest())
	require.NoError(t, err)
	require.Len(t, result.Recommendations, 2)

	first, second := result.Recommendations[0], result.Recommendations[1]
	require.Equal(t, "A", first.Contractor.ID)
	require.Equal(t, "B", second.Contractor.ID)
	require.True(t, first.WithinServiceRadius)
	require.False(t, second.WithinServiceRadius)
	require.Greater(t, first.Score, second.Score)
}

func TestUngeocodedContractorIsExcluded(t *testing.T) {
	ghost := activeContractor("ghost", 5, 5.0)
	ghost.Location = nil
	engine := newEngine(nil, ghost, activeContractor("A", 5, 4.0))

	result, err := engine.Recommend(context.Background(), baseRequest())
	require.NoError(t, err)
	require.Len(t, result.Recommendations, 1)
	require.Equal(t, "A", result.Recommendations[0].Contractor.ID)
}

func TestInactiveContractorIsExcluded(t *testing.T) {
	suspended := activeContractor("S", 5, 5.0)
	suspended.Status = models.ContractorSuspended
	engine := newEngine(nil, suspended, activeContractor("A", 10, 3.0))

	result, err := engine.Recommend(context.Background(), baseRequest())
	require.NoError(t, err)
	require.Len(t, result.Recommendations, 1)
	require.Equal(t, "A", result.Recommendations[0].Contractor.ID)
}

func TestTradeFilter(t *testing.T) {
	tech := activeContractor("T", 5, 4.0)
	tech.Trades = []models.Trade{models.TradeServiceTech}
	engine := newEngine(nil, tech, activeContractor("A", 5, 4.0))

	req := baseRequest()
	req.Filters.Trades = []models.Trade{models.TradeServiceTech}
	result, err := engine.Recommend(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Recommendations, 1)
	require.Equal(t, "T", result.Recommendations[0].Contractor.ID)
}

func TestOnlyAvailableFilter(t *testing.T) {
	engine := newEngine(
		map[string]models.AvailabilityStatus{"B": models.StatusBusy},
		activeContractor("A", 5, 4.0),
		activeContractor("B", 5, 5.0),
	)

	req := baseRequest()
	req.Filters.OnlyAvailable = true
	result, err := engine.Recommend(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Recommendations, 1)
	require.Equal(t, "A", result.Recommendations[0].Contractor.ID)
}

func TestBusyScoresBelowAvailable(t *testing.T) {
	engine := newEngine(
		map[string]models.AvailabilityStatus{"B": models.StatusBusy},
		activeContractor("A", 5, 4.0),
		activeContractor("B", 5, 4.0),
	)

	result, err := engine.Recommend(context.Background(), baseRequest())
	require.NoError(t, err)
	require.Len(t, result.Recommendations, 2)
	require.Equal(t, "A", result.Recommendations[0].Contractor.ID)
	require.Equal(t, models.StatusBusy, result.Recommendations[1].AvailabilityStatus)
}

func TestMaxDistanceAndMinRatingFilters(t *testing.T) {
	engine := newEngine(nil,
		activeContractor("near-low", 5, 2.0),
		activeContractor("near-high", 8, 4.5),
		activeContractor("far-high", 40, 5.0),
	)

	maxDistance := 20.0
	minRating := 4.0
	req := baseRequest()
	req.Filters.MaxDistanceMiles = &maxDistance
	req.Filters.MinRating = &minRating

	result, err := engine.Recommend(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Recommendations, 1)
	require.Equal(t, "near-high", result.Recommendations[0].Contractor.ID)
}

func TestScoreBreakdownSumsToTotal(t *testing.T) {
	engine := newEngine(nil, activeContractor("A", 10, 4.0))

	result, err := engine.Recommend(context.Background(), baseRequest())
	require.NoError(t, err)
	require.Len(t, result.Recommendations, 1)

	rec := result.Recommendations[0]
	sum := rec.Breakdown.Availability + rec.Breakdown.Distance + rec.Breakdown.Rating
	require.InDelta(t, rec.Score, sum, 0.2)
	require.GreaterOrEqual(t, rec.Score, 0.0)
	require.LessOrEqual(t, rec.Score, 100.0)
}

func TestRecommendIsDeterministic(t *testing.T) {
	// Several contractors at identical distance and rating force the
	// tiebreak path.
	engine := newEngine(nil,
		activeContractor("C", 5, 4.0),
		activeContractor("A", 5, 4.0),
		activeContractor("B", 5, 4.0),
		activeContractor("D", 15, 4.5),
	)

	first, err := engine.Recommend(context.Background(), baseRequest())
	require.NoError(t, err)
	second, err := engine.Recommend(context.Background(), baseRequest())
	require.NoError(t, err)

	require.Equal(t, len(first.Recommendations), len(second.Recommendations))
	for i := range first.Recommendations {
		require.Equal(t, first.Recommendations[i].Contractor.ID, second.Recommendations[i].Contractor.ID)
		require.Equal(t, first.Recommendations[i].Score, second.Recommendations[i].Score)
	}
}

func TestLimitReturnsTopN(t *testing.T) {
	engine := newEngine(nil,
		activeContractor("A", 5, 5.0),
		activeContractor("B", 10, 4.0),
		activeContractor("C", 20, 3.0),
	)

	req := baseRequest()
	req.Filters.Limit = 2
	result, err := engine.Recommend(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Recommendations, 2)
	require.Equal(t, "A", result.Recommendations[0].Contractor.ID)
}

func TestUnresolvedJobLocation(t *testing.T) {
	engine := newEngine(nil, activeContractor("A", 5, 4.0))
	engine.Geocoder = &stubGeocoder{fail: true}

	req := baseRequest()
	req.Location = nil
	req.Address = "nowhere in particular"

	result, err := engine.Recommend(context.Background(), req)
	require.NoError(t, err)
	require.Empty(t, result.Recommendations)
	require.Equal(t, models.ReasonLocationUnresolved, result.Reason)
}

func TestEmptyPoolReportsNoCandidates(t *testing.T) {
	engine := newEngine(nil)

	result, err := engine.Recommend(context.Background(), baseRequest())
	require.NoError(t, err)
	require.Empty(t, result.Recommendations)
	require.Equal(t, models.ReasonNoCandidates, result.Reason)
}

func TestRecommendValidatesDate(t *testing.T) {
	engine := newEngine(nil, activeContractor("A", 5, 4.0))

	req := baseRequest()
	req.Date = "April 1st"
	_, err := engine.Recommend(context.Background(), req)
	var validation *services.ValidationError
	require.ErrorAs(t, err, &validation)
}

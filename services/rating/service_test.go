package rating_test

import (
	"context"
	"testing"

	"keyhubcentral/models"
	"keyhubcentral/services"
	"keyhubcentral/services/rating"

	"github.com/stretchr/testify/require"
)

func baseContractor(id string) models.Contractor {
	return models.Contractor{
		ID:           id,
		BusinessName: "Acme Install Co",
		Trades:       []models.Trade{models.TradeInstaller},
		Status:       models.ContractorActive,
		Rating:       rating.NeutralRating(),
	}
}

func TestMergeContractorRating(t *testing.T) {
	repo := newFakeContractorRepo(baseContractor("c1"))
	svc := &rating.DefaultService{Contractors: repo}

	merged, err := svc.MergeContractorRating(context.Background(), "c1", rating.CategoryUpdate{Customer: f(5.0)})
	require.NoError(t, err)
	// 5*0.4 + 3*0.2 + 3*0.2 + 3*0.2 = 3.8
	require.Equal(t, 5.0, merged.Customer)
	require.Equal(t, 3.8, merged.Overall)

	stored, err := repo.GetByID(context.Background(), "c1")
	require.NoError(t, err)
	require.Equal(t, *merged, stored.Rating)
}

func TestMergeContractorRatingNotFound(t *testing.T) {
	svc := &rating.DefaultService{Contractors: newFakeContractorRepo()}

	_, err := svc.MergeContractorRating(context.Background(), "ghost", rating.CategoryUpdate{Customer: f(4.0)})
	var notFound *services.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestMergeContractorRatingRejectsOutOfRange(t *testing.T) {
	svc := &rating.DefaultService{Contractors: newFakeContractorRepo(baseContractor("c1"))}

	_, err := svc.MergeContractorRating(context.Background(), "c1", rating.CategoryUpdate{Speed: f(5.5)})
	var validation *services.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestMergeRetriesOnceOnLostRace(t *testing.T) {
	repo := newFakeContractorRepo(baseContractor("c1"))
	repo.failGuard = 1
	svc := &rating.DefaultService{Contractors: repo}

	merged, err := svc.MergeContractorRating(context.Background(), "c1", rating.CategoryUpdate{Customer: f(4.0)})
	require.NoError(t, err)
	require.Equal(t, 4.0, merged.Customer)
}

func TestMergeGivesUpAfterRetry(t *testing.T) {
	repo := newFakeContractorRepo(baseContractor("c1"))
	repo.failGuard = 2
	svc := &rating.DefaultService{Contractors: repo}

	_, err := svc.MergeContractorRating(context.Background(), "c1", rating.CategoryUpdate{Customer: f(4.0)})
	var concurrency *services.ConcurrencyError
	require.ErrorAs(t, err, &concurrency)
}

func TestResetContractorRating(t *testing.T) {
	contractor := baseContractor("c1")
	contractor.Rating = rating.UpdateRating(models.Rating{}, rating.CategoryUpdate{
		Customer: f(5.0), Speed: f(4.5), Warranty: f(4.0), Internal: f(5.0),
	})
	repo := newFakeContractorRepo(contractor)
	svc := &rating.DefaultService{Contractors: repo}

	reset, err := svc.ResetContractorRating(context.Background(), "c1")
	require.NoError(t, err)
	require.Equal(t, rating.NeutralRating(), *reset)
	require.Equal(t, 3.0, reset.Overall)
	require.Equal(t, rating.TierStandard, rating.TierFor(reset.Overall))
}

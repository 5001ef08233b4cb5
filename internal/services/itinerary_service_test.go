package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderplan/travel-booking-backend/internal/models"
)

func completeTrip() models.TripSelection {
	return models.TripSelection{
		Destination: "Kyoto",
		StartDate:   "2026-04-01",
		EndDate:     "2026-04-05",
		Travelers:   2,
		Budget:      "3000",
		Interest:    models.InterestCulture,
	}
}

func TestGeneratePlan_CompleteTrip(t *testing.T) {
	service := NewItineraryService(NoopSleeper{}, time.Second, testLogger())

	plan, err := service.GeneratePlan(context.Background(), completeTrip())
	require.NoError(t, err)

	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, "Kyoto", plan.Destination)
	assert.Equal(t, "culture", plan.Interest)
	assert.Contains(t, plan.Name, "Kyoto")
	assert.Greater(t, plan.EstimatedCost, 0.0)
}

func TestGeneratePlan_IncompleteTripRejected(t *testing.T) {
	service := NewItineraryService(NoopSleeper{}, 0, testLogger())

	trip := completeTrip()
	trip.Budget = ""

	_, err := service.GeneratePlan(context.Background(), trip)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incomplete")
}

func TestGeneratePlan_DayCountMatchesTripLength(t *testing.T) {
	service := NewItineraryService(NoopSleeper{}, 0, testLogger())

	tests := []struct {
		name     string
		start    string
		end      string
		wantDays int
	}{
		{"single day", "2026-04-01", "2026-04-01", 1},
		{"three days", "2026-04-01", "2026-04-03", 3},
		{"week long", "2026-04-01", "2026-04-07", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip := completeTrip()
			trip.StartDate = tt.start
			trip.EndDate = tt.end

			plan, err := service.GeneratePlan(context.Background(), trip)
			require.NoError(t, err)
			require.Len(t, plan.Days, tt.wantDays)

			for i, day := range plan.Days {
				assert.Equal(t, i+1, day.DayIndex)
				assert.NotEmpty(t, day.Title)
				assert.NotEmpty(t, day.Items)
			}
		})
	}
}

func TestGeneratePlan_EveryInterestHasTemplate(t *testing.T) {
	service := NewItineraryService(NoopSleeper{}, 0, testLogger())

	interests := []models.InterestTag{
		models.InterestAdventure,
		models.InterestCulture,
		models.InterestRelaxation,
		models.InterestFood,
	}

	for _, interest := range interests {
		trip := completeTrip()
		trip.Interest = interest

		plan, err := service.GeneratePlan(context.Background(), trip)
		require.NoError(t, err, "interest %s", interest)
		assert.Equal(t, string(interest), plan.Interest)
		assert.NotEmpty(t, plan.Days)
	}
}

func TestGeneratePlan_CostScalesWithTravelers(t *testing.T) {
	service := NewItineraryService(NoopSleeper{}, 0, testLogger())

	solo := completeTrip()
	solo.Travelers = 1
	pair := completeTrip()
	pair.Travelers = 2

	soloPlan, err := service.GeneratePlan(context.Background(), solo)
	require.NoError(t, err)
	pairPlan, err := service.GeneratePlan(context.Background(), pair)
	require.NoError(t, err)

	assert.Equal(t, soloPlan.EstimatedCost*2, pairPlan.EstimatedCost)
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wanderplan/travel-booking-backend/internal/models"
)

// ItineraryService produces travel plans from a fixed template set keyed
// by interest. There is no model behind it; the generation delay is
// simulated so the client experience matches a real generator.
type ItineraryService struct {
	sleeper Sleeper
	wait    time.Duration
	logger  *logrus.Logger
}

// NewItineraryService creates an itinerary service with the given
// simulated generation delay
func NewItineraryService(sleeper Sleeper, wait time.Duration, logger *logrus.Logger) *ItineraryService {
	return &ItineraryService{
		sleeper: sleeper,
		wait:    wait,
		logger:  logger,
	}
}

// GeneratePlan returns a plan for the trip. Requires a complete trip
// selection; callers gate on IsComplete before reaching here but the
// check is repeated so the service is safe to call directly.
func (s *ItineraryService) GeneratePlan(ctx context.Context, trip models.TripSelection) (*models.TravelPlan, error) {
	if !trip.IsComplete() {
		return nil, fmt.Errorf("trip details incomplete: missing %v", trip.MissingFields())
	}

	if err := s.sleeper.Sleep(ctx, s.wait); err != nil {
		return nil, fmt.Errorf("plan generation interrupted: %w", err)
	}

	template, ok := planTemplates[trip.Interest]
	if !ok {
		// ValidInterestTag already passed, so this is unreachable in
		// practice, but fall back rather than fail.
		template = planTemplates[models.InterestCulture]
	}

	plan := &models.TravelPlan{
		ID:            uuid.New().String(),
		Name:          fmt.Sprintf("%s: %s", template.name, trip.Destination),
		Summary:       template.summary,
		Destination:   trip.Destination,
		Interest:      string(trip.Interest),
		EstimatedCost: template.baseCost * float64(trip.Travelers),
		Days:          buildDays(trip, template),
	}

	s.logger.WithFields(logrus.Fields{
		"plan_id":     plan.ID,
		"destination": plan.Destination,
		"interest":    plan.Interest,
		"days":        len(plan.Days),
	}).Info("Itinerary generated")

	return plan, nil
}

type planTemplate struct {
	name     string
	summary  string
	baseCost float64
	days     []models.PlanDay
}

// buildDays tailors the template day list to the trip length. Trips longer
// than the template repeat the middle day; shorter trips are truncated but
// always keep at least one day.
func buildDays(trip models.TripSelection, template planTemplate) []models.PlanDay {
	length := tripLengthDays(trip)
	if length < 1 {
		length = 1
	}

	days := make([]models.PlanDay, 0, length)
	for i := 0; i < length; i++ {
		var src models.PlanDay
		switch {
		case i < len(template.days):
			src = template.days[i]
		default:
			src = template.days[len(template.days)/2]
		}
		days = append(days, models.PlanDay{
			DayIndex: i + 1,
			Title:    src.Title,
			Items:    src.Items,
		})
	}
	return days
}

// tripLengthDays computes the inclusive day count of the trip, or 0 when
// the dates do not parse
func tripLengthDays(trip models.TripSelection) int {
	start, err := time.Parse("2006-01-02", trip.StartDate)
	if err != nil {
		return 0
	}
	end, err := time.Parse("2006-01-02", trip.EndDate)
	if err != nil {
		return 0
	}
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

var planTemplates = map[models.InterestTag]planTemplate{
	models.InterestAdventure: {
		name:     "Thrill Seeker",
		summary:  "High-energy days built around hikes, water sports and viewpoints",
		baseCost: 540,
		days: []models.PlanDay{
			{Title: "Arrival and sunset hike", Items: []models.PlanItem{
				{Time: "10:00", Title: "Check in and gear up", Note: "Rent hiking equipment nearby"},
				{Time: "15:00", Title: "Sunset ridge hike", Location: "Northern trailhead"},
				{Time: "19:30", Title: "Dinner at the base camp grill"},
			}},
			{Title: "Water day", Items: []models.PlanItem{
				{Time: "08:00", Title: "Kayaking or rafting", Location: "River launch point"},
				{Time: "13:00", Title: "Cliff-side lunch"},
				{Time: "15:30", Title: "Snorkeling session", Location: "South cove"},
			}},
			{Title: "Summit push", Items: []models.PlanItem{
				{Time: "05:30", Title: "Guided summit trek", Note: "Bring layers, summit is cold"},
				{Time: "14:00", Title: "Recovery massage"},
				{Time: "18:00", Title: "Farewell bonfire"},
			}},
		},
	},
	models.InterestCulture: {
		name:     "Heritage Trail",
		summary:  "Temples, museums and old quarters at a walking pace",
		baseCost: 460,
		days: []models.PlanDay{
			{Title: "Old town orientation", Items: []models.PlanItem{
				{Time: "09:30", Title: "Walking tour of the historic center"},
				{Time: "13:00", Title: "Lunch at a century-old eatery"},
				{Time: "15:00", Title: "National museum", Note: "Closed Mondays"},
			}},
			{Title: "Temples and crafts", Items: []models.PlanItem{
				{Time: "08:00", Title: "Morning temple visit", Note: "Dress modestly"},
				{Time: "11:30", Title: "Artisan workshop", Location: "Craft district"},
				{Time: "17:00", Title: "Evening cultural performance"},
			}},
			{Title: "Local life", Items: []models.PlanItem{
				{Time: "07:30", Title: "Morning market walk"},
				{Time: "12:00", Title: "Home-style cooking lunch"},
				{Time: "16:00", Title: "Gallery quarter and souvenirs"},
			}},
		},
	},
	models.InterestRelaxation: {
		name:     "Slow Escape",
		summary:  "Spas, beaches and nowhere to be",
		baseCost: 620,
		days: []models.PlanDay{
			{Title: "Unwind", Items: []models.PlanItem{
				{Time: "11:00", Title: "Late check-in and poolside brunch"},
				{Time: "15:00", Title: "Signature spa treatment"},
				{Time: "19:00", Title: "Beachfront dinner"},
			}},
			{Title: "Beach day", Items: []models.PlanItem{
				{Time: "09:00", Title: "Private beach cabana", Note: "Towels and drinks included"},
				{Time: "14:00", Title: "Optional yoga session"},
				{Time: "18:30", Title: "Sunset cruise"},
			}},
			{Title: "Gentle exploring", Items: []models.PlanItem{
				{Time: "10:00", Title: "Botanical garden stroll"},
				{Time: "13:00", Title: "Long lunch by the water"},
				{Time: "16:00", Title: "Hammam and rest"},
			}},
		},
	},
	models.InterestFood: {
		name:     "Taste Tour",
		summary:  "Markets, street food and a table at the best spots in town",
		baseCost: 500,
		days: []models.PlanDay{
			{Title: "Street food crawl", Items: []models.PlanItem{
				{Time: "10:00", Title: "Central market tasting walk"},
				{Time: "13:30", Title: "Noodle alley lunch", Location: "Old quarter"},
				{Time: "19:00", Title: "Night market dinner crawl"},
			}},
			{Title: "Hands on", Items: []models.PlanItem{
				{Time: "09:00", Title: "Cooking class with market shopping"},
				{Time: "14:00", Title: "Coffee and dessert tour"},
				{Time: "20:00", Title: "Chef's table dinner", Note: "Reserve two weeks ahead"},
			}},
			{Title: "Regional flavors", Items: []models.PlanItem{
				{Time: "08:30", Title: "Day trip to a farm kitchen"},
				{Time: "13:00", Title: "Vineyard or brewery tasting"},
				{Time: "18:30", Title: "Farewell tasting menu"},
			}},
		},
	},
}

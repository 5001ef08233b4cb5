package services

import (
	"fmt"

	"github.com/wanderplan/travel-booking-backend/internal/models"
)

// CatalogService serves the static browse data: destination cards and
// transport options per mode. The catalog is fixed at startup; bookings
// never mutate it, so availability counts are advisory only.
type CatalogService struct {
	destinations []models.Destination
	options      map[models.TransportMode][]models.TransportOption
	optionByID   map[string]models.TransportOption
}

// NewCatalogService builds the catalog from the built-in data set
func NewCatalogService() *CatalogService {
	s := &CatalogService{
		destinations: defaultDestinations(),
		options:      defaultTransportOptions(),
		optionByID:   make(map[string]models.TransportOption),
	}
	for _, opts := range s.options {
		for _, opt := range opts {
			s.optionByID[opt.ID] = opt
		}
	}
	return s
}

// ListDestinations returns all browsable destination cards
func (s *CatalogService) ListDestinations() []models.Destination {
	return s.destinations
}

// ListTrendingDestinations returns destinations flagged as trending
func (s *CatalogService) ListTrendingDestinations() []models.Destination {
	var trending []models.Destination
	for _, d := range s.destinations {
		if d.Trending {
			trending = append(trending, d)
		}
	}
	return trending
}

// GetDestination looks up a destination card by ID
func (s *CatalogService) GetDestination(id string) (*models.Destination, error) {
	for _, d := range s.destinations {
		if d.ID == id {
			dest := d
			return &dest, nil
		}
	}
	return nil, fmt.Errorf("destination not found: %s", id)
}

// ListTransportOptions returns the options for a mode. Every mode always
// has at least one option.
func (s *CatalogService) ListTransportOptions(mode models.TransportMode) ([]models.TransportOption, error) {
	if !models.ValidTransportMode(mode) {
		return nil, fmt.Errorf("unknown transport mode: %s", mode)
	}
	return s.options[mode], nil
}

// GetTransportOption looks up a single option by catalog ID
func (s *CatalogService) GetTransportOption(id string) (*models.TransportOption, error) {
	opt, ok := s.optionByID[id]
	if !ok {
		return nil, fmt.Errorf("transport option not found: %s", id)
	}
	return &opt, nil
}

func defaultDestinations() []models.Destination {
	return []models.Destination{
		{ID: "dest-bali", Title: "Bali", Location: "Indonesia", Thumbnail: "/images/bali.jpg", Rating: 4.8, PriceFrom: 899, Description: "Beaches, temples and rice terraces", Trending: true},
		{ID: "dest-kyoto", Title: "Kyoto", Location: "Japan", Thumbnail: "/images/kyoto.jpg", Rating: 4.9, PriceFrom: 1250, Description: "Historic shrines and autumn foliage", Trending: true},
		{ID: "dest-paris", Title: "Paris", Location: "France", Thumbnail: "/images/paris.jpg", Rating: 4.7, PriceFrom: 1100, Description: "Museums, cafes and the Seine", Trending: true},
		{ID: "dest-santorini", Title: "Santorini", Location: "Greece", Thumbnail: "/images/santorini.jpg", Rating: 4.8, PriceFrom: 980, Description: "Whitewashed cliffside villages", Trending: false},
		{ID: "dest-marrakech", Title: "Marrakech", Location: "Morocco", Thumbnail: "/images/marrakech.jpg", Rating: 4.5, PriceFrom: 720, Description: "Souks, riads and desert trips", Trending: false},
		{ID: "dest-queenstown", Title: "Queenstown", Location: "New Zealand", Thumbnail: "/images/queenstown.jpg", Rating: 4.9, PriceFrom: 1400, Description: "Adventure capital of the south", Trending: true},
		{ID: "dest-lisbon", Title: "Lisbon", Location: "Portugal", Thumbnail: "/images/lisbon.jpg", Rating: 4.6, PriceFrom: 850, Description: "Hills, trams and pastel de nata", Trending: false},
		{ID: "dest-hanoi", Title: "Hanoi", Location: "Vietnam", Thumbnail: "/images/hanoi.jpg", Rating: 4.6, PriceFrom: 640, Description: "Street food and old quarter charm", Trending: false},
	}
}

func defaultTransportOptions() map[models.TransportMode][]models.TransportOption {
	return map[models.TransportMode][]models.TransportOption{
		models.ModeFlight: {
			{ID: "fl-001", Mode: models.ModeFlight, Provider: "SkyJet Airways", Price: 320.00, Rating: 4.5, Duration: "2h 45m", DepartureTime: "08:30", ArrivalTime: "11:15", SeatClass: "Economy", Amenities: []string{"wifi", "meals", "entertainment"}, Availability: 23},
			{ID: "fl-002", Mode: models.ModeFlight, Provider: "Pacific Air", Price: 489.00, Rating: 4.7, Duration: "2h 30m", DepartureTime: "13:10", ArrivalTime: "15:40", SeatClass: "Premium Economy", Amenities: []string{"wifi", "meals", "extra legroom"}, Availability: 11},
			{ID: "fl-003", Mode: models.ModeFlight, Provider: "BudgetWings", Price: 189.00, Rating: 4.1, Duration: "3h 05m", DepartureTime: "21:45", ArrivalTime: "00:50", SeatClass: "Economy", Amenities: []string{"snacks"}, Availability: 47},
		},
		models.ModeTrain: {
			{ID: "tr-001", Mode: models.ModeTrain, Provider: "Continental Rail", Price: 95.00, Rating: 4.4, Duration: "5h 20m", DepartureTime: "07:00", ArrivalTime: "12:20", SeatClass: "Second Class", Amenities: []string{"wifi", "cafe car"}, Availability: 120},
			{ID: "tr-002", Mode: models.ModeTrain, Provider: "Express Lines", Price: 145.00, Rating: 4.6, Duration: "4h 10m", DepartureTime: "09:30", ArrivalTime: "13:40", SeatClass: "First Class", Amenities: []string{"wifi", "meals", "power outlets"}, Availability: 36},
		},
		models.ModeBus: {
			{ID: "bs-001", Mode: models.ModeBus, Provider: "GreenLine Coaches", Price: 42.00, Rating: 4.2, Duration: "7h 45m", DepartureTime: "06:15", ArrivalTime: "14:00", SeatClass: "Standard", Amenities: []string{"wifi", "restroom"}, Availability: 28},
			{ID: "bs-002", Mode: models.ModeBus, Provider: "NightRider Express", Price: 58.00, Rating: 4.3, Duration: "8h 00m", DepartureTime: "22:30", ArrivalTime: "06:30", SeatClass: "Sleeper", Amenities: []string{"wifi", "blankets", "restroom"}, Availability: 16},
		},
		models.ModeCar: {
			{ID: "cr-001", Mode: models.ModeCar, Provider: "DriveEasy Rentals", Price: 75.00, Rating: 4.5, Duration: "per day", DepartureTime: "flexible", ArrivalTime: "flexible", SeatClass: "Compact", Amenities: []string{"gps", "unlimited mileage"}, Availability: 9},
			{ID: "cr-002", Mode: models.ModeCar, Provider: "Premium Motors", Price: 160.00, Rating: 4.8, Duration: "per day", DepartureTime: "flexible", ArrivalTime: "flexible", SeatClass: "SUV", Amenities: []string{"gps", "child seat", "insurance included"}, Availability: 4},
		},
	}
}

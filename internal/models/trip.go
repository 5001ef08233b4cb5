package models

import "time"

// InterestTag represents the interest category of a trip
type InterestTag string

const (
	InterestAdventure  InterestTag = "adventure"
	InterestCulture    InterestTag = "culture"
	InterestRelaxation InterestTag = "relaxation"
	InterestFood       InterestTag = "food"
)

// ValidInterestTag reports whether tag is one of the four fixed categories
func ValidInterestTag(tag InterestTag) bool {
	switch tag {
	case InterestAdventure, InterestCulture, InterestRelaxation, InterestFood:
		return true
	}
	return false
}

// TripSelection is the user's in-progress travel query
type TripSelection struct {
	Destination string      `json:"destination"`
	StartDate   string      `json:"start_date"` // "2006-01-02"
	EndDate     string      `json:"end_date"`
	Travelers   int         `json:"travelers"`
	Budget      string      `json:"budget"` // free text, not numeric-validated
	Interest    InterestTag `json:"interest"`
}

// IsComplete reports whether all required trip-form fields are populated.
// Plan generation is gated on this predicate.
func (t TripSelection) IsComplete() bool {
	return t.Destination != "" &&
		t.StartDate != "" &&
		t.EndDate != "" &&
		t.Travelers >= 1 &&
		t.Budget != "" &&
		ValidInterestTag(t.Interest)
}

// MissingFields lists the required fields that are still empty
func (t TripSelection) MissingFields() []string {
	var missing []string
	if t.Destination == "" {
		missing = append(missing, "destination")
	}
	if t.StartDate == "" {
		missing = append(missing, "start_date")
	}
	if t.EndDate == "" {
		missing = append(missing, "end_date")
	}
	if t.Travelers < 1 {
		missing = append(missing, "travelers")
	}
	if t.Budget == "" {
		missing = append(missing, "budget")
	}
	if !ValidInterestTag(t.Interest) {
		missing = append(missing, "interest")
	}
	return missing
}

// Destination represents a browsable destination card
type Destination struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Location    string  `json:"location"`
	Thumbnail   string  `json:"thumbnail"`
	Rating      float64 `json:"rating"`
	PriceFrom   float64 `json:"price_from"`
	Description string  `json:"description,omitempty"`
	Trending    bool    `json:"trending"`
}

// SavedPlace is a destination bookmarked by a user
type SavedPlace struct {
	ID        int64     `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	PlaceID   string    `json:"place_id" db:"place_id"`
	Title     string    `json:"title" db:"title"`
	Location  string    `json:"location" db:"location"`
	Thumbnail string    `json:"thumbnail" db:"thumbnail"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SavePlaceRequest is the payload for bookmarking a destination
type SavePlaceRequest struct {
	PlaceID   string `json:"place_id" binding:"required"`
	Title     string `json:"title" binding:"required"`
	Location  string `json:"location" binding:"required"`
	Thumbnail string `json:"thumbnail"`
}

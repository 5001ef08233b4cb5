package models

// TravelPlan is a generated itinerary. Plans come from a small fixed
// set of canned templates; there is no real generation behind them.
type TravelPlan struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Summary       string    `json:"summary"`
	Destination   string    `json:"destination"`
	Interest      string    `json:"interest"`
	EstimatedCost float64   `json:"estimated_cost"`
	Days          []PlanDay `json:"days"`
}

// PlanDay is one day of an itinerary
type PlanDay struct {
	DayIndex int        `json:"day_index"`
	Title    string     `json:"title"`
	Items    []PlanItem `json:"items"`
}

// PlanItem is a single scheduled activity within a day
type PlanItem struct {
	Time     string `json:"time"`
	Title    string `json:"title"`
	Location string `json:"location,omitempty"`
	Note     string `json:"note,omitempty"`
}

package models

// TransportMode represents the mode of transport for a booking
type TransportMode string

const (
	ModeFlight TransportMode = "flight"
	ModeTrain  TransportMode = "train"
	ModeBus    TransportMode = "bus"
	ModeCar    TransportMode = "car"
)

// ValidTransportMode reports whether mode is one of the supported modes
func ValidTransportMode(mode TransportMode) bool {
	switch mode {
	case ModeFlight, ModeTrain, ModeBus, ModeCar:
		return true
	}
	return false
}

// TransportOption is a bookable option within a transport mode.
// Options come from a static catalog; availability is advisory and
// is never decremented by a booking.
type TransportOption struct {
	ID            string        `json:"id"`
	Mode          TransportMode `json:"mode"`
	Provider      string        `json:"provider"`
	Price         float64       `json:"price"`
	Rating        float64       `json:"rating"`
	Duration      string        `json:"duration"`
	DepartureTime string        `json:"departure_time"`
	ArrivalTime   string        `json:"arrival_time"`
	SeatClass     string        `json:"seat_class"`
	Amenities     []string      `json:"amenities"`
	Availability  int           `json:"availability"`
}

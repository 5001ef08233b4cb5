package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// BOOKING SESSION STATES
// ============================================================================

// SessionState represents the state of a booking session. States form a
// linear sequence; each transition is permitted only from its predecessor.
type SessionState string

const (
	StateBrowsing            SessionState = "browsing"
	StateTripForm            SessionState = "trip_form"
	StatePlanReview          SessionState = "ai_plan_review"
	StateTransportModeSelect SessionState = "transport_mode_select"
	StateTransportOptSelect  SessionState = "transport_option_select"
	StatePaymentMethodSelect SessionState = "payment_method_select"
	StatePaymentProcessing   SessionState = "payment_processing"
	StatePaymentResult       SessionState = "payment_result"
	StateTransactionRecorded SessionState = "transaction_recorded"
	StateConfirmation        SessionState = "confirmation"
	StateAbandoned           SessionState = "abandoned"
)

// sessionOrder maps each state to its position in the linear flow.
// Abandoned is terminal and sits outside the sequence.
var sessionOrder = map[SessionState]int{
	StateBrowsing:            0,
	StateTripForm:            1,
	StatePlanReview:          2,
	StateTransportModeSelect: 3,
	StateTransportOptSelect:  4,
	StatePaymentMethodSelect: 5,
	StatePaymentProcessing:   6,
	StatePaymentResult:       7,
	StateTransactionRecorded: 8,
	StateConfirmation:        9,
}

// InvalidTransitionError is returned when a session operation is attempted
// from the wrong state.
type InvalidTransitionError struct {
	From SessionState
	To   SessionState
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid session transition: %s -> %s", e.From, e.To)
}

// ============================================================================
// BOOKING SESSION
// ============================================================================

// BookingSession tracks a user's progress through the booking flow.
// All mutation goes through the transition methods so the linear ordering
// and the no-rollback-after-payment rule hold everywhere.
type BookingSession struct {
	ID     uuid.UUID    `json:"id"`
	UserID uuid.UUID    `json:"user_id"`
	State  SessionState `json:"state"`

	// Accumulated selections (filled as the flow advances)
	Trip            *TripSelection   `json:"trip,omitempty"`
	Plan            *TravelPlan      `json:"plan,omitempty"`
	TransportMode   TransportMode    `json:"transport_mode,omitempty"`
	TransportOption *TransportOption `json:"transport_option,omitempty"`
	PaymentMethod   PaymentMethod    `json:"payment_method,omitempty"`
	Payment         *PaymentRecord   `json:"payment,omitempty"`

	BookingReference string `json:"booking_reference,omitempty"`

	// TTL management
	ExpiresAt time.Time `json:"expires_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsExpired checks if the session has passed its TTL
func (s *BookingSession) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Clone returns a copy that can be mutated independently of the
// original. Nested slices and maps stay shared; transition methods
// replace the nested pointers rather than writing through them.
func (s *BookingSession) Clone() *BookingSession {
	if s == nil {
		return nil
	}
	clone := *s
	if s.Trip != nil {
		trip := *s.Trip
		clone.Trip = &trip
	}
	if s.Plan != nil {
		plan := *s.Plan
		clone.Plan = &plan
	}
	if s.TransportOption != nil {
		opt := *s.TransportOption
		clone.TransportOption = &opt
	}
	if s.Payment != nil {
		payment := *s.Payment
		clone.Payment = &payment
	}
	return &clone
}

// PaymentSucceeded reports whether the session holds a successful payment.
// Once true, no backward transition is permitted.
func (s *BookingSession) PaymentSucceeded() bool {
	return s.Payment != nil && s.Payment.Status == PaymentSuccess
}

// advance moves the session to the next state, enforcing the linear order.
func (s *BookingSession) advance(to SessionState) error {
	if s.State == StateAbandoned {
		return &InvalidTransitionError{From: s.State, To: to}
	}
	if sessionOrder[to] != sessionOrder[s.State]+1 {
		return &InvalidTransitionError{From: s.State, To: to}
	}
	s.State = to
	s.UpdatedAt = time.Now()
	return nil
}

// OpenTripForm moves browsing -> trip_form when a destination is picked
func (s *BookingSession) OpenTripForm(destination string) error {
	if err := s.advance(StateTripForm); err != nil {
		return err
	}
	s.Trip = &TripSelection{Destination: destination}
	return nil
}

// SubmitTripDetails records the trip form and moves to plan review.
// Requires every required form field to be populated.
func (s *BookingSession) SubmitTripDetails(trip TripSelection) error {
	if s.State != StateTripForm {
		return &InvalidTransitionError{From: s.State, To: StatePlanReview}
	}
	if s.Trip != nil && trip.Destination == "" {
		trip.Destination = s.Trip.Destination
	}
	if !trip.IsComplete() {
		return fmt.Errorf("trip details incomplete: missing %v", trip.MissingFields())
	}
	if err := s.advance(StatePlanReview); err != nil {
		return err
	}
	s.Trip = &trip
	return nil
}

// AcceptPlan stores the generated plan and moves to transport mode selection
func (s *BookingSession) AcceptPlan(plan *TravelPlan) error {
	if err := s.advance(StateTransportModeSelect); err != nil {
		return err
	}
	s.Plan = plan
	return nil
}

// SelectTransportMode fires immediately on mode click
func (s *BookingSession) SelectTransportMode(mode TransportMode) error {
	if !ValidTransportMode(mode) {
		return fmt.Errorf("unknown transport mode: %s", mode)
	}
	if err := s.advance(StateTransportOptSelect); err != nil {
		return err
	}
	s.TransportMode = mode
	return nil
}

// SelectTransportOption records the chosen option for the selected mode
func (s *BookingSession) SelectTransportOption(opt *TransportOption) error {
	if opt.Mode != s.TransportMode {
		return fmt.Errorf("option %s does not belong to mode %s", opt.ID, s.TransportMode)
	}
	if err := s.advance(StatePaymentMethodSelect); err != nil {
		return err
	}
	s.TransportOption = opt
	return nil
}

// SelectPaymentMethod records the method and moves to processing
func (s *BookingSession) SelectPaymentMethod(method PaymentMethod) error {
	if !ValidPaymentMethod(method) {
		return fmt.Errorf("unknown payment method: %s", method)
	}
	if err := s.advance(StatePaymentProcessing); err != nil {
		return err
	}
	s.PaymentMethod = method
	return nil
}

// RecordPaymentResult stores the processed payment outcome
func (s *BookingSession) RecordPaymentResult(payment *PaymentRecord) error {
	if err := s.advance(StatePaymentResult); err != nil {
		return err
	}
	s.Payment = payment
	s.BookingReference = payment.BookingReference
	return nil
}

// MarkTransactionRecorded marks the payment as durably persisted
func (s *BookingSession) MarkTransactionRecorded() error {
	if !s.PaymentSucceeded() {
		return fmt.Errorf("cannot record transaction: payment did not succeed")
	}
	return s.advance(StateTransactionRecorded)
}

// Confirm moves the session to its terminal celebratory state
func (s *BookingSession) Confirm() error {
	return s.advance(StateConfirmation)
}

// Abandon discards in-progress state. Not permitted once payment succeeded.
func (s *BookingSession) Abandon() error {
	if s.PaymentSucceeded() {
		return &InvalidTransitionError{From: s.State, To: StateAbandoned}
	}
	s.State = StateAbandoned
	s.Trip = nil
	s.Plan = nil
	s.TransportOption = nil
	s.UpdatedAt = time.Now()
	return nil
}

// ============================================================================
// REQUEST/RESPONSE STRUCTS
// ============================================================================

// StartSessionRequest opens a booking session for a destination
type StartSessionRequest struct {
	Destination string `json:"destination" binding:"required"`
}

// TripDetailsRequest carries the trip form fields
type TripDetailsRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Travelers int    `json:"travelers" binding:"required,min=1"`
	Budget    string `json:"budget" binding:"required"`
	Interest  string `json:"interest" binding:"required"`
}

// SelectModeRequest picks a transport mode
type SelectModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// SelectOptionRequest picks a transport option by catalog ID
type SelectOptionRequest struct {
	OptionID string `json:"option_id" binding:"required"`
}

// SelectPaymentMethodRequest picks a payment method
type SelectPaymentMethodRequest struct {
	Method  string            `json:"method" binding:"required"`
	Details map[string]string `json:"details"`
}

// SessionResponse is the standard view of a session returned to clients
type SessionResponse struct {
	Session    *BookingSession `json:"session"`
	TTLSeconds int             `json:"ttl_seconds"`
}

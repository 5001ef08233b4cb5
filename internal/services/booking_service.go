package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wanderplan/travel-booking-backend/internal/database"
	"github.com/wanderplan/travel-booking-backend/internal/models"
	"github.com/wanderplan/travel-booking-backend/internal/session"
)

// Session lookup errors. Handlers map these to HTTP statuses.
var (
	ErrSessionNotFound = fmt.Errorf("booking session not found")
	ErrSessionExpired  = fmt.Errorf("booking session expired")
	ErrNotSessionOwner = fmt.Errorf("booking session belongs to another user")
)

// TransactionLog is the slice of the transaction repository the booking
// flow needs: append-only recording of completed payments.
type TransactionLog interface {
	Append(txn *models.Transaction) (*models.Transaction, error)
}

// BookingService orchestrates the booking flow. All state transitions go
// through the session's own methods; this service wires them to the
// catalog, the itinerary generator, the payment gateway and the
// transaction log, and keeps the session store current after every step.
type BookingService struct {
	store       session.Store
	catalog     *CatalogService
	itineraries *ItineraryService
	payments    *PaymentService
	txnLog      TransactionLog
	sessionTTL  time.Duration
	logger      *logrus.Logger
}

// NewBookingService creates the booking flow orchestrator
func NewBookingService(
	store session.Store,
	catalog *CatalogService,
	itineraries *ItineraryService,
	payments *PaymentService,
	txnLog TransactionLog,
	sessionTTL time.Duration,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		store:       store,
		catalog:     catalog,
		itineraries: itineraries,
		payments:    payments,
		txnLog:      txnLog,
		sessionTTL:  sessionTTL,
		logger:      logger,
	}
}

// StartSession opens a new booking session for a destination. The session
// begins browsing and immediately advances to the trip form.
func (s *BookingService) StartSession(userID uuid.UUID, destination string) (*models.BookingSession, error) {
	now := time.Now()
	sess := &models.BookingSession{
		ID:        uuid.New(),
		UserID:    userID,
		State:     models.StateBrowsing,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := sess.OpenTripForm(destination); err != nil {
		return nil, err
	}

	s.store.Set(session.SessionKey(sess.ID.String()), sess)

	s.logger.WithFields(logrus.Fields{
		"session_id":  sess.ID,
		"user_id":     userID,
		"destination": destination,
	}).Info("Booking session started")

	return sess, nil
}

// GetSession loads a session owned by the user. Expired sessions are
// removed from the store and reported as expired.
func (s *BookingService) GetSession(userID uuid.UUID, sessionID string) (*models.BookingSession, error) {
	value, ok := s.store.Get(session.SessionKey(sessionID))
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess, ok := value.(*models.BookingSession)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.UserID != userID {
		return nil, ErrNotSessionOwner
	}
	if sess.IsExpired() {
		s.store.Delete(session.SessionKey(sessionID))
		return nil, ErrSessionExpired
	}
	// Stored sessions are never mutated in place. Every caller works on
	// its own copy and publishes it back with Set, so concurrent requests
	// on the same session cannot race on its fields.
	return sess.Clone(), nil
}

// SubmitTripDetails records the completed trip form and moves the session
// to plan review. The selection is also kept under the user's slot so it
// survives the session.
func (s *BookingService) SubmitTripDetails(userID uuid.UUID, sessionID string, req models.TripDetailsRequest) (*models.BookingSession, error) {
	sess, err := s.GetSession(userID, sessionID)
	if err != nil {
		return nil, err
	}

	trip := models.TripSelection{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Travelers: req.Travelers,
		Budget:    req.Budget,
		Interest:  models.InterestTag(req.Interest),
	}
	if err := sess.SubmitTripDetails(trip); err != nil {
		return nil, err
	}

	s.store.Set(session.SessionKey(sessionID), sess)
	s.store.Set(session.TripSelectionKey(userID.String()), sess.Trip)

	return sess, nil
}

// GeneratePlan produces an itinerary for the session's trip and advances
// the session to transport mode selection
func (s *BookingService) GeneratePlan(ctx context.Context, userID uuid.UUID, sessionID string) (*models.BookingSession, error) {
	sess, err := s.GetSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.State != models.StatePlanReview {
		return nil, &models.InvalidTransitionError{From: sess.State, To: models.StateTransportModeSelect}
	}
	if sess.Trip == nil {
		return nil, fmt.Errorf("session has no trip selection")
	}

	plan, err := s.itineraries.GeneratePlan(ctx, *sess.Trip)
	if err != nil {
		return nil, err
	}
	if err := sess.AcceptPlan(plan); err != nil {
		return nil, err
	}

	s.store.Set(session.SessionKey(sessionID), sess)
	s.store.Set(session.SelectedPlanKey(userID.String()), plan)

	return sess, nil
}

// SelectTransportMode records the mode choice and advances to option
// selection
func (s *BookingService) SelectTransportMode(userID uuid.UUID, sessionID string, mode models.TransportMode) (*models.BookingSession, error) {
	sess, err := s.GetSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.SelectTransportMode(mode); err != nil {
		return nil, err
	}
	s.store.Set(session.SessionKey(sessionID), sess)
	return sess, nil
}

// SelectTransportOption resolves the catalog option and records it
func (s *BookingService) SelectTransportOption(userID uuid.UUID, sessionID, optionID string) (*models.BookingSession, error) {
	sess, err := s.GetSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	opt, err := s.catalog.GetTransportOption(optionID)
	if err != nil {
		return nil, err
	}
	if err := sess.SelectTransportOption(opt); err != nil {
		return nil, err
	}
	s.store.Set(session.SessionKey(sessionID), sess)
	return sess, nil
}

// SelectPaymentMethod records the method and moves the session into
// payment processing
func (s *BookingService) SelectPaymentMethod(userID uuid.UUID, sessionID string, method models.PaymentMethod) (*models.BookingSession, error) {
	sess, err := s.GetSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.SelectPaymentMethod(method); err != nil {
		return nil, err
	}
	s.store.Set(session.SessionKey(sessionID), sess)
	return sess, nil
}

// Pay runs the simulated payment for the session's selected option. On
// success the transaction is appended to the durable log and the session
// runs through to confirmation. On failure the session stops at the
// payment result so the client can surface it. If the payment succeeded
// but the append did not, the session stays at the payment result and a
// repeated Pay call retries the recording without charging again.
func (s *BookingService) Pay(ctx context.Context, userID uuid.UUID, sessionID string, details map[string]string) (*models.BookingSession, error) {
	sess, err := s.GetSession(userID, sessionID)
	if err != nil {
		return nil, err
	}

	// Retry path: a previous Pay charged successfully but failed to
	// persist the transaction. Only the recording is outstanding.
	if sess.State == models.StatePaymentResult && sess.PaymentSucceeded() {
		return s.recordAndConfirm(userID, sessionID, sess)
	}

	if sess.State != models.StatePaymentProcessing {
		return nil, &models.InvalidTransitionError{From: sess.State, To: models.StatePaymentResult}
	}
	if sess.TransportOption == nil {
		return nil, fmt.Errorf("session has no transport option selected")
	}

	record, err := s.payments.ProcessPayment(ctx, sess.PaymentMethod, sess.TransportOption.Price, details)
	if err != nil {
		return nil, err
	}
	if err := sess.RecordPaymentResult(record); err != nil {
		return nil, err
	}
	s.store.Set(session.SessionKey(sessionID), sess.Clone())

	if record.Status != models.PaymentSuccess {
		s.logger.WithFields(logrus.Fields{
			"session_id":     sessionID,
			"transaction_id": record.TransactionID,
		}).Warn("Payment failed")
		return sess, nil
	}

	return s.recordAndConfirm(userID, sessionID, sess)
}

// recordAndConfirm appends the session's successful payment to the
// transaction log and runs the session through to confirmation. On
// append failure the session is left at the payment result so Pay can
// retry the recording.
func (s *BookingService) recordAndConfirm(userID uuid.UUID, sessionID string, sess *models.BookingSession) (*models.BookingSession, error) {
	record := sess.Payment

	txn := &models.Transaction{
		UserID:         userID.String(),
		TransactionID:  record.TransactionID,
		Amount:         fmt.Sprintf("%.2f", record.Amount),
		PaymentMethod:  record.Method,
		PaymentStatus:  record.Status,
		BookingType:    "transport",
		BookingDetails: bookingDetailsJSON(sess),
		CreatedAt:      record.Timestamp,
	}
	if _, err := s.txnLog.Append(txn); err != nil {
		// A duplicate means an earlier append landed but its ack was
		// lost; the payment is already durable, so keep going.
		if !errors.Is(err, database.ErrDuplicateTransaction) {
			return nil, fmt.Errorf("failed to record transaction: %w", err)
		}
	}

	if err := sess.MarkTransactionRecorded(); err != nil {
		return nil, err
	}
	if err := sess.Confirm(); err != nil {
		return nil, err
	}
	s.store.Set(session.SessionKey(sessionID), sess)

	s.logger.WithFields(logrus.Fields{
		"session_id":     sessionID,
		"transaction_id": record.TransactionID,
		"booking_ref":    sess.BookingReference,
	}).Info("Booking confirmed")

	return sess, nil
}

// Abandon discards the session. Rejected once payment has succeeded.
func (s *BookingService) Abandon(userID uuid.UUID, sessionID string) (*models.BookingSession, error) {
	sess, err := s.GetSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Abandon(); err != nil {
		return nil, err
	}
	s.store.Set(session.SessionKey(sessionID), sess)
	s.store.Delete(session.TripSelectionKey(userID.String()))
	s.store.Delete(session.SelectedPlanKey(userID.String()))
	return sess, nil
}

// SweepExpired removes expired booking sessions from the store and
// returns how many were dropped. GetSession already evicts lazily; the
// sweep keeps abandoned-and-forgotten sessions from accumulating.
func (s *BookingService) SweepExpired() int {
	swept := 0
	for _, key := range s.store.Keys() {
		if !strings.HasPrefix(key, session.KeyPrefixSession) {
			continue
		}
		value, ok := s.store.Get(key)
		if !ok {
			continue
		}
		sess, ok := value.(*models.BookingSession)
		if !ok || !sess.IsExpired() {
			continue
		}
		s.store.Delete(key)
		swept++
	}

	if swept > 0 {
		s.logger.WithField("sessions", swept).Info("Swept expired booking sessions")
	}
	return swept
}

// RunSweeper sweeps expired sessions at the given interval until the
// context is cancelled
func (s *BookingService) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepExpired()
		}
	}
}

// TTLSeconds returns the remaining lifetime of a session in whole seconds
func (s *BookingService) TTLSeconds(sess *models.BookingSession) int {
	remaining := time.Until(sess.ExpiresAt)
	if remaining < 0 {
		return 0
	}
	return int(remaining.Seconds())
}

// bookingDetailsJSON serializes the booked option and trip for the
// transaction log. Marshal errors cannot occur for these types.
func bookingDetailsJSON(sess *models.BookingSession) string {
	details := map[string]interface{}{
		"transport_option":  sess.TransportOption,
		"trip":              sess.Trip,
		"booking_reference": sess.BookingReference,
	}
	data, err := json.Marshal(details)
	if err != nil {
		return "{}"
	}
	return string(data)
}

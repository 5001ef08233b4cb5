package services

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wanderplan/travel-booking-backend/internal/models"
)

// Sleeper abstracts simulated processing latency so tests run instantly
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// RealSleeper sleeps on the wall clock, honoring context cancellation
type RealSleeper struct{}

func (RealSleeper) Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NoopSleeper returns immediately; used in tests
type NoopSleeper struct{}

func (NoopSleeper) Sleep(ctx context.Context, d time.Duration) error {
	return ctx.Err()
}

// OutcomeProvider decides the result of a simulated payment attempt.
// The gateway is a mock; no real charge ever happens.
type OutcomeProvider interface {
	Outcome(method models.PaymentMethod, amount float64) models.PaymentStatus
}

// SuccessProvider approves every payment. This is the default provider.
type SuccessProvider struct{}

func (SuccessProvider) Outcome(models.PaymentMethod, float64) models.PaymentStatus {
	return models.PaymentSuccess
}

// RandomizedProvider fails or defers a configurable fraction of payments.
// Useful for exercising failure paths in demos without touching the
// default flow.
type RandomizedProvider struct {
	FailureRate float64
	PendingRate float64
	rng         *rand.Rand
	mu          sync.Mutex
}

// NewRandomizedProvider creates a provider that fails failureRate of
// attempts, deterministic for a given seed.
func NewRandomizedProvider(failureRate float64, seed int64) *RandomizedProvider {
	return &RandomizedProvider{
		FailureRate: failureRate,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (p *RandomizedProvider) Outcome(models.PaymentMethod, float64) models.PaymentStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	draw := p.rng.Float64()
	if draw < p.FailureRate {
		return models.PaymentFailed
	}
	if draw < p.FailureRate+p.PendingRate {
		return models.PaymentPending
	}
	return models.PaymentSuccess
}

// PaymentService simulates payment processing. Transaction IDs are minted
// from the current time in milliseconds; collisions are not a concern at
// demo traffic levels.
type PaymentService struct {
	provider OutcomeProvider
	sleeper  Sleeper
	wait     time.Duration
	now      func() time.Time
	logger   *logrus.Logger
}

// NewPaymentService creates a payment service with the given outcome
// provider and simulated processing delay
func NewPaymentService(provider OutcomeProvider, sleeper Sleeper, wait time.Duration, logger *logrus.Logger) *PaymentService {
	return &PaymentService{
		provider: provider,
		sleeper:  sleeper,
		wait:     wait,
		now:      time.Now,
		logger:   logger,
	}
}

// ProcessPayment runs a simulated payment attempt. It blocks for the
// configured processing delay, then returns a PaymentRecord carrying the
// minted transaction ID and a booking reference.
func (s *PaymentService) ProcessPayment(ctx context.Context, method models.PaymentMethod, amount float64, details map[string]string) (*models.PaymentRecord, error) {
	if !models.ValidPaymentMethod(method) {
		return nil, fmt.Errorf("unknown payment method: %s", method)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("payment amount must be positive, got %.2f", amount)
	}

	if err := s.sleeper.Sleep(ctx, s.wait); err != nil {
		return nil, fmt.Errorf("payment processing interrupted: %w", err)
	}

	now := s.now()
	record := &models.PaymentRecord{
		TransactionID:    fmt.Sprintf("TXN-%d", now.UnixMilli()),
		Method:           method,
		Amount:           amount,
		Details:          details,
		BookingReference: fmt.Sprintf("WP-%s", now.Format("20060102-150405")),
		Status:           s.provider.Outcome(method, amount),
		Timestamp:        now,
	}

	s.logger.WithFields(logrus.Fields{
		"transaction_id": record.TransactionID,
		"method":         record.Method,
		"amount":         record.Amount,
		"status":         record.Status,
	}).Info("Payment processed")

	return record, nil
}

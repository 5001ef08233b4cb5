package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/wanderplan/travel-booking-backend/internal/models"
)

// TransactionRepository handles the append-only transaction log
type TransactionRepository struct {
	db DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db DB) *TransactionRepository {
	return &TransactionRepository{
		db: db,
	}
}

// ErrDuplicateTransaction is returned when a transaction_id already exists
// in the log. The log is append-only and transaction IDs are unique.
var ErrDuplicateTransaction = fmt.Errorf("transaction ID already recorded")

// Append inserts a transaction into the log. The transaction_id unique
// constraint guards against double-recording the same payment.
func (r *TransactionRepository) Append(txn *models.Transaction) (*models.Transaction, error) {
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO transactions (
			user_id, transaction_id, amount, payment_method,
			payment_status, booking_type, booking_details, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.db.QueryRow(
		query,
		txn.UserID,
		txn.TransactionID,
		txn.Amount,
		txn.PaymentMethod,
		txn.PaymentStatus,
		txn.BookingType,
		txn.BookingDetails,
		txn.CreatedAt,
	).Scan(&txn.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrDuplicateTransaction
		}
		return nil, fmt.Errorf("failed to append transaction: %w", err)
	}

	return txn, nil
}

// ListByUserID retrieves a user's transactions, newest first
func (r *TransactionRepository) ListByUserID(userID string, limit, offset int) ([]*models.Transaction, error) {
	var txns []*models.Transaction

	query := `
		SELECT id, user_id, transaction_id, amount, payment_method,
		       payment_status, booking_type, booking_details, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	err := r.db.Select(&txns, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return txns, nil
}

// ListTransportBookings retrieves a user's transport booking transactions
func (r *TransactionRepository) ListTransportBookings(userID string) ([]*models.Transaction, error) {
	var txns []*models.Transaction

	query := `
		SELECT id, user_id, transaction_id, amount, payment_method,
		       payment_status, booking_type, booking_details, created_at
		FROM transactions
		WHERE user_id = $1
		  AND booking_type = 'transport'
		ORDER BY created_at DESC
	`

	err := r.db.Select(&txns, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transport bookings: %w", err)
	}

	return txns, nil
}

// GetByTransactionID retrieves a single transaction by its public ID
func (r *TransactionRepository) GetByTransactionID(transactionID string) (*models.Transaction, error) {
	var txn models.Transaction

	query := `
		SELECT id, user_id, transaction_id, amount, payment_method,
		       payment_status, booking_type, booking_details, created_at
		FROM transactions
		WHERE transaction_id = $1
	`

	err := r.db.Get(&txn, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &txn, nil
}

// CountByUserID returns the number of transactions recorded for a user
func (r *TransactionRepository) CountByUserID(userID string) (int, error) {
	var count int

	query := `SELECT COUNT(*) FROM transactions WHERE user_id = $1`

	err := r.db.QueryRow(query, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	return count, nil
}

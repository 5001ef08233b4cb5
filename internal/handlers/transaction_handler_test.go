package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderplan/travel-booking-backend/internal/database"
)

func TestCreateTransaction_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	handler := NewTransactionHandler(database.NewTransactionRepository(db))
	userID := uuid.New()

	mock.ExpectQuery("INSERT INTO transactions").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	c, w := setupAuthenticatedContext(userID, "a@b.com")
	jsonRequest(t, c, http.MethodPost, "/api/v1/transactions", map[string]interface{}{
		"transaction_id": "TXN-1756600000123",
		"amount":         "320.00",
		"payment_method": "card",
		"payment_status": "success",
		"booking_type":   "transport",
	})

	handler.CreateTransaction(c)

	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "TXN-1756600000123")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTransaction_DuplicateIs409(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	handler := NewTransactionHandler(database.NewTransactionRepository(db))

	mock.ExpectQuery("INSERT INTO transactions").
		WillReturnError(errDuplicateKey())

	c, w := setupAuthenticatedContext(uuid.New(), "a@b.com")
	jsonRequest(t, c, http.MethodPost, "/api/v1/transactions", map[string]interface{}{
		"transaction_id": "TXN-1756600000123",
		"amount":         "320.00",
		"payment_method": "card",
		"payment_status": "success",
		"booking_type":   "transport",
	})

	handler.CreateTransaction(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "DUPLICATE_TRANSACTION")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTransaction_InvalidMethod(t *testing.T) {
	db, _ := setupTestDB(t)
	defer db.Close()

	handler := NewTransactionHandler(database.NewTransactionRepository(db))

	c, w := setupAuthenticatedContext(uuid.New(), "a@b.com")
	jsonRequest(t, c, http.MethodPost, "/api/v1/transactions", map[string]interface{}{
		"transaction_id": "TXN-1",
		"amount":         "10.00",
		"payment_method": "cheque",
		"payment_status": "success",
		"booking_type":   "transport",
	})

	handler.CreateTransaction(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_payment_method")
}

func TestListTransactions(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	handler := NewTransactionHandler(database.NewTransactionRepository(db))
	userID := uuid.New()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "transaction_id", "amount", "payment_method",
		"payment_status", "booking_type", "booking_details", "created_at",
	}).
		AddRow(2, userID.String(), "TXN-2", "95.00", "upi", "success", "transport", "{}", time.Now()).
		AddRow(1, userID.String(), "TXN-1", "320.00", "card", "success", "transport", "{}", time.Now().Add(-time.Hour))
	mock.ExpectQuery("SELECT (.+) FROM transactions").
		WithArgs(userID.String(), 50, 0).
		WillReturnRows(rows)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(userID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	c, w := setupAuthenticatedContext(userID, "a@b.com")
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/transactions", nil)

	handler.ListTransactions(c)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "TXN-1")
	assert.Contains(t, w.Body.String(), "TXN-2")
	assert.Contains(t, w.Body.String(), `"total":2`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTransportBookings(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	handler := NewTransactionHandler(database.NewTransactionRepository(db))
	userID := uuid.New()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "transaction_id", "amount", "payment_method",
		"payment_status", "booking_type", "booking_details", "created_at",
	}).
		AddRow(1, userID.String(), "TXN-1", "320.00", "card", "success", "transport", "{}", time.Now())
	mock.ExpectQuery("SELECT (.+) FROM transactions").
		WithArgs(userID.String()).
		WillReturnRows(rows)

	c, w := setupAuthenticatedContext(userID, "a@b.com")
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/transport-bookings", nil)

	handler.ListTransportBookings(c)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "TXN-1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// errDuplicateKey mimics the Postgres unique violation surface
func errDuplicateKey() error {
	return &pq.Error{
		Code:       "23505",
		Message:    `duplicate key value violates unique constraint "transactions_transaction_id_key"`,
		Constraint: "transactions_transaction_id_key",
	}
}

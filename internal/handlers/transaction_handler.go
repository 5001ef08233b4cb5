package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wanderplan/travel-booking-backend/internal/database"
	"github.com/wanderplan/travel-booking-backend/internal/middleware"
	"github.com/wanderplan/travel-booking-backend/internal/models"
)

// TransactionHandler exposes the durable transaction log
type TransactionHandler struct {
	transactionRepository *database.TransactionRepository
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionRepository *database.TransactionRepository) *TransactionHandler {
	return &TransactionHandler{
		transactionRepository: transactionRepository,
	}
}

// CreateTransaction handles POST /api/v1/transactions. Used by clients
// recording a payment made outside the session flow; the session flow
// records its own transactions server-side.
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Transaction ID, amount, payment method, status and booking type are required",
		})
		return
	}

	if !models.ValidPaymentMethod(models.PaymentMethod(req.PaymentMethod)) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_payment_method",
			Message: "Payment method must be one of: card, upi, wallet, netbanking",
		})
		return
	}

	txn := &models.Transaction{
		UserID:         userCtx.UserID.String(),
		TransactionID:  req.TransactionID,
		Amount:         req.Amount,
		PaymentMethod:  models.PaymentMethod(req.PaymentMethod),
		PaymentStatus:  models.PaymentStatus(req.PaymentStatus),
		BookingType:    req.BookingType,
		BookingDetails: req.BookingDetails,
	}

	created, err := h.transactionRepository.Append(txn)
	if err != nil {
		if errors.Is(err, database.ErrDuplicateTransaction) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "duplicate_transaction",
				Message: "This transaction ID has already been recorded",
				Code:    "DUPLICATE_TRANSACTION",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "transaction_record_failed",
			Message: "Failed to record transaction",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": created})
}

// ListTransactions handles GET /api/v1/transactions
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	limit := parseQueryInt(c, "limit", 50)
	offset := parseQueryInt(c, "offset", 0)

	txns, err := h.transactionRepository.ListByUserID(userCtx.UserID.String(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "transaction_list_failed",
			Message: "Failed to load transactions",
		})
		return
	}

	count, err := h.transactionRepository.CountByUserID(userCtx.UserID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "transaction_list_failed",
			Message: "Failed to count transactions",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": txns,
		"total":        count,
		"limit":        limit,
		"offset":       offset,
	})
}

// ListTransportBookings handles GET /api/v1/transport-bookings
func (h *TransactionHandler) ListTransportBookings(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	txns, err := h.transactionRepository.ListTransportBookings(userCtx.UserID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "booking_list_failed",
			Message: "Failed to load transport bookings",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": txns})
}

// parseQueryInt reads an integer query parameter with a default
func parseQueryInt(c *gin.Context, key string, defaultValue int) int {
	raw := c.Query(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return defaultValue
	}
	return value
}

package models

import "time"

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodUPI    PaymentMethod = "upi"
	PaymentMethodWallet PaymentMethod = "wallet"
	PaymentMethodBank   PaymentMethod = "netbanking"
)

// ValidPaymentMethod reports whether method is one of the accepted methods
func ValidPaymentMethod(method PaymentMethod) bool {
	switch method {
	case PaymentMethodCard, PaymentMethodUPI, PaymentMethodWallet, PaymentMethodBank:
		return true
	}
	return false
}

// PaymentStatus represents the outcome of a payment attempt
type PaymentStatus string

const (
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
	PaymentPending PaymentStatus = "pending"
)

// PaymentRecord is the result of a processed payment
type PaymentRecord struct {
	TransactionID    string            `json:"transaction_id"` // "TXN-<unix millis>"
	Method           PaymentMethod     `json:"method"`
	Amount           float64           `json:"amount"`
	Details          map[string]string `json:"details,omitempty"` // method-specific, opaque
	BookingReference string            `json:"booking_reference"`
	Status           PaymentStatus     `json:"status"`
	Timestamp        time.Time         `json:"timestamp"`
}

// Transaction is the persisted form of a payment record
type Transaction struct {
	ID             int64         `json:"id" db:"id"`
	UserID         string        `json:"user_id" db:"user_id"`
	TransactionID  string        `json:"transaction_id" db:"transaction_id"`
	Amount         string        `json:"amount" db:"amount"` // decimal stored as string on the wire
	PaymentMethod  PaymentMethod `json:"payment_method" db:"payment_method"`
	PaymentStatus  PaymentStatus `json:"payment_status" db:"payment_status"`
	BookingType    string        `json:"booking_type" db:"booking_type"`
	BookingDetails string        `json:"booking_details" db:"booking_details"` // serialized JSON
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
}

// CreateTransactionRequest is the payload for recording a transaction
type CreateTransactionRequest struct {
	TransactionID  string `json:"transaction_id" binding:"required"`
	Amount         string `json:"amount" binding:"required"`
	PaymentMethod  string `json:"payment_method" binding:"required"`
	PaymentStatus  string `json:"payment_status" binding:"required"`
	BookingType    string `json:"booking_type" binding:"required"`
	BookingDetails string `json:"booking_details"`
}

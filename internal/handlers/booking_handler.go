package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wanderplan/travel-booking-backend/internal/middleware"
	"github.com/wanderplan/travel-booking-backend/internal/models"
	"github.com/wanderplan/travel-booking-backend/internal/services"
)

// BookingHandler exposes the booking session flow over HTTP. Each endpoint
// performs exactly one state transition; transitions out of order come back
// as 409s.
type BookingHandler struct {
	bookingService *services.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

// StartSession handles POST /api/v1/booking/sessions
func (h *BookingHandler) StartSession(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Destination is required",
		})
		return
	}

	sess, err := h.bookingService.StartSession(userCtx.UserID, req.Destination)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "session_start_failed",
			Message: "Failed to start booking session",
		})
		return
	}

	h.respondWithSession(c, http.StatusCreated, sess)
}

// GetSession handles GET /api/v1/booking/sessions/:id
func (h *BookingHandler) GetSession(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	sess, err := h.bookingService.GetSession(userCtx.UserID, c.Param("id"))
	if err != nil {
		h.respondWithSessionError(c, err)
		return
	}

	h.respondWithSession(c, http.StatusOK, sess)
}

// SubmitTripDetails handles POST /api/v1/booking/sessions/:id/trip-details
func (h *BookingHandler) SubmitTripDetails(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.TripDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Start date, end date, travelers, budget and interest are required",
		})
		return
	}

	sess, err := h.bookingService.SubmitTripDetails(userCtx.UserID, c.Param("id"), req)
	if err != nil {
		h.respondWithSessionError(c, err)
		return
	}

	h.respondWithSession(c, http.StatusOK, sess)
}

// GeneratePlan handles POST /api/v1/booking/sessions/:id/generate-plan
func (h *BookingHandler) GeneratePlan(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	sess, err := h.bookingService.GeneratePlan(c.Request.Context(), userCtx.UserID, c.Param("id"))
	if err != nil {
		h.respondWithSessionError(c, err)
		return
	}

	h.respondWithSession(c, http.StatusOK, sess)
}

// SelectTransportMode handles POST /api/v1/booking/sessions/:id/transport-mode
func (h *BookingHandler) SelectTransportMode(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.SelectModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Transport mode is required",
		})
		return
	}

	sess, err := h.bookingService.SelectTransportMode(userCtx.UserID, c.Param("id"), models.TransportMode(req.Mode))
	if err != nil {
		h.respondWithSessionError(c, err)
		return
	}

	h.respondWithSession(c, http.StatusOK, sess)
}

// SelectTransportOption handles POST /api/v1/booking/sessions/:id/transport-option
func (h *BookingHandler) SelectTransportOption(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.SelectOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Option ID is required",
		})
		return
	}

	sess, err := h.bookingService.SelectTransportOption(userCtx.UserID, c.Param("id"), req.OptionID)
	if err != nil {
		h.respondWithSessionError(c, err)
		return
	}

	h.respondWithSession(c, http.StatusOK, sess)
}

// SelectPaymentMethod handles POST /api/v1/booking/sessions/:id/payment-method
func (h *BookingHandler) SelectPaymentMethod(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.SelectPaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Payment method is required",
		})
		return
	}

	sess, err := h.bookingService.SelectPaymentMethod(userCtx.UserID, c.Param("id"), models.PaymentMethod(req.Method))
	if err != nil {
		h.respondWithSessionError(c, err)
		return
	}

	h.respondWithSession(c, http.StatusOK, sess)
}

// Pay handles POST /api/v1/booking/sessions/:id/pay
func (h *BookingHandler) Pay(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	// Payment details are optional and opaque (e.g. card last four)
	var req struct {
		Details map[string]string `json:"details"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "Invalid request body",
			})
			return
		}
	}

	sess, err := h.bookingService.Pay(c.Request.Context(), userCtx.UserID, c.Param("id"), req.Details)
	if err != nil {
		h.respondWithSessionError(c, err)
		return
	}

	h.respondWithSession(c, http.StatusOK, sess)
}

// Abandon handles POST /api/v1/booking/sessions/:id/abandon
func (h *BookingHandler) Abandon(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	sess, err := h.bookingService.Abandon(userCtx.UserID, c.Param("id"))
	if err != nil {
		h.respondWithSessionError(c, err)
		return
	}

	h.respondWithSession(c, http.StatusOK, sess)
}

// respondWithSession writes the standard session view
func (h *BookingHandler) respondWithSession(c *gin.Context, status int, sess *models.BookingSession) {
	c.JSON(status, models.SessionResponse{
		Session:    sess,
		TTLSeconds: h.bookingService.TTLSeconds(sess),
	})
}

// respondWithSessionError maps booking flow errors to HTTP statuses
func (h *BookingHandler) respondWithSessionError(c *gin.Context, err error) {
	var transitionErr *models.InvalidTransitionError
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "session_not_found",
			Message: "Booking session not found",
			Code:    "SESSION_NOT_FOUND",
		})
	case errors.Is(err, services.ErrSessionExpired):
		c.JSON(http.StatusGone, ErrorResponse{
			Error:   "session_expired",
			Message: "Booking session has expired. Please start a new one.",
			Code:    "SESSION_EXPIRED",
		})
	case errors.Is(err, services.ErrNotSessionOwner):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "This booking session belongs to another user",
			Code:    "NOT_SESSION_OWNER",
		})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "invalid_transition",
			Message: err.Error(),
			Code:    "INVALID_TRANSITION",
		})
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "booking_error",
			Message: err.Error(),
		})
	}
}

package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wanderplan/travel-booking-backend/internal/database"
	"github.com/wanderplan/travel-booking-backend/internal/middleware"
	"github.com/wanderplan/travel-booking-backend/internal/models"
)

// SavedPlaceHandler manages bookmarked destinations
type SavedPlaceHandler struct {
	savedPlaceRepository *database.SavedPlaceRepository
}

// NewSavedPlaceHandler creates a new saved place handler
func NewSavedPlaceHandler(savedPlaceRepository *database.SavedPlaceRepository) *SavedPlaceHandler {
	return &SavedPlaceHandler{
		savedPlaceRepository: savedPlaceRepository,
	}
}

// SavePlace handles POST /api/v1/saved-places
func (h *SavedPlaceHandler) SavePlace(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.SavePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Place ID, title and location are required",
		})
		return
	}

	place := &models.SavedPlace{
		UserID:    userCtx.UserID.String(),
		PlaceID:   req.PlaceID,
		Title:     req.Title,
		Location:  req.Location,
		Thumbnail: req.Thumbnail,
	}

	saved, err := h.savedPlaceRepository.Save(place)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "save_failed",
			Message: "Failed to save place",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"place": saved})
}

// ListSavedPlaces handles GET /api/v1/saved-places
func (h *SavedPlaceHandler) ListSavedPlaces(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	places, err := h.savedPlaceRepository.ListByUserID(userCtx.UserID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "list_failed",
			Message: "Failed to load saved places",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"places": places})
}

// DeleteSavedPlace handles DELETE /api/v1/saved-places/:id
func (h *SavedPlaceHandler) DeleteSavedPlace(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Saved place ID must be numeric",
		})
		return
	}

	if err := h.savedPlaceRepository.Delete(id, userCtx.UserID.String()); err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Saved place not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "delete_failed",
			Message: "Failed to delete saved place",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Saved place removed"})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wanderplan/travel-booking-backend/internal/models"
	"github.com/wanderplan/travel-booking-backend/internal/services"
)

// CatalogHandler serves the browse data: destinations and transport options
type CatalogHandler struct {
	catalogService *services.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// ListDestinations handles GET /api/v1/destinations
func (h *CatalogHandler) ListDestinations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"destinations": h.catalogService.ListDestinations(),
	})
}

// ListTrendingDestinations handles GET /api/v1/destinations/trending
func (h *CatalogHandler) ListTrendingDestinations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"destinations": h.catalogService.ListTrendingDestinations(),
	})
}

// GetDestination handles GET /api/v1/destinations/:id
func (h *CatalogHandler) GetDestination(c *gin.Context) {
	dest, err := h.catalogService.GetDestination(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Destination not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"destination": dest})
}

// ListTransportOptions handles GET /api/v1/transport-options/:mode
func (h *CatalogHandler) ListTransportOptions(c *gin.Context) {
	mode := models.TransportMode(c.Param("mode"))

	options, err := h.catalogService.ListTransportOptions(mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_mode",
			Message: "Transport mode must be one of: flight, train, bus, car",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mode":    mode,
		"options": options,
	})
}

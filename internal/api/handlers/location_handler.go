package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"buurtmarkt/internal/domain/entities"
	"buurtmarkt/internal/services"
)

type LocationHandler struct {
	locationService *services.LocationService
}

func NewLocationHandler(locationService *services.LocationService) *LocationHandler {
	return &LocationHandler{
		locationService: locationService,
	}
}

type ResolveAddressRequest struct {
	Postcode    string `json:"postcode" binding:"required"`
	HouseNumber string `json:"house_number" binding:"required"`
}

// GetLocation handles GET /sessions/:id/location
func (h *LocationHandler) GetLocation(c *gin.Context) {
	resp, err := h.locationService.Session(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.Location)
}

// ResolveAddress handles POST /sessions/:id/location/address
func (h *LocationHandler) ResolveAddress(c *gin.Context) {
	var req ResolveAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	q := entities.AddressQuery{Postcode: req.Postcode, HouseNumber: req.HouseNumber}
	resp, err := h.locationService.ResolveAddress(c.Request.Context(), c.Param("id"), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResolveGPS handles POST /sessions/:id/location/gps. The body carries
// either {lat, lng} or the device error code in {error}.
func (h *LocationHandler) ResolveGPS(c *gin.Context) {
	var req services.GPSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lc, err := h.locationService.ResolveGPS(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": lc})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"buurtmarkt/internal/services"
)

type SessionHandler struct {
	locationService *services.LocationService
}

func NewSessionHandler(locationService *services.LocationService) *SessionHandler {
	return &SessionHandler{
		locationService: locationService,
	}
}

// CreateSession handles POST /sessions. The body is optional.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req services.CreateSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	resp, err := h.locationService.CreateSession(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetSession handles GET /sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	resp, err := h.locationService.Session(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EndSession handles DELETE /sessions/:id
func (h *SessionHandler) EndSession(c *gin.Context) {
	if err := h.locationService.EndSession(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

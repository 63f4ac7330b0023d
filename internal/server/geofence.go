package server

import (
	"net/http"

	storedomain "github.com/empresia/walletadmin/internal/tenantstore/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) GetGeofence(c *gin.Context) {
	resp, err := s.store.Geofence(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	// resp is null when the tenant never saved a configuration.
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type saveGeofenceRequest struct {
	Message      string  `json:"message"`
	Address      string  `json:"address"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters int     `json:"radius_meters"`
}

// SaveGeofence replaces the singleton wholesale; there is no merge.
func (s *Server) SaveGeofence(c *gin.Context) {
	var req saveGeofenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.RadiusMeters <= 0 {
		AbortWithError(c, newValidationError("radius_meters", "invalid_radius", "radius must be positive"))
		return
	}

	cfg := storedomain.GeofenceConfig{
		Message:      req.Message,
		Address:      req.Address,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		RadiusMeters: req.RadiusMeters,
	}
	if err := s.store.SaveGeofence(c.Request.Context(), cfg); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cfg})
}

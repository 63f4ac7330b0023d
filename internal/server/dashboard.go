package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetDashboard backs the landing page: totals, activity windows and the
// 14-day usage trend.
func (s *Server) GetDashboard(c *gin.Context) {
	resp, err := s.store.DashboardSummary(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type loginRequest struct {
	Email   string `json:"email"`
	Company string `json:"company"`
}

// Login is demo pseudo-auth: it validates presence only, slugifies the
// company name into the tenant identifier and hands out an opaque session
// cookie. There is no server-side session state behind it.
func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	email := strings.TrimSpace(req.Email)
	company := strings.TrimSpace(req.Company)
	if email == "" {
		AbortWithError(c, newValidationError("email", "required", "email is required"))
		return
	}
	if company == "" {
		AbortWithError(c, newValidationError("company", "required", "company is required"))
		return
	}

	tenantID := slug.Make(company)
	maxAge := s.cfg.SessionTTLDays * 24 * 60 * 60

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, uuid.NewString(), maxAge, "/", "", s.cfg.AuthCookieSecure, true)
	c.SetCookie(tenantCookie, tenantID, maxAge, "/", "", s.cfg.AuthCookieSecure, false)

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"tenant_id": tenantID}})
}

func (s *Server) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", s.cfg.AuthCookieSecure, true)
	c.SetCookie(tenantCookie, "", -1, "/", "", s.cfg.AuthCookieSecure, false)

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"logged_out": true}})
}

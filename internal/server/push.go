package server

import (
	"net/http"
	"strings"
	"time"

	storedomain "github.com/empresia/walletadmin/internal/tenantstore/domain"
	"github.com/gin-gonic/gin"
)

type sendImmediatePushRequest struct {
	Message  string `json:"message"`
	Audience string `json:"audience"`
}

func (s *Server) SendImmediatePush(c *gin.Context) {
	var req sendImmediatePushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.store.AddImmediatePush(c.Request.Context(), storedomain.AddImmediatePushRequest{
		Message:  req.Message,
		Audience: storedomain.Audience(strings.TrimSpace(req.Audience)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListImmediatePushes(c *gin.Context) {
	resp, err := s.store.ListImmediatePushes(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if resp == nil {
		resp = []storedomain.ImmediatePush{}
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type createScheduledPushRequest struct {
	Message     string    `json:"message"`
	Audience    string    `json:"audience"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

func (s *Server) CreateScheduledPush(c *gin.Context) {
	var req createScheduledPushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.ScheduledAt.IsZero() {
		AbortWithError(c, newValidationError("scheduled_at", "required", "scheduled_at is required"))
		return
	}

	resp, err := s.store.AddScheduledPush(c.Request.Context(), storedomain.AddScheduledPushRequest{
		Message:     req.Message,
		Audience:    storedomain.Audience(strings.TrimSpace(req.Audience)),
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListScheduledPushes(c *gin.Context) {
	resp, err := s.store.ListScheduledPushes(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if resp == nil {
		resp = []storedomain.ScheduledPush{}
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateScheduledPushRequest struct {
	Message     *string    `json:"message"`
	Audience    *string    `json:"audience"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	Status      *string    `json:"status"`
}

// UpdateScheduledPush applies a typed partial patch; cancellation travels as
// status=cancelled.
func (s *Server) UpdateScheduledPush(c *gin.Context) {
	pushID := strings.TrimSpace(c.Param("id"))

	var req updateScheduledPushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	patch := storedomain.ScheduledPushPatch{
		Message:     req.Message,
		ScheduledAt: req.ScheduledAt,
	}
	if req.Audience != nil {
		audience := storedomain.Audience(strings.TrimSpace(*req.Audience))
		patch.Audience = &audience
	}
	if req.Status != nil {
		status := storedomain.ScheduledStatus(strings.TrimSpace(*req.Status))
		patch.Status = &status
	}

	resp, err := s.store.UpdateScheduledPush(c.Request.Context(), pushID, patch)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

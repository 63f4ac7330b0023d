package server

import (
	"net/http"
	"strings"
	"time"

	storedomain "github.com/empresia/walletadmin/internal/tenantstore/domain"
	"github.com/empresia/walletadmin/pkg/tenantctx"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

const (
	tenantCookie  = "empresa"
	sessionCookie = "session"
	tenantHeader  = "X-Tenant-Id"
)

// RequestLogger logs each request with a correlation id and safe fields.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http.request")
	return func(c *gin.Context) {
		start := time.Now()
		requestID := ensureRequestID(c)

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		}
		if tenantID, ok := tenantctx.TenantID(c.Request.Context()); ok {
			fields = append(fields, zap.String("tenant_id", tenantID))
		}
		if lastErr := c.Errors.Last(); lastErr != nil {
			fields = append(fields, zap.String("error", lastErr.Error()))
		}

		if status >= http.StatusInternalServerError {
			log.Error("request", fields...)
			return
		}
		log.Info("request", fields...)
	}
}

func ensureRequestID(c *gin.Context) string {
	requestID := strings.TrimSpace(c.GetHeader("X-Request-Id"))
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set("request_id", requestID)
	c.Header("X-Request-Id", requestID)
	return requestID
}

// TenantMiddleware resolves the tenant from the empresa cookie (header
// fallback for API clients), stores it in the request context and seeds
// first-seen tenants.
func (s *Server) TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := resolveTenant(c, s.cfg.DefaultTenant)
		if tenantID == "" {
			AbortWithError(c, storedomain.ErrNoTenant)
			return
		}

		ctx := tenantctx.WithTenantID(c.Request.Context(), tenantID)
		c.Request = c.Request.WithContext(ctx)

		if s.cfg.SeedOnFirstUse {
			if err := s.store.SeedIfEmpty(ctx); err != nil {
				s.log.Warn("seed on first use failed",
					zap.String("tenant_id", tenantID),
					zap.Error(err),
				)
			}
		}

		c.Next()
	}
}

func resolveTenant(c *gin.Context, fallback string) string {
	raw, err := c.Cookie(tenantCookie)
	if err != nil || raw == "" {
		raw = c.GetHeader(tenantHeader)
	}
	if raw == "" {
		raw = fallback
	}
	return slug.Make(raw)
}

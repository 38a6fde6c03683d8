package server

import (
	"strings"

	"github.com/KaulanSerzhanuly/SafegUARD/internal/identity"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/observability/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const deviceIDHeader = "X-Device-ID"

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AuthRequired admits verified bearer tokens only.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		id, err := s.verifier.Verify(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Request = c.Request.WithContext(identity.WithUID(c.Request.Context(), id.UID))
		c.Next()
	}
}

// IdentityResolver admits authenticated users and anonymous devices alike.
// A valid bearer token wins; otherwise the device header supplies a
// namespaced uid. Requests carrying neither are rejected so no two callers
// can ever collapse into one identity.
func (s *Server) IdentityResolver() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			id, err := s.verifier.Verify(c.Request.Context(), token)
			if err != nil {
				AbortWithError(c, ErrUnauthorized)
				return
			}
			c.Request = c.Request.WithContext(identity.WithUID(c.Request.Context(), id.UID))
			c.Next()
			return
		}

		deviceID := strings.TrimSpace(c.GetHeader(deviceIDHeader))
		if deviceID == "" {
			AbortWithError(c, newValidationError("identity", "identity_required", "bearer token or device id required"))
			return
		}

		uid := identity.DevicePrefix + deviceID
		c.Request = c.Request.WithContext(identity.WithUID(c.Request.Context(), uid))
		c.Next()
	}
}

// LocationIngestRateLimit throttles location updates per resolved identity.
func (s *Server) LocationIngestRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.locationLimiter.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		uid, ok := identity.UIDFromContext(ctx)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		allowed, err := s.locationLimiter.Allow(ctx, uid)
		if err != nil {
			logger.FromContext(ctx).Warn("location ingest rate limit check failed", zap.Error(err))
			AbortWithError(c, ErrServiceUnavailable)
			return
		}
		if !allowed {
			logger.FromContext(ctx).Warn("location ingest rate limit exceeded")
			c.Header("Retry-After", "1")
			AbortWithError(c, ErrRateLimited)
			return
		}

		c.Next()
	}
}

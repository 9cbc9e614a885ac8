package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/Mnehmos/provecalc-engine/internal/adapters/http/dto"
	"github.com/Mnehmos/provecalc-engine/internal/platform/config"
)

// DefaultAPIKeyHeader is the header checked when none is configured.
const DefaultAPIKeyHeader = "X-API-Key"

// RequireAPIKey returns middleware that requires a valid API key header.
// When auth is disabled in configuration, the middleware is a no-op, which
// is the expected setup when the service runs as a local sidecar.
func RequireAPIKey(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg == nil || !cfg.Enabled {
			c.Next()
			return
		}

		header := cfg.Header
		if header == "" {
			header = DefaultAPIKeyHeader
		}

		supplied := c.GetHeader(header)
		if supplied == "" {
			dto.AbortWithErrorCode(c, dto.ErrorCodeUnauthorized, "API key required")
			return
		}

		// Constant-time comparison
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(cfg.APIKey)) != 1 {
			dto.AbortWithErrorCode(c, dto.ErrorCodeUnauthorized, "invalid API key")
			return
		}

		c.Next()
	}
}

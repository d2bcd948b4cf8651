package middleware

import (
	"net/http"

	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

// Validator reports whether the service has what it needs to reach the
// platform.
type Validator interface {
	Validate() error
}

// RequireConfig fails the request with 500 before any remote call when the
// platform configuration is incomplete.
func RequireConfig(cfg Validator, logger *zap.Logger) drift.HandlerFunc {
	return func(c *drift.Context) {
		if err := cfg.Validate(); err != nil {
			logger.Error("rejecting request, service misconfigured", zap.Error(err))
			reject(c, http.StatusInternalServerError, "server misconfigured")
			return
		}
		c.Next()
	}
}

package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/dimitrije/gabay-admin-api/internal/models"
	"github.com/dimitrije/gabay-admin-api/internal/services"
	"github.com/dimitrije/gabay-admin-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

const CallerKey = "caller"

// Admitter decides whether a request may perform privileged operations.
type Admitter interface {
	Admit(ctx context.Context, authHeader string) (*models.Caller, error)
}

// Admin admits only verified administrators. The check runs on every
// request; nothing about a caller is remembered between requests.
func Admin(gate Admitter) drift.HandlerFunc {
	return func(c *drift.Context) {
		caller, err := gate.Admit(c.Request.Context(), c.GetHeader("Authorization"))
		switch {
		case errors.Is(err, services.ErrUnauthenticated):
			reject(c, http.StatusUnauthorized, "unauthorized")
			return
		case errors.Is(err, services.ErrForbidden):
			reject(c, http.StatusForbidden, "forbidden")
			return
		case err != nil:
			reject(c, http.StatusInternalServerError, "internal server error")
			return
		}

		c.Set(CallerKey, caller)
		c.Next()
	}
}

// reject writes the error and stops the chain.
func reject(c *drift.Context, status int, msg string) {
	_ = c.JSON(status, dto.ErrorResponse{Error: msg})
	c.Abort()
}

func GetCaller(c *drift.Context) *models.Caller {
	if v, ok := c.Get(CallerKey); ok {
		if caller, ok := v.(*models.Caller); ok {
			return caller
		}
	}
	return nil
}

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dimitrije/gabay-admin-api/internal/middleware"
	"github.com/dimitrije/gabay-admin-api/internal/models"
	"github.com/dimitrije/gabay-admin-api/internal/services"
	"github.com/dimitrije/gabay-admin-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

// AdminServiceInterface defines the methods used by handlers from AdminService
type AdminServiceInterface interface {
	CreateUser(ctx context.Context, caller *models.Caller, req models.ProvisioningRequest) error
	DeleteUser(ctx context.Context, caller *models.Caller, userID string) error
	SendPasswordReset(ctx context.Context, caller *models.Caller, email, redirectTo string) error
}

type AdminHandler struct {
	adminService AdminServiceInterface
	logger       *zap.Logger
}

func NewAdminHandler(adminService AdminServiceInterface, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{adminService: adminService, logger: logger}
}

func (h *AdminHandler) CreateUser(c *drift.Context) {
	caller := middleware.GetCaller(c)
	if caller == nil {
		h.respondError(c, services.ErrUnauthenticated)
		return
	}

	var req dto.CreateUserRequest
	if err := c.BindJSON(&req); err != nil {
		_ = c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	err := h.adminService.CreateUser(c.Request.Context(), caller, models.ProvisioningRequest{
		Email:      strings.TrimSpace(req.Email),
		Password:   req.Password,
		Name:       strings.TrimSpace(req.Name),
		IsAdmin:    req.IsAdmin,
		Course:     req.Course,
		Department: req.Department,
		CreatedBy:  req.CreatedBy,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

func (h *AdminHandler) DeleteUser(c *drift.Context) {
	caller := middleware.GetCaller(c)
	if caller == nil {
		h.respondError(c, services.ErrUnauthenticated)
		return
	}

	var req dto.DeleteUserRequest
	if err := c.BindJSON(&req); err != nil {
		_ = c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.adminService.DeleteUser(c.Request.Context(), caller, strings.TrimSpace(req.UserID)); err != nil {
		h.respondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

func (h *AdminHandler) SendReset(c *drift.Context) {
	caller := middleware.GetCaller(c)
	if caller == nil {
		h.respondError(c, services.ErrUnauthenticated)
		return
	}

	var req dto.SendResetRequest
	if err := c.BindJSON(&req); err != nil {
		_ = c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.adminService.SendPasswordReset(c.Request.Context(), caller, strings.TrimSpace(req.Email), req.RedirectTo); err != nil {
		h.respondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

func (h *AdminHandler) respondError(c *drift.Context, err error) {
	var upErr *services.UpstreamError
	switch {
	case errors.Is(err, services.ErrBadRequest):
		_ = c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrUnauthenticated):
		_ = c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
	case errors.Is(err, services.ErrForbidden):
		_ = c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: "forbidden"})
	case errors.As(err, &upErr):
		h.logger.Error("upstream failure", zap.String("op", upErr.Op), zap.Error(upErr.Err))
		_ = c.JSON(http.StatusInternalServerError, dto.UpstreamErrorResponse{Error: upErr.Payload()})
	default:
		h.logger.Error("unexpected error", zap.Error(err))
		_ = c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}
}

package services

import (
	"context"
	"errors"

	"github.com/dimitrije/gabay-admin-api/internal/models"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"go.uber.org/zap"
)

// IdentityAdmin is the set of privileged identity operations.
type IdentityAdmin interface {
	DeleteUser(ctx context.Context, userID string) error
	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error
}

// AdminService performs privileged actions for an admitted caller. None of
// its operations retry on failure.
type AdminService struct {
	identities  IdentityAdmin
	provisioner *Provisioner
	logger      *zap.Logger
}

func NewAdminService(identities IdentityAdmin, provisioner *Provisioner, logger *zap.Logger) *AdminService {
	return &AdminService{
		identities:  identities,
		provisioner: provisioner,
		logger:      logger,
	}
}

func (s *AdminService) CreateUser(ctx context.Context, caller *models.Caller, req models.ProvisioningRequest) error {
	if err := req.Validate(); err != nil {
		return badRequest(err)
	}

	if err := s.provisioner.Provision(ctx, req); err != nil {
		return err
	}

	s.logger.Info("user created", zap.String("admin_id", caller.ID()), zap.Bool("is_admin", req.IsAdmin))
	return nil
}

func (s *AdminService) DeleteUser(ctx context.Context, caller *models.Caller, userID string) error {
	err := validation.Validate(userID, validation.Required, is.UUID)
	if err != nil {
		return badRequest(errors.New("user_id: " + err.Error()))
	}

	if err := s.identities.DeleteUser(ctx, userID); err != nil {
		return upstream("delete identity", err)
	}

	s.logger.Info("user deleted", zap.String("admin_id", caller.ID()), zap.String("user_id", userID))
	return nil
}

func (s *AdminService) SendPasswordReset(ctx context.Context, caller *models.Caller, email, redirectTo string) error {
	if err := validation.Validate(email, validation.Required); err != nil {
		return badRequest(errors.New("email: " + err.Error()))
	}

	if err := s.identities.ResetPasswordForEmail(ctx, email, redirectTo); err != nil {
		return upstream("send password reset", err)
	}

	s.logger.Info("password reset sent", zap.String("admin_id", caller.ID()))
	return nil
}

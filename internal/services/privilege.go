package services

import (
	"context"

	"github.com/dimitrije/gabay-admin-api/internal/models"
	"go.uber.org/zap"
)

// AdminFlagReader is the read side of the profile store.
type AdminFlagReader interface {
	AdminFlag(ctx context.Context, callerToken, userID string) (value any, found bool, err error)
}

// PrivilegeResolver decides whether a verified caller is an administrator.
//
// The profile row is authoritative when it exists. When the read fails, or
// no row exists yet, the is_admin flag in the identity's own metadata is
// used instead. A failed read must not turn into a denial by itself.
type PrivilegeResolver struct {
	profiles AdminFlagReader
	logger   *zap.Logger
}

func NewPrivilegeResolver(profiles AdminFlagReader, logger *zap.Logger) *PrivilegeResolver {
	return &PrivilegeResolver{profiles: profiles, logger: logger}
}

func (r *PrivilegeResolver) IsAdmin(ctx context.Context, caller *models.Caller) bool {
	if caller == nil || caller.Identity == nil {
		return false
	}

	value, found, err := r.profiles.AdminFlag(ctx, caller.Token, caller.Identity.ID)
	if err != nil {
		r.logger.Warn("profile lookup failed, using identity metadata",
			zap.String("user_id", caller.Identity.ID),
			zap.Error(err),
		)
		return caller.Identity.MetadataAdmin()
	}
	if !found {
		r.logger.Debug("no profile row, using identity metadata", zap.String("user_id", caller.Identity.ID))
		return caller.Identity.MetadataAdmin()
	}

	flag, ok := value.(bool)
	return ok && flag
}

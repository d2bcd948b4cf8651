package services

import (
	"context"

	"github.com/dimitrije/gabay-admin-api/internal/models"
	"go.uber.org/zap"
)

// Gate admits a request only when its caller is verified and resolved as an
// administrator. Both checks run for every privileged operation.
type Gate struct {
	verifier *CredentialVerifier
	resolver *PrivilegeResolver
	logger   *zap.Logger
}

func NewGate(verifier *CredentialVerifier, resolver *PrivilegeResolver, logger *zap.Logger) *Gate {
	return &Gate{verifier: verifier, resolver: resolver, logger: logger}
}

func (g *Gate) Admit(ctx context.Context, authHeader string) (*models.Caller, error) {
	caller, err := g.verifier.Verify(ctx, authHeader)
	if err != nil {
		return nil, err
	}

	if !g.resolver.IsAdmin(ctx, caller) {
		g.logger.Warn("non-admin caller rejected", zap.String("user_id", caller.ID()))
		return nil, ErrForbidden
	}

	g.logger.Debug("admin caller admitted",
		zap.String("user_id", caller.ID()),
		zap.Time("credential_expires_at", caller.ExpiresAt),
	)
	return caller, nil
}

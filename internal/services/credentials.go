package services

import (
	"context"
	"strings"

	"github.com/dimitrije/gabay-admin-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// IdentityReader exchanges an access token for the identity behind it.
type IdentityReader interface {
	GetUser(ctx context.Context, accessToken string) (*models.Identity, error)
}

// CredentialVerifier proves who a caller is by round-tripping their bearer
// token through the identity platform.
type CredentialVerifier struct {
	identities IdentityReader
	parser     *jwt.Parser
	logger     *zap.Logger
}

func NewCredentialVerifier(identities IdentityReader, logger *zap.Logger) *CredentialVerifier {
	return &CredentialVerifier{
		identities: identities,
		parser:     jwt.NewParser(),
		logger:     logger,
	}
}

// BearerToken extracts the token from an Authorization header value. The
// scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

func (v *CredentialVerifier) Verify(ctx context.Context, authHeader string) (*models.Caller, error) {
	token, ok := BearerToken(authHeader)
	if !ok {
		return nil, ErrUnauthenticated
	}

	// Claims are read unverified and only for the validity window. Trust
	// comes from the platform round trip below.
	claims := jwt.MapClaims{}
	if _, _, err := v.parser.ParseUnverified(token, claims); err != nil {
		v.logger.Debug("malformed bearer token", zap.Error(err))
		return nil, ErrUnauthenticated
	}

	identity, err := v.identities.GetUser(ctx, token)
	if err != nil {
		v.logger.Warn("credential exchange failed", zap.Error(err))
		return nil, ErrUnauthenticated
	}
	if identity == nil || identity.ID == "" {
		return nil, ErrUnauthenticated
	}

	caller := &models.Caller{Identity: identity, Token: token}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		caller.ExpiresAt = exp.Time
	}
	return caller, nil
}

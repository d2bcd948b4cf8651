package server

import (
	"net/http"

	"github.com/dimitrije/gabay-admin-api/internal/config"
	"github.com/dimitrije/gabay-admin-api/internal/identity"
	"github.com/dimitrije/gabay-admin-api/internal/platform"
	"github.com/dimitrije/gabay-admin-api/internal/profiles"
	"github.com/dimitrije/gabay-admin-api/internal/services"
	"go.uber.org/zap"
)

// Clients are the two platform identities the service acts under: the
// public anon key, used with a caller's own credential, and the service
// role key, used for privileged writes.
type Clients struct {
	Anon    *platform.Client
	Service *platform.Client
}

func NewClients(cfg config.PlatformConfig, opts ...platform.Option) Clients {
	opts = append([]platform.Option{platform.WithTimeout(cfg.Timeout)}, opts...)
	return Clients{
		Anon:    platform.New(cfg.URL, cfg.AnonKey, opts...),
		Service: platform.New(cfg.URL, cfg.ServiceRoleKey, opts...),
	}
}

// NewHandler wires the admin services over the given clients and profile
// store and returns the HTTP entry point.
func NewHandler(cfg *config.Config, clients Clients, store profiles.Store, logger *zap.Logger) http.Handler {
	identities := identity.NewClient(clients.Anon, clients.Service)

	gate := services.NewGate(
		services.NewCredentialVerifier(identities, logger),
		services.NewPrivilegeResolver(store, logger),
		logger,
	)
	admin := services.NewAdminService(
		identities,
		services.NewProvisioner(identities, store, logger),
		logger,
	)

	return NewRouter(Options{
		Production: cfg.IsProduction(),
		Config:     cfg,
		Gate:       gate,
		Admin:      admin,
		Logger:     logger,
	})
}

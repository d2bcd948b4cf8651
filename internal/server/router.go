package server

import (
	"net/http"

	"github.com/dimitrije/gabay-admin-api/internal/handlers"
	authmw "github.com/dimitrije/gabay-admin-api/internal/middleware"
	"github.com/dimitrije/gabay-admin-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"go.uber.org/zap"
)

// FunctionsPrefix is where the admin operations are mounted, matching the
// paths clients used for the hosted functions.
const FunctionsPrefix = "/functions/v1"

type Options struct {
	Production bool
	Config     authmw.Validator
	Gate       authmw.Admitter
	Admin      handlers.AdminServiceInterface
	Logger     *zap.Logger
}

func NewRouter(opts Options) http.Handler {
	app := drift.New()

	if opts.Production {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "apikey", "x-client-info"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	adminHandler := handlers.NewAdminHandler(opts.Admin, opts.Logger)

	functions := app.Group(FunctionsPrefix)
	functions.Use(authmw.RequireConfig(opts.Config, opts.Logger))
	functions.Use(authmw.Admin(opts.Gate))

	functions.Post("/admin_create_user", adminHandler.CreateUser)
	functions.Post("/admin_delete_user", adminHandler.DeleteUser)
	functions.Post("/admin_send_reset", adminHandler.SendReset)

	app.Get("/health", func(c *drift.Context) {
		_ = c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
	})

	return authmw.RequestLogger(opts.Logger, authmw.PostOnly(FunctionsPrefix, app))
}

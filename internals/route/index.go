// file: internals/route/index.go
package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"gymku_backend/internals/constants"
	authService "gymku_backend/internals/features/users/auth/service"
	"gymku_backend/internals/middlewares"
	authMiddleware "gymku_backend/internals/middlewares/auth"
	routeDetails "gymku_backend/internals/route/details"
)

var startTime time.Time

// SetupRoutes memasang semua route di bawah /api/v1.
// Urutan penting: public dulu, lalu trainer & admin, terakhir group user (prefix kosong).
func SetupRoutes(app *fiber.App, d routeDetails.Deps) {
	startTime = time.Now()

	BaseRoutes(app, d)

	authSvc := authService.NewAuthService(d.DB, d.Cfg.JWT.Secret, d.Cfg.JWT.TTL, d.Cfg.GoogleClientID)
	authMw := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Secret:           d.Cfg.JWT.Secret,
		BlacklistChecker: authSvc.IsBlacklisted,
		RoleResolver:     authSvc.CurrentRole,
	})

	api := app.Group("/api/v1", middlewares.GlobalRateLimiter())
	api.Get("/health", healthHandler(d))

	mounts := []routeDetails.Mount{
		routeDetails.MembershipRoutes(d),
		routeDetails.GymClassRoutes(d),
		routeDetails.GymVisitRoutes(d),
		routeDetails.TrainerRoutes(d),
		routeDetails.PaymentRoutes(d),
		routeDetails.DashboardRoutes(d),
		routeDetails.UserRoutes(d),
	}

	// ===================== PUBLIC =====================
	log.Info().Msg("[INFO] Setting up PUBLIC routes...")
	routeDetails.AuthRoutes(api, authSvc, authMw)
	for _, m := range mounts {
		if m.Public != nil {
			m.Public(api)
		}
	}

	// ===================== TRAINER =====================
	log.Info().Msg("[INFO] Setting up TRAINER group (Auth + role trainer)...")
	trainer := api.Group("/trainer", authMw,
		authMiddleware.OnlyRoles(constants.RoleErrorTrainer("area trainer"), constants.TrainerOnly...),
	)
	for _, m := range mounts {
		if m.Trainer != nil {
			m.Trainer(trainer)
		}
	}

	// ===================== ADMIN =====================
	log.Info().Msg("[INFO] Setting up ADMIN group (Auth + role admin)...")
	admin := api.Group("/admin", authMw,
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("admin panel"), constants.AdminOnly...),
	)
	for _, m := range mounts {
		if m.Admin != nil {
			m.Admin(admin)
		}
	}

	// ===================== USER (login) =====================
	log.Info().Msg("[INFO] Setting up USER group (Auth)...")
	user := api.Group("", authMw)
	for _, m := range mounts {
		if m.User != nil {
			m.User(user)
		}
	}
}

// file: internals/features/users/auth/route/auth_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"gymku_backend/internals/features/users/auth/controller"
	rateLimiter "gymku_backend/internals/middlewares"
)

// AuthRoutes: base /api/v1/auth
func AuthRoutes(api fiber.Router, ctl *controller.AuthController, authMw fiber.Handler) {
	g := api.Group("/auth")

	// 🔓 Public
	g.Post("/register", rateLimiter.RegisterRateLimiter(), ctl.Register)
	g.Post("/login", rateLimiter.LoginRateLimiter(), ctl.Login)
	g.Post("/google", rateLimiter.LoginRateLimiter(), ctl.LoginGoogle)

	// 🔒 Protected
	g.Post("/logout", authMw, ctl.Logout)
	g.Get("/me", authMw, ctl.Me)
	g.Post("/change-password", authMw, ctl.ChangePassword)
}

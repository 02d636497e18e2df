package details

import (
	"github.com/gofiber/fiber/v2"

	authController "gymku_backend/internals/features/users/auth/controller"
	authRoute "gymku_backend/internals/features/users/auth/route"
	authService "gymku_backend/internals/features/users/auth/service"
)

// AuthRoutes /auth/* (register & login publik, sisanya pakai authMw).
func AuthRoutes(api fiber.Router, svc *authService.AuthService, authMw fiber.Handler) {
	authRoute.AuthRoutes(api, authController.NewAuthController(svc), authMw)
}

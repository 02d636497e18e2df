package details

import (
	"github.com/gofiber/fiber/v2"

	userController "gymku_backend/internals/features/users/users/controller"
	userRoute "gymku_backend/internals/features/users/users/route"
	userService "gymku_backend/internals/features/users/users/service"
)

func UserRoutes(d Deps) Mount {
	ctl := userController.NewAdminUserController(userService.NewUserService(d.DB, d.Cache))
	return Mount{
		Admin: func(admin fiber.Router) { userRoute.AdminUserRoutes(admin, ctl) },
	}
}

package route

import (
	"github.com/gofiber/fiber/v2"

	"gymku_backend/internals/features/dashboard/controller"
)

func DashboardUserRoutes(user fiber.Router, ctl *controller.DashboardController) {
	user.Get("/dashboard", ctl.Member)
}

func DashboardTrainerRoutes(trainer fiber.Router, ctl *controller.DashboardController) {
	trainer.Get("/dashboard", ctl.Trainer)
}

func DashboardAdminRoutes(admin fiber.Router, ctl *controller.DashboardController) {
	admin.Get("/dashboard", ctl.Admin)
}

package details

import (
	"github.com/gofiber/fiber/v2"

	dashController "gymku_backend/internals/features/dashboard/controller"
	dashRoute "gymku_backend/internals/features/dashboard/route"
	dashService "gymku_backend/internals/features/dashboard/service"
)

func DashboardRoutes(d Deps) Mount {
	ctl := dashController.NewDashboardController(d.DB, dashService.NewDashboardService(d.DB, d.Cache, d.Loc))
	return Mount{
		User:    func(user fiber.Router) { dashRoute.DashboardUserRoutes(user, ctl) },
		Trainer: func(trainer fiber.Router) { dashRoute.DashboardTrainerRoutes(trainer, ctl) },
		Admin:   func(admin fiber.Router) { dashRoute.DashboardAdminRoutes(admin, ctl) },
	}
}

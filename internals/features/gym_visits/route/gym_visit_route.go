package route

import (
	"github.com/gofiber/fiber/v2"

	"gymku_backend/internals/features/gym_visits/controller"
)

func GymVisitUserRoutes(user fiber.Router, ctl *controller.GymVisitController) {
	g := user.Group("/visits")
	g.Post("/check-in", ctl.CheckIn)
	g.Post("/check-out", ctl.CheckOut)
	g.Get("/", ctl.Mine)
}

func GymVisitAdminRoutes(admin fiber.Router, ctl *controller.GymVisitController) {
	g := admin.Group("/visits")
	g.Get("/", ctl.AdminList)
	g.Post("/", ctl.AdminCheckIn)
	g.Get("/:id", ctl.Get)
	g.Patch("/:id", ctl.Update)
	g.Delete("/:id", ctl.Delete)
}

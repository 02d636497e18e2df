package route

import (
	"github.com/gofiber/fiber/v2"

	"gymku_backend/internals/features/gym_classes/controller"
)

func GymClassPublicRoutes(api fiber.Router, cls *controller.GymClassController) {
	g := api.Group("/gym-classes")
	g.Get("/", cls.PublicList)
	g.Get("/:id<int>/schedules", cls.PublicSchedules)
	g.Get("/:slug", cls.GetBySlug)
}

func GymClassUserRoutes(user fiber.Router, sch *controller.ScheduleController) {
	user.Get("/bookings", sch.MyBookings)
}

// GymClassAdminRoutes: base /api/v1/admin
func GymClassAdminRoutes(admin fiber.Router, cls *controller.GymClassController, sch *controller.ScheduleController) {
	g := admin.Group("/gym-classes")
	g.Get("/", cls.AdminList)
	g.Post("/", cls.Create)
	g.Get("/:id", cls.Get)
	g.Patch("/:id", cls.Update)
	g.Delete("/:id", cls.Delete)
	g.Post("/:id/images", cls.UploadImage)
	g.Get("/:id/schedules", sch.ListByClass)
	g.Post("/:id/schedules", sch.Create)

	s := admin.Group("/schedules")
	s.Get("/:id", sch.Get)
	s.Patch("/:id", sch.Update)
	s.Delete("/:id", sch.Delete)
	s.Post("/:id/attendances", sch.CreateAttendance)

	a := admin.Group("/attendances")
	a.Get("/", sch.ListAttendances)
	a.Get("/:id", sch.GetAttendance)
	a.Patch("/:id", sch.UpdateAttendance)
	a.Delete("/:id", sch.DeleteAttendance)
}

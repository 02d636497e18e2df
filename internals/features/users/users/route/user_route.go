package route

import (
	"github.com/gofiber/fiber/v2"

	"gymku_backend/internals/features/users/users/controller"
)

// AdminUserRoutes: base /api/v1/admin (sudah lewat auth + role admin)
func AdminUserRoutes(admin fiber.Router, ctl *controller.AdminUserController) {
	g := admin.Group("/users")
	g.Get("/", ctl.List)
	g.Post("/", ctl.Create)
	g.Get("/:id", ctl.Get)
	g.Patch("/:id", ctl.Update)
	g.Delete("/:id", ctl.Delete)

	g.Get("/:id/visits", ctl.Visits)
	g.Get("/:id/memberships", ctl.Memberships)
	g.Get("/:id/transactions", ctl.Transactions)
}

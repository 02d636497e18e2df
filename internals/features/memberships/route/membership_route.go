package route

import (
	"github.com/gofiber/fiber/v2"

	"gymku_backend/internals/features/memberships/controller"
)

// MembershipPublicRoutes: katalog tanpa login
func MembershipPublicRoutes(api fiber.Router, pkg *controller.MembershipPackageController) {
	g := api.Group("/membership-packages")
	g.Get("/", pkg.PublicList)
	g.Get("/:slug", pkg.GetBySlug)
}

// MembershipUserRoutes: router sudah lewat AuthJWT
func MembershipUserRoutes(user fiber.Router, hist *controller.MembershipHistoryController) {
	user.Get("/memberships", hist.Mine)
}

// MembershipAdminRoutes: base /api/v1/admin
func MembershipAdminRoutes(admin fiber.Router, pkg *controller.MembershipPackageController, hist *controller.MembershipHistoryController) {
	p := admin.Group("/membership-packages")
	p.Get("/", pkg.AdminList)
	p.Post("/", pkg.Create)
	p.Get("/:id", pkg.Get)
	p.Patch("/:id", pkg.Update)
	p.Delete("/:id", pkg.Delete)
	p.Post("/:id/images", pkg.UploadImage)

	h := admin.Group("/memberships")
	h.Get("/", hist.AdminList)
	h.Delete("/:id", hist.Delete)
}

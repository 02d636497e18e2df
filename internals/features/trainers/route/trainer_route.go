package route

import (
	"github.com/gofiber/fiber/v2"

	"gymku_backend/internals/features/trainers/controller"
)

func TrainerPublicRoutes(api fiber.Router, ctl *controller.TrainerController) {
	t := api.Group("/trainers")
	t.Get("/", ctl.List)
	t.Get("/:slug", ctl.GetBySlug)

	p := api.Group("/trainer-packages")
	p.Get("/", ctl.PublicPackages)
	p.Get("/:slug", ctl.GetPackageBySlug)
}

// TrainerUserRoutes: member yang login
func TrainerUserRoutes(user fiber.Router, asg *controller.AssignmentController) {
	user.Get("/assignments", asg.Mine)
	user.Post("/assignment-sessions/:id/feedback", asg.Feedback)
}

// TrainerAreaRoutes: base /api/v1/trainer (role trainer)
func TrainerAreaRoutes(trainer fiber.Router, asg *controller.AssignmentController) {
	trainer.Get("/assignments", asg.TrainerAssignments)
	trainer.Get("/assignments/:id/sessions", asg.TrainerSessions)
	trainer.Post("/assignments/:id/sessions", asg.TrainerCreateSession)
	trainer.Patch("/sessions/:id", asg.TrainerUpdateSession)
	trainer.Post("/sessions/:id/check-in", asg.SessionCheckIn)
	trainer.Post("/sessions/:id/check-out", asg.SessionCheckOut)
}

// TrainerAdminRoutes: base /api/v1/admin
func TrainerAdminRoutes(admin fiber.Router, ctl *controller.TrainerController, asg *controller.AssignmentController) {
	t := admin.Group("/trainers")
	t.Get("/", ctl.List)
	t.Post("/", ctl.Create)
	t.Get("/:id", ctl.Get)
	t.Patch("/:id", ctl.Update)
	t.Delete("/:id", ctl.Delete)
	t.Post("/:id/images", ctl.UploadImage)

	p := admin.Group("/trainer-packages")
	p.Get("/", ctl.AdminPackages)
	p.Post("/", ctl.CreatePackage)
	p.Get("/:id", ctl.GetPackage)
	p.Patch("/:id", ctl.UpdatePackage)
	p.Delete("/:id", ctl.DeletePackage)
	p.Post("/:id/images", ctl.UploadPackageImage)

	a := admin.Group("/assignments")
	a.Get("/", asg.AdminList)
	a.Post("/", asg.Create)
	a.Get("/:id", asg.Get)
	a.Delete("/:id", asg.Delete)
	a.Post("/:id/pause", asg.Pause)
	a.Post("/:id/resume", asg.Resume)
	a.Post("/:id/complete", asg.Complete)
	a.Get("/:id/sessions", asg.AdminSessions)
	a.Post("/:id/sessions", asg.AdminCreateSession)

	s := admin.Group("/sessions")
	s.Patch("/:id", asg.AdminUpdateSession)
	s.Delete("/:id", asg.AdminDeleteSession)
}

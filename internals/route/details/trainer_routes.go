package details

import (
	"github.com/gofiber/fiber/v2"

	trainerController "gymku_backend/internals/features/trainers/controller"
	trainerRoute "gymku_backend/internals/features/trainers/route"
	trainerService "gymku_backend/internals/features/trainers/service"
)

// TrainerRoutes profil trainer, paket PT, assignment & sesi latihan.
func TrainerRoutes(d Deps) Mount {
	ctl := trainerController.NewTrainerController(
		trainerService.NewTrainerService(d.DB, d.Disk, d.Cache),
		trainerService.NewTrainerPackageService(d.DB, d.Disk, d.Cache),
	)
	asg := trainerController.NewAssignmentController(d.DB,
		trainerService.NewAssignmentService(d.DB, d.Cache, d.Loc),
		trainerService.NewSessionService(d.DB, d.Cache),
	)
	return Mount{
		Public:  func(api fiber.Router) { trainerRoute.TrainerPublicRoutes(api, ctl) },
		User:    func(user fiber.Router) { trainerRoute.TrainerUserRoutes(user, asg) },
		Trainer: func(trainer fiber.Router) { trainerRoute.TrainerAreaRoutes(trainer, asg) },
		Admin:   func(admin fiber.Router) { trainerRoute.TrainerAdminRoutes(admin, ctl, asg) },
	}
}

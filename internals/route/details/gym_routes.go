package details

import (
	"github.com/gofiber/fiber/v2"

	classController "gymku_backend/internals/features/gym_classes/controller"
	classRoute "gymku_backend/internals/features/gym_classes/route"
	classService "gymku_backend/internals/features/gym_classes/service"
	visitController "gymku_backend/internals/features/gym_visits/controller"
	visitRoute "gymku_backend/internals/features/gym_visits/route"
	visitService "gymku_backend/internals/features/gym_visits/service"
	membershipController "gymku_backend/internals/features/memberships/controller"
	membershipRoute "gymku_backend/internals/features/memberships/route"
	membershipService "gymku_backend/internals/features/memberships/service"
)

// MembershipRoutes katalog paket + riwayat membership.
func MembershipRoutes(d Deps) Mount {
	pkg := membershipController.NewMembershipPackageController(membershipService.NewPackageService(d.DB, d.Disk, d.Cache))
	hist := membershipController.NewMembershipHistoryController(membershipService.NewHistoryService(d.DB, d.Cache))
	return Mount{
		Public: func(api fiber.Router) { membershipRoute.MembershipPublicRoutes(api, pkg) },
		User:   func(user fiber.Router) { membershipRoute.MembershipUserRoutes(user, hist) },
		Admin:  func(admin fiber.Router) { membershipRoute.MembershipAdminRoutes(admin, pkg, hist) },
	}
}

// GymClassRoutes kelas, jadwal & booking.
func GymClassRoutes(d Deps) Mount {
	schedules := classService.NewScheduleService(d.DB)
	cls := classController.NewGymClassController(classService.NewGymClassService(d.DB, d.Disk, d.Cache), schedules, d.Loc)
	sch := classController.NewScheduleController(schedules, classService.NewAttendanceService(d.DB, d.Cache))
	return Mount{
		Public: func(api fiber.Router) { classRoute.GymClassPublicRoutes(api, cls) },
		User:   func(user fiber.Router) { classRoute.GymClassUserRoutes(user, sch) },
		Admin:  func(admin fiber.Router) { classRoute.GymClassAdminRoutes(admin, cls, sch) },
	}
}

// GymVisitRoutes check-in / check-out member.
func GymVisitRoutes(d Deps) Mount {
	ctl := visitController.NewGymVisitController(visitService.NewGymVisitService(d.DB, d.Cache, d.Loc))
	return Mount{
		User:  func(user fiber.Router) { visitRoute.GymVisitUserRoutes(user, ctl) },
		Admin: func(admin fiber.Router) { visitRoute.GymVisitAdminRoutes(admin, ctl) },
	}
}

package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gymku_backend/internals/features/dashboard/service"
	trainerService "gymku_backend/internals/features/trainers/service"
	helper "gymku_backend/internals/helpers"
)

type DashboardController struct {
	DB  *gorm.DB
	Svc *service.DashboardService
	Now func() time.Time
}

func NewDashboardController(db *gorm.DB, svc *service.DashboardService) *DashboardController {
	return &DashboardController{DB: db, Svc: svc, Now: time.Now}
}

// GET /api/v1/admin/dashboard
func (ctl *DashboardController) Admin(c *fiber.Ctx) error {
	out, err := ctl.Svc.Admin(c.UserContext(), ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Dashboard admin", out)
}

// GET /api/v1/trainer/dashboard
func (ctl *DashboardController) Trainer(c *fiber.Ctx) error {
	uid, err := helper.GetUserID(c)
	if err != nil {
		return err
	}
	t, err := trainerService.TrainerByUser(c.UserContext(), ctl.DB, uid)
	if err != nil {
		return err
	}
	out, err := ctl.Svc.Trainer(c.UserContext(), t.ID, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Dashboard trainer", out)
}

// GET /api/v1/dashboard
func (ctl *DashboardController) Member(c *fiber.Ctx) error {
	uid, err := helper.GetUserID(c)
	if err != nil {
		return err
	}
	out, err := ctl.Svc.Member(c.UserContext(), uid, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Dashboard member", out)
}

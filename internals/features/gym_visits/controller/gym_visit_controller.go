package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	visitDTO "gymku_backend/internals/features/gym_visits/dto"
	"gymku_backend/internals/features/gym_visits/service"
	helper "gymku_backend/internals/helpers"
)

type GymVisitController struct {
	Svc *service.GymVisitService
	Now func() time.Time
}

func NewGymVisitController(svc *service.GymVisitService) *GymVisitController {
	return &GymVisitController{Svc: svc, Now: time.Now}
}

// POST /api/v1/visits/check-in
func (ctl *GymVisitController) CheckIn(c *fiber.Ctx) error {
	uid, err := helper.GetUserID(c)
	if err != nil {
		return err
	}
	v, err := ctl.Svc.CheckIn(c.UserContext(), uid, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Check-in berhasil", v)
}

// POST /api/v1/visits/check-out
func (ctl *GymVisitController) CheckOut(c *fiber.Ctx) error {
	uid, err := helper.GetUserID(c)
	if err != nil {
		return err
	}
	v, err := ctl.Svc.CheckOut(c.UserContext(), uid, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Check-out berhasil", v)
}

// GET /api/v1/visits
func (ctl *GymVisitController) Mine(c *fiber.Ctx) error {
	uid, err := helper.GetUserID(c)
	if err != nil {
		return err
	}
	return ctl.list(c, uid)
}

// GET /api/v1/admin/visits ?user_id=&status=&from=&to=
func (ctl *GymVisitController) AdminList(c *fiber.Ctx) error {
	return ctl.list(c, uint(c.QueryInt("user_id", 0)))
}

func (ctl *GymVisitController) list(c *fiber.Ctx, userID uint) error {
	pg := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Svc.List(c.UserContext(), visitDTO.ListVisitQuery{
		UserID: userID,
		Status: c.Query("status"),
		From:   c.Query("from"),
		To:     c.Query("to"),
	}, pg)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage, len(rows)))
}

// POST /api/v1/admin/visits (check-in atas nama member)
func (ctl *GymVisitController) AdminCheckIn(c *fiber.Ctx) error {
	var in visitDTO.AdminCheckInRequest
	if err := helper.ParseBody(c, &in); err != nil {
		return err
	}
	if err := helper.ValidateStruct(in); err != nil {
		return err
	}
	v, err := ctl.Svc.CheckIn(c.UserContext(), in.UserID, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Check-in berhasil", v)
}

// GET /api/v1/admin/visits/:id
func (ctl *GymVisitController) Get(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	v, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", v)
}

// PATCH /api/v1/admin/visits/:id
func (ctl *GymVisitController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in visitDTO.UpdateVisitRequest
	if err := helper.ParseBody(c, &in); err != nil {
		return err
	}
	v, err := ctl.Svc.Update(c.UserContext(), id, in, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Kunjungan diperbarui", v)
}

// DELETE /api/v1/admin/visits/:id
func (ctl *GymVisitController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := ctl.Svc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Kunjungan dihapus", fiber.Map{"id": id})
}

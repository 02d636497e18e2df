package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	classDTO "gymku_backend/internals/features/gym_classes/dto"
	"gymku_backend/internals/features/gym_classes/service"
	helper "gymku_backend/internals/helpers"
)

type ScheduleController struct {
	Svc         *service.ScheduleService
	Attendances *service.AttendanceService
	Now         func() time.Time
}

func NewScheduleController(svc *service.ScheduleService, att *service.AttendanceService) *ScheduleController {
	return &ScheduleController{Svc: svc, Attendances: att, Now: time.Now}
}

// GET /api/v1/admin/gym-classes/:id/schedules
func (ctl *ScheduleController) ListByClass(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	rows, err := ctl.Svc.ListByClass(c.UserContext(), id, nil, false)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", rows)
}

// POST /api/v1/admin/gym-classes/:id/schedules
func (ctl *ScheduleController) Create(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in classDTO.CreateScheduleRequest
	if err := helper.ParseBody(c, &in); err != nil {
		return err
	}
	sc, err := ctl.Svc.Create(c.UserContext(), id, in, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Jadwal berhasil dibuat", sc)
}

// GET /api/v1/admin/schedules/:id
func (ctl *ScheduleController) Get(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	sc, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", sc)
}

// PATCH /api/v1/admin/schedules/:id
func (ctl *ScheduleController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in classDTO.UpdateScheduleRequest
	if err := helper.ParseBody(c, &in); err != nil {
		return err
	}
	sc, err := ctl.Svc.Update(c.UserContext(), id, in, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Jadwal berhasil diperbarui", sc)
}

// DELETE /api/v1/admin/schedules/:id
func (ctl *ScheduleController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := ctl.Svc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Jadwal berhasil dihapus", fiber.Map{"id": id})
}

/* ===== Attendance / booking ===== */

// GET /api/v1/admin/attendances ?schedule_id=&user_id=&status=
func (ctl *ScheduleController) ListAttendances(c *fiber.Ctx) error {
	pg := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Attendances.List(c.UserContext(), classDTO.ListAttendanceQuery{
		UserID:     uint(c.QueryInt("user_id", 0)),
		ScheduleID: uint(c.QueryInt("schedule_id", 0)),
		Status:     strings.ToLower(strings.TrimSpace(c.Query("status"))),
	}, pg)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage, len(rows)))
}

// GET /api/v1/bookings (booking kelas milik user login)
func (ctl *ScheduleController) MyBookings(c *fiber.Ctx) error {
	uid, err := helper.GetUserID(c)
	if err != nil {
		return err
	}
	pg := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Attendances.List(c.UserContext(), classDTO.ListAttendanceQuery{
		UserID: uid,
		Status: strings.ToLower(strings.TrimSpace(c.Query("status"))),
	}, pg)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage, len(rows)))
}

// GET /api/v1/admin/attendances/:id
func (ctl *ScheduleController) GetAttendance(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	a, err := ctl.Attendances.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", a)
}

// POST /api/v1/admin/schedules/:id/attendances
func (ctl *ScheduleController) CreateAttendance(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in classDTO.CreateAttendanceRequest
	if err := helper.ParseBody(c, &in); err != nil {
		return err
	}
	a, err := ctl.Attendances.Create(c.UserContext(), id, in, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Booking berhasil dibuat", a)
}

// PATCH /api/v1/admin/attendances/:id
func (ctl *ScheduleController) UpdateAttendance(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in classDTO.UpdateAttendanceStatusRequest
	if err := helper.ParseBody(c, &in); err != nil {
		return err
	}
	a, err := ctl.Attendances.UpdateStatus(c.UserContext(), id, in, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Status booking diperbarui", a)
}

// DELETE /api/v1/admin/attendances/:id
func (ctl *ScheduleController) DeleteAttendance(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := ctl.Attendances.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Booking dihapus", fiber.Map{"id": id})
}

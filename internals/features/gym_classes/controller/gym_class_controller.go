package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	classDTO "gymku_backend/internals/features/gym_classes/dto"
	"gymku_backend/internals/features/gym_classes/service"
	helper "gymku_backend/internals/helpers"
	"gymku_backend/internals/helpers/dbtime"
)

type GymClassController struct {
	Svc       *service.GymClassService
	Schedules *service.ScheduleService
	Loc       *time.Location
	Now       func() time.Time
}

func NewGymClassController(svc *service.GymClassService, schedules *service.ScheduleService, loc *time.Location) *GymClassController {
	return &GymClassController{Svc: svc, Schedules: schedules, Loc: loc, Now: time.Now}
}

func (ctl *GymClassController) today() time.Time {
	return dbtime.DateOnly(ctl.Now(), ctl.Loc)
}

func (ctl *GymClassController) list(c *fiber.Ctx, activeOnly bool) error {
	pg := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Svc.List(c.UserContext(), classDTO.ListGymClassQuery{
		Q:          c.Query("q"),
		Status:     strings.ToLower(strings.TrimSpace(c.Query("status"))),
		ActiveOnly: activeOnly,
		OrderBy:    helper.ResolveSort(c, service.ClassSortColumns, "created_at", true),
	}, pg)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "Gym classes fetched", rows, helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage, len(rows)))
}

// GET /api/v1/gym-classes
func (ctl *GymClassController) PublicList(c *fiber.Ctx) error { return ctl.list(c, true) }

// GET /api/v1/admin/gym-classes
func (ctl *GymClassController) AdminList(c *fiber.Ctx) error { return ctl.list(c, false) }

// GET /api/v1/gym-classes/:slug
func (ctl *GymClassController) GetBySlug(c *fiber.Ctx) error {
	g, err := ctl.Svc.GetBySlug(c.UserContext(), c.Params("slug"), ctl.today())
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", g)
}

// GET /api/v1/gym-classes/:id/schedules (jadwal mendatang)
func (ctl *GymClassController) PublicSchedules(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	today := ctl.today()
	rows, err := ctl.Schedules.ListByClass(c.UserContext(), id, &today, true)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", rows)
}

// GET /api/v1/admin/gym-classes/:id
func (ctl *GymClassController) Get(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	g, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", g)
}

// POST /api/v1/admin/gym-classes
func (ctl *GymClassController) Create(c *fiber.Ctx) error {
	var in classDTO.CreateGymClassRequest
	if err := helper.ParseBody(c, &in); err != nil {
		return err
	}
	g, err := ctl.Svc.Create(c.UserContext(), in, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Kelas berhasil dibuat", g)
}

// PATCH /api/v1/admin/gym-classes/:id
func (ctl *GymClassController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in classDTO.UpdateGymClassRequest
	if err := helper.ParseBody(c, &in); err != nil {
		return err
	}
	g, err := ctl.Svc.Update(c.UserContext(), id, in, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Kelas berhasil diperbarui", g)
}

// DELETE /api/v1/admin/gym-classes/:id
func (ctl *GymClassController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := ctl.Svc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Kelas berhasil dihapus", fiber.Map{"id": id})
}

// POST /api/v1/admin/gym-classes/:id/images
func (ctl *GymClassController) UploadImage(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "File image wajib diunggah")
	}
	g, err := ctl.Svc.AddImage(c.UserContext(), id, fh, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Gambar berhasil diunggah", g)
}

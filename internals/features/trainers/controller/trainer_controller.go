package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	trainerDTO "gymku_backend/internals/features/trainers/dto"
	"gymku_backend/internals/features/trainers/service"
	helper "gymku_backend/internals/helpers"
)

type TrainerController struct {
	Svc      *service.TrainerService
	Packages *service.TrainerPackageService
	Now      func() time.Time
}

func NewTrainerController(svc *service.TrainerService, pkgs *service.TrainerPackageService) *TrainerController {
	return &TrainerController{Svc: svc, Packages: pkgs, Now: time.Now}
}

/* ===== Trainer ===== */

// GET /trainers  &  GET /admin/trainers
func (ctl *TrainerController) List(c *fiber.Ctx) error {
	pg := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Svc.List(c.UserContext(), trainerDTO.ListTrainerQuery{
		Q:       c.Query("q"),
		OrderBy: helper.ResolveSort(c, service.TrainerSortColumns, "created_at", true),
	}, pg)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "Trainers fetched", rows, helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage, len(rows)))
}

// GET /trainers/:slug
func (ctl *TrainerController) GetBySlug(c *fiber.Ctx) error {
	t, err := ctl.Svc.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", t)
}

func (ctl *TrainerController) Get(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	t, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", t)
}

func (ctl *TrainerController) Create(c *fiber.Ctx) error {
	var in trainerDTO.CreateTrainerRequest
	if err := helper.ParseBody(c, &in); err != nil {
		return err
	}
	t, err := ctl.Svc.Create(c.UserContext(), in, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Trainer berhasil dibuat", t)
}

func (ctl *TrainerController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in trainerDTO.UpdateTrainerRequest
	if err := helper.ParseBody(c, &in); err != nil {
		return err
	}
	t, err := ctl.Svc.Update(c.UserContext(), id, in, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Trainer berhasil diperbarui", t)
}

func (ctl *TrainerController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := ctl.Svc.Delete(c.UserContext(), id, ctl.Now()); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Trainer berhasil dihapus", fiber.Map{"id": id})
}

func (ctl *TrainerController) UploadImage(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "File image wajib diunggah")
	}
	t, err := ctl.Svc.AddImage(c.UserContext(), id, fh, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Gambar berhasil diunggah", t)
}

/* ===== Package ===== */

func (ctl *TrainerController) listPackages(c *fiber.Ctx, activeOnly bool) error {
	pg := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Packages.List(c.UserContext(), trainerDTO.ListTrainerPackageQuery{
		TrainerID:  uint(c.QueryInt("trainer_id", 0)),
		Status:     strings.ToLower(strings.TrimSpace(c.Query("status"))),
		ActiveOnly: activeOnly,
		Q:          c.Query("q"),
		OrderBy:    helper.ResolveSort(c, service.TrainerPackageSortColumns, "created_at", true),
	}, pg)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "Trainer packages fetched", rows, helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage, len(rows)))
}

// GET /trainer-packages
func (ctl *TrainerController) PublicPackages(c *fiber.Ctx) error { return ctl.listPackages(c, true) }

// GET /admin/trainer-packages
func (ctl *TrainerController) AdminPackages(c *fiber.Ctx) error { return ctl.listPackages(c, false) }

func (ctl *TrainerController) GetPackage(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	p, err := ctl.Packages.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", p)
}

// GET /trainer-packages/:slug
func (ctl *TrainerController) GetPackageBySlug(c *fiber.Ctx) error {
	p, err := ctl.Packages.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", p)
}

func (ctl *TrainerController) CreatePackage(c *fiber.Ctx) error {
	var in trainerDTO.CreateTrainerPackageRequest
	if err := helper.ParseBody(c, &in); err != nil {
		return err
	}
	p, err := ctl.Packages.Create(c.UserContext(), in, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Paket trainer berhasil dibuat", p)
}

func (ctl *TrainerController) UpdatePackage(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in trainerDTO.UpdateTrainerPackageRequest
	if err := helper.ParseBody(c, &in); err != nil {
		return err
	}
	p, err := ctl.Packages.Update(c.UserContext(), id, in, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Paket trainer berhasil diperbarui", p)
}

func (ctl *TrainerController) DeletePackage(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := ctl.Packages.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Paket trainer berhasil dihapus", fiber.Map{"id": id})
}

func (ctl *TrainerController) UploadPackageImage(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "File image wajib diunggah")
	}
	p, err := ctl.Packages.AddImage(c.UserContext(), id, fh, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Gambar berhasil diunggah", p)
}

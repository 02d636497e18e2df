package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	membershipDTO "gymku_backend/internals/features/memberships/dto"
	"gymku_backend/internals/features/memberships/service"
	helper "gymku_backend/internals/helpers"
)

type MembershipPackageController struct {
	Svc *service.PackageService
	Now func() time.Time
}

func NewMembershipPackageController(svc *service.PackageService) *MembershipPackageController {
	return &MembershipPackageController{Svc: svc, Now: time.Now}
}

func (ctl *MembershipPackageController) list(c *fiber.Ctx, activeOnly bool) error {
	pg := helper.ResolvePaging(c, 20, 100)
	q := membershipDTO.ListPackageQuery{
		Q:          c.Query("q"),
		Status:     strings.ToLower(strings.TrimSpace(c.Query("status"))),
		ActiveOnly: activeOnly,
		OrderBy:    helper.ResolveSort(c, service.PackageSortColumns, "created_at", true),
	}
	rows, total, err := ctl.Svc.List(c.UserContext(), q, pg)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "Membership packages fetched", rows,
		helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage, len(rows)))
}

// GET /api/v1/membership-packages (publik, hanya aktif)
func (ctl *MembershipPackageController) PublicList(c *fiber.Ctx) error { return ctl.list(c, true) }

// GET /api/v1/admin/membership-packages
func (ctl *MembershipPackageController) AdminList(c *fiber.Ctx) error { return ctl.list(c, false) }

// GET /api/v1/membership-packages/:slug
func (ctl *MembershipPackageController) GetBySlug(c *fiber.Ctx) error {
	p, err := ctl.Svc.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", p)
}

// GET /api/v1/admin/membership-packages/:id
func (ctl *MembershipPackageController) Get(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	p, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", p)
}

// POST /api/v1/admin/membership-packages
func (ctl *MembershipPackageController) Create(c *fiber.Ctx) error {
	var in membershipDTO.CreateMembershipPackageRequest
	if err := helper.ParseBody(c, &in); err != nil {
		return err
	}
	p, err := ctl.Svc.Create(c.UserContext(), in, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Paket membership berhasil dibuat", p)
}

// PATCH /api/v1/admin/membership-packages/:id
func (ctl *MembershipPackageController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in membershipDTO.UpdateMembershipPackageRequest
	if err := helper.ParseBody(c, &in); err != nil {
		return err
	}
	p, err := ctl.Svc.Update(c.UserContext(), id, in, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Paket membership berhasil diperbarui", p)
}

// DELETE /api/v1/admin/membership-packages/:id
func (ctl *MembershipPackageController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := ctl.Svc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Paket membership berhasil dihapus", fiber.Map{"id": id})
}

// POST /api/v1/admin/membership-packages/:id/images (multipart field "image")
func (ctl *MembershipPackageController) UploadImage(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "File image wajib diunggah")
	}
	p, err := ctl.Svc.AddImage(c.UserContext(), id, fh, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Gambar berhasil diunggah", p)
}

package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	membershipDTO "gymku_backend/internals/features/memberships/dto"
	"gymku_backend/internals/features/memberships/service"
	helper "gymku_backend/internals/helpers"
)

type MembershipHistoryController struct {
	Svc *service.HistoryService
	Now func() time.Time
}

func NewMembershipHistoryController(svc *service.HistoryService) *MembershipHistoryController {
	return &MembershipHistoryController{Svc: svc, Now: time.Now}
}

// GET /api/v1/memberships (milik user login) ?status=active|expired
func (ctl *MembershipHistoryController) Mine(c *fiber.Ctx) error {
	uid, err := helper.GetUserID(c)
	if err != nil {
		return err
	}
	pg := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Svc.List(c.UserContext(), membershipDTO.ListHistoryQuery{
		UserID: uid,
		Status: strings.ToLower(strings.TrimSpace(c.Query("status"))),
	}, pg)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage, len(rows)))
}

// GET /api/v1/admin/memberships ?user_id=&status=
func (ctl *MembershipHistoryController) AdminList(c *fiber.Ctx) error {
	pg := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Svc.List(c.UserContext(), membershipDTO.ListHistoryQuery{
		UserID: uint(c.QueryInt("user_id", 0)),
		Status: strings.ToLower(strings.TrimSpace(c.Query("status"))),
	}, pg)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage, len(rows)))
}

// DELETE /api/v1/admin/memberships/:id
func (ctl *MembershipHistoryController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := ctl.Svc.Delete(c.UserContext(), id, ctl.Now()); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Riwayat membership dihapus", fiber.Map{"id": id})
}

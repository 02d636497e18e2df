package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	userDTO "gymku_backend/internals/features/users/users/dto"
	"gymku_backend/internals/features/users/users/service"
	helper "gymku_backend/internals/helpers"
)

type AdminUserController struct {
	Svc *service.UserService
	Now func() time.Time
}

func NewAdminUserController(svc *service.UserService) *AdminUserController {
	return &AdminUserController{Svc: svc, Now: time.Now}
}

// GET /api/v1/admin/users
// Query:
//
//	q=namaOrEmail, role=, membership_status=, with_deleted=1, sort_by=, order=, page=, per_page=
func (ac *AdminUserController) List(c *fiber.Ctx) error {
	pg := helper.ResolvePaging(c, 20, 100)
	q := userDTO.ListUserQuery{
		Q:                c.Query("q"),
		Role:             strings.ToLower(strings.TrimSpace(c.Query("role"))),
		MembershipStatus: strings.ToLower(strings.TrimSpace(c.Query("membership_status"))),
		WithDeleted:      c.QueryBool("with_deleted", false),
		OrderBy:          helper.ResolveSort(c, service.UserSortColumns, "created_at", true),
	}
	rows, total, err := ac.Svc.List(c.UserContext(), q, pg)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "Users fetched successfully", userDTO.FromModelList(rows),
		helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage, len(rows)))
}

// GET /api/v1/admin/users/:id
func (ac *AdminUserController) Get(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	u, err := ac.Svc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "User fetched successfully", userDTO.FromModel(u))
}

// POST /api/v1/admin/users
func (ac *AdminUserController) Create(c *fiber.Ctx) error {
	var in userDTO.CreateUserRequest
	if err := helper.ParseBody(c, &in); err != nil {
		return err
	}
	u, err := ac.Svc.Create(c.UserContext(), in, ac.Now())
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "User created successfully", userDTO.FromModel(u))
}

// PATCH /api/v1/admin/users/:id
func (ac *AdminUserController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in userDTO.UpdateUserRequest
	if err := helper.ParseBody(c, &in); err != nil {
		return err
	}
	u, err := ac.Svc.Update(c.UserContext(), id, in, ac.Now())
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "User updated successfully", userDTO.FromModel(u))
}

// DELETE /api/v1/admin/users/:id
func (ac *AdminUserController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	actor, err := helper.GetUserID(c)
	if err != nil {
		return err
	}
	if err := ac.Svc.Delete(c.UserContext(), id, actor); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "User deleted successfully", fiber.Map{"id": id})
}

/* ===== Relasi ===== */

// GET /api/v1/admin/users/:id/visits
func (ac *AdminUserController) Visits(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	pg := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ac.Svc.Visits(c.UserContext(), id, pg)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage, len(rows)))
}

// GET /api/v1/admin/users/:id/memberships
func (ac *AdminUserController) Memberships(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	pg := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ac.Svc.Memberships(c.UserContext(), id, pg)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage, len(rows)))
}

// GET /api/v1/admin/users/:id/transactions
func (ac *AdminUserController) Transactions(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	pg := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ac.Svc.Transactions(c.UserContext(), id, pg)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage, len(rows)))
}

package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	authDTO "gymku_backend/internals/features/users/auth/dto"
	"gymku_backend/internals/features/users/auth/service"
	helper "gymku_backend/internals/helpers"
)

type AuthController struct {
	Svc *service.AuthService
	Now func() time.Time
}

func NewAuthController(svc *service.AuthService) *AuthController {
	return &AuthController{Svc: svc, Now: time.Now}
}

// POST /api/v1/auth/register
func (ctl *AuthController) Register(c *fiber.Ctx) error {
	var in authDTO.RegisterRequest
	if err := helper.ParseBody(c, &in); err != nil {
		return err
	}
	out, err := ctl.Svc.Register(c.UserContext(), in, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Registrasi berhasil", out)
}

// POST /api/v1/auth/login
func (ctl *AuthController) Login(c *fiber.Ctx) error {
	var in authDTO.LoginRequest
	if err := helper.ParseBody(c, &in); err != nil {
		return err
	}
	out, err := ctl.Svc.Login(c.UserContext(), in, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Login berhasil", out)
}

// POST /api/v1/auth/google
func (ctl *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var in authDTO.GoogleLoginRequest
	if err := helper.ParseBody(c, &in); err != nil {
		return err
	}
	out, err := ctl.Svc.LoginGoogle(c.UserContext(), in, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Login berhasil", out)
}

// POST /api/v1/auth/logout
func (ctl *AuthController) Logout(c *fiber.Ctx) error {
	if err := ctl.Svc.Logout(c.UserContext(), helper.GetRawAccessToken(c), ctl.Now()); err != nil {
		return err
	}
	return helper.JsonOK(c, "Logout berhasil", nil)
}

// GET /api/v1/auth/me
func (ctl *AuthController) Me(c *fiber.Ctx) error {
	uid, err := helper.GetUserID(c)
	if err != nil {
		return err
	}
	out, err := ctl.Svc.Me(c.UserContext(), uid)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", out)
}

// POST /api/v1/auth/change-password
func (ctl *AuthController) ChangePassword(c *fiber.Ctx) error {
	uid, err := helper.GetUserID(c)
	if err != nil {
		return err
	}
	var in authDTO.ChangePasswordRequest
	if err := helper.ParseBody(c, &in); err != nil {
		return err
	}
	if err := ctl.Svc.ChangePassword(c.UserContext(), uid, in); err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Password berhasil diubah", nil)
}

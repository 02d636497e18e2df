package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Nama locals yang di-set middleware AuthJWT
const (
	LocRawToken = "raw_token"
	LocUserID   = "user_id"
	LocRole     = "role"
)

// GetBearerToken mengambil token dari header Authorization: Bearer <token>.
func GetBearerToken(c *fiber.Ctx) string {
	const p = "Bearer "
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(auth) > len(p) && strings.EqualFold(auth[:len(p)], p) {
		return strings.TrimSpace(auth[len(p):])
	}
	return ""
}

// GetRawAccessToken: Locals (sudah diverifikasi middleware) lalu header.
func GetRawAccessToken(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocRawToken).(string); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return GetBearerToken(c)
}

// GetUserID ambil user_id dari Locals. 401 kalau belum login.
func GetUserID(c *fiber.Ctx) (uint, error) {
	switch v := c.Locals(LocUserID).(type) {
	case uint:
		if v > 0 {
			return v, nil
		}
	case float64:
		if v > 0 {
			return uint(v), nil
		}
	}
	return 0, fiber.NewError(fiber.StatusUnauthorized, "User belum login")
}

func GetRole(c *fiber.Ctx) string {
	r, _ := c.Locals(LocRole).(string)
	return r
}

// ParamID membaca :name sebagai uint > 0 (404 kalau tidak valid).
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusNotFound, "ID tidak valid")
	}
	return uint(id), nil
}

// ParseBody decode JSON body; 400 kalau format salah.
func ParseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return nil
}

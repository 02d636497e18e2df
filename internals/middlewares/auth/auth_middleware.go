package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	helper "gymku_backend/internals/helpers"
)

type AuthJWTOpts struct {
	Secret string
	// return true kalau token sudah logout
	BlacklistChecker func(ctx context.Context, rawToken string) (bool, error)
	// opsional: role terkini dari DB (role bisa berubah, mis. member -> trainer).
	// Return gorm.ErrRecordNotFound / error lain -> 401.
	RoleResolver func(ctx context.Context, userID uint) (string, error)
}

// AuthJWT verifikasi Bearer token lalu isi Locals user_id & role.
func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret wajib diisi")
	}

	return func(c *fiber.Ctx) error {
		raw := helper.GetBearerToken(c)
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		if o.BlacklistChecker != nil {
			black, err := o.BlacklistChecker(c.UserContext(), raw)
			if err != nil {
				log.Error().Err(err).Msg("[AUTH] cek blacklist gagal")
				return fiber.NewError(fiber.StatusInternalServerError, "Gagal verifikasi token")
			}
			if black {
				return fiber.NewError(fiber.StatusUnauthorized, "Token revoked")
			}
		}

		claims, err := helper.ParseAccessToken(secret, raw)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		role := claims.Role
		if o.RoleResolver != nil {
			r, err := o.RoleResolver(c.UserContext(), claims.UserID)
			if err != nil {
				return fiber.NewError(fiber.StatusUnauthorized, "User tidak ditemukan")
			}
			role = r
		}

		c.Locals(helper.LocRawToken, raw)
		c.Locals(helper.LocUserID, claims.UserID)
		c.Locals(helper.LocRole, role)
		c.Locals("jwt_claims", claims)
		return c.Next()
	}
}

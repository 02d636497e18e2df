package helper

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// FieldErrors error validasi per field (422).
type FieldErrors map[string][]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(fe[k], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (fe FieldErrors) Add(field, msg string) FieldErrors {
	fe[field] = append(fe[field], msg)
	return fe
}

// NewFieldError shortcut satu field.
func NewFieldError(field, msg string) FieldErrors {
	return FieldErrors{field: {msg}}
}

// IsUniqueViolation: duplicate key (gorm TranslateError / SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// ErrorHandler dipasang di fiber.Config. Service cukup return error,
// mapping ke HTTP status dilakukan di sini.
func ErrorHandler(debug bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe FieldErrors
		if errors.As(err, &fe) {
			return JsonValidationError(c, fe)
		}

		var fErr *fiber.Error
		if errors.As(err, &fErr) {
			if fErr.Code >= 500 {
				log.Error().Err(err).Str("path", c.Path()).Msg("[ERROR] request gagal")
			}
			return JsonError(c, fErr.Code, fErr.Message)
		}

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return JsonError(c, fiber.StatusNotFound, "Data tidak ditemukan")
		}
		if IsUniqueViolation(err) {
			return JsonError(c, fiber.StatusConflict, "Data sudah ada")
		}

		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).
			Interface("reqid", c.Locals("reqid")).Msg("[ERROR] unhandled")
		msg := "Terjadi kesalahan pada server"
		if debug {
			msg = err.Error()
		}
		return JsonError(c, fiber.StatusInternalServerError, msg)
	}
}

// Wrap menambah konteks ke error mentah; error yang sudah terklasifikasi
// (*fiber.Error, FieldErrors) diteruskan apa adanya supaya status HTTP-nya tidak hilang.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var fe *fiber.Error
	var ve FieldErrors
	if errors.As(err, &fe) || errors.As(err, &ve) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

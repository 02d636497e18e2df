package helper

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func runErr(t *testing.T, debug bool, err error) (int, ErrorResponse) {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(debug)})
	app.Get("/", func(c *fiber.Ctx) error { return err })

	resp, e := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, e)
	body, _ := io.ReadAll(resp.Body)
	var out ErrorResponse
	require.NoError(t, sonic.Unmarshal(body, &out))
	return resp.StatusCode, out
}

func TestErrorHandler(t *testing.T) {
	code, body := runErr(t, false, NewFieldError("purchasable_id", "tidak ditemukan"))
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, []string{"tidak ditemukan"}, body.Errors["purchasable_id"])

	code, body = runErr(t, false, fmt.Errorf("wrap: %w", NewFieldError("x", "y")))
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, body.Errors, "x")

	code, body = runErr(t, false, fiber.NewError(fiber.StatusConflict, "slot penuh"))
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "slot penuh", body.Message)
	assert.Equal(t, "CONFLICT", body.ErrorCode)

	code, _ = runErr(t, false, fmt.Errorf("find: %w", gorm.ErrRecordNotFound))
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = runErr(t, false, gorm.ErrDuplicatedKey)
	assert.Equal(t, http.StatusConflict, code)

	code, body = runErr(t, false, errors.New("pq: secret detail"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.NotContains(t, body.Message, "secret")

	_, body = runErr(t, true, errors.New("pq: secret detail"))
	assert.Equal(t, "pq: secret detail", body.Message)
}

type sample struct {
	Email  string `json:"email" validate:"required,email"`
	Status string `json:"status" validate:"required,oneof=active inactive"`
	Price  int64  `json:"price" validate:"gte=0"`
}

func TestValidateStruct(t *testing.T) {
	err := ValidateStruct(sample{Email: "bad", Status: "x", Price: -1})
	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "email")
	assert.Contains(t, fe, "status")
	assert.Contains(t, fe, "price")

	assert.NoError(t, ValidateStruct(sample{Email: "a@b.co", Status: "active"}))
}

func TestBuildPaginationFromPage(t *testing.T) {
	p := BuildPaginationFromPage(45, 2, 20, 20)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	p = BuildPaginationFromPage(0, 1, 20, 0)
	assert.Equal(t, 1, p.TotalPages)
	assert.False(t, p.HasNext)
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymku_backend/internals/constants"
	"gymku_backend/internals/databases/dbtest"
	authDTO "gymku_backend/internals/features/users/auth/dto"
	userModel "gymku_backend/internals/features/users/users/model"
	helper "gymku_backend/internals/helpers"
)

type fakeGoogle struct {
	ident *GoogleIdentity
	err   error
}

func (f fakeGoogle) Verify(string, string) (*GoogleIdentity, error) { return f.ident, f.err }

func newSvc(t *testing.T) *AuthService {
	db := dbtest.Open(t)
	svc := NewAuthService(db, "secret", time.Hour, "client-id")
	svc.Google = fakeGoogle{ident: &GoogleIdentity{Sub: "g-1", Email: "Budi@Mail.com", Name: "Budi"}}
	return svc
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newSvc(t)
	ctx := context.Background()
	now := time.Now()

	out, err := svc.Register(ctx, authDTO.RegisterRequest{Name: "Siti", Email: " Siti@Gym.ID ", Password: "rahasia123"}, now)
	require.NoError(t, err)
	assert.Equal(t, "siti@gym.id", out.User.Email)
	assert.Equal(t, constants.RoleMember, out.User.Role)
	assert.Equal(t, "inactive", out.User.MembershipStatus)

	claims, err := helper.ParseAccessToken("secret", out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, claims.UserID)

	_, err = svc.Register(ctx, authDTO.RegisterRequest{Name: "Siti 2", Email: "siti@gym.id", Password: "rahasia123"}, now)
	var fe helper.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "email")

	_, err = svc.Login(ctx, authDTO.LoginRequest{Email: "siti@gym.id", Password: "salah-salah"}, now)
	var fErr *fiber.Error
	require.True(t, errors.As(err, &fErr))
	assert.Equal(t, fiber.StatusUnauthorized, fErr.Code)

	logged, err := svc.Login(ctx, authDTO.LoginRequest{Email: "SITI@gym.id", Password: "rahasia123"}, now)
	require.NoError(t, err)
	assert.NotEmpty(t, logged.AccessToken)
}

func TestRegisterValidation(t *testing.T) {
	svc := newSvc(t)
	_, err := svc.Register(context.Background(), authDTO.RegisterRequest{Name: "A", Email: "nope", Password: "123"}, time.Now())
	var fe helper.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "name")
	assert.Contains(t, fe, "email")
	assert.Contains(t, fe, "password")
}

func TestLogoutBlacklistAndCleanup(t *testing.T) {
	svc := newSvc(t)
	ctx := context.Background()
	now := time.Now()

	out, err := svc.Register(ctx, authDTO.RegisterRequest{Name: "Andi", Email: "andi@gym.id", Password: "rahasia123"}, now)
	require.NoError(t, err)

	black, err := svc.IsBlacklisted(ctx, out.AccessToken)
	require.NoError(t, err)
	assert.False(t, black)

	require.NoError(t, svc.Logout(ctx, out.AccessToken, now))
	// logout dua kali tetap aman
	require.NoError(t, svc.Logout(ctx, out.AccessToken, now))

	black, err = svc.IsBlacklisted(ctx, out.AccessToken)
	require.NoError(t, err)
	assert.True(t, black)

	n, err := svc.CleanupExpiredBlacklist(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = svc.CleanupExpiredBlacklist(ctx, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestLoginGoogle_CreatesThenLinks(t *testing.T) {
	svc := newSvc(t)
	ctx := context.Background()

	out, err := svc.LoginGoogle(ctx, authDTO.GoogleLoginRequest{IDToken: "tok"}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "budi@mail.com", out.User.Email)

	again, err := svc.LoginGoogle(ctx, authDTO.GoogleLoginRequest{IDToken: "tok"}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, again.User.ID)

	var count int64
	require.NoError(t, svc.DB.Model(&userModel.UserModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	svc.Google = fakeGoogle{err: errors.New("bad")}
	_, err = svc.LoginGoogle(ctx, authDTO.GoogleLoginRequest{IDToken: "tok"}, time.Now())
	var fErr *fiber.Error
	require.True(t, errors.As(err, &fErr))
	assert.Equal(t, fiber.StatusUnauthorized, fErr.Code)
}

func TestChangePassword(t *testing.T) {
	svc := newSvc(t)
	ctx := context.Background()
	out, err := svc.Register(ctx, authDTO.RegisterRequest{Name: "Rina", Email: "rina@gym.id", Password: "rahasia123"}, time.Now())
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, out.User.ID, authDTO.ChangePasswordRequest{OldPassword: "salah", NewPassword: "barubaru1"})
	var fe helper.FieldErrors
	require.True(t, errors.As(err, &fe))

	require.NoError(t, svc.ChangePassword(ctx, out.User.ID, authDTO.ChangePasswordRequest{OldPassword: "rahasia123", NewPassword: "barubaru1"}))
	_, err = svc.Login(ctx, authDTO.LoginRequest{Email: "rina@gym.id", Password: "barubaru1"}, time.Now())
	require.NoError(t, err)
}

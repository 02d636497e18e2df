package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"gymku_backend/internals/constants"
	authDTO "gymku_backend/internals/features/users/auth/dto"
	authModel "gymku_backend/internals/features/users/auth/model"
	userModel "gymku_backend/internals/features/users/users/model"
	helper "gymku_backend/internals/helpers"
)

type AuthService struct {
	DB             *gorm.DB
	Secret         string
	TTL            time.Duration
	GoogleClientID string
	Google         GoogleVerifier
}

func NewAuthService(db *gorm.DB, secret string, ttl time.Duration, googleClientID string) *AuthService {
	return &AuthService{
		DB:             db,
		Secret:         secret,
		TTL:            ttl,
		GoogleClientID: googleClientID,
		Google:         NewGoogleVerifier(),
	}
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

/* ==========================
   REGISTER
========================== */

func (s *AuthService) Register(ctx context.Context, in authDTO.RegisterRequest, now time.Time) (*authDTO.AuthResponse, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}

	var exists int64
	if err := s.DB.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("email = ?", in.Email).Count(&exists).Error; err != nil {
		return nil, fmt.Errorf("cek email: %w", err)
	}
	if exists > 0 {
		return nil, helper.NewFieldError("email", "Email sudah terdaftar.")
	}

	hashed, err := helper.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now = now.UTC()
	user := userModel.UserModel{
		Name:             in.Name,
		Email:            in.Email,
		Phone:            in.Phone,
		Password:         hashed,
		Role:             constants.RoleMember,
		MembershipStatus: userModel.MembershipInactive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.NewFieldError("email", "Email sudah terdaftar.")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	log.Info().Uint("user_id", user.ID).Msg("[AUTH] user baru terdaftar")
	return s.issue(user, now)
}

/* ==========================
   LOGIN
========================== */

func (s *AuthService) Login(ctx context.Context, in authDTO.LoginRequest, now time.Time) (*authDTO.AuthResponse, error) {
	in.Email = normalizeEmail(in.Email)
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}

	var user userModel.UserModel
	err := s.DB.WithContext(ctx).Where("email = ?", in.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Email atau password salah")
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !helper.CheckPassword(user.Password, in.Password) {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Email atau password salah")
	}
	return s.issue(user, now)
}

/* ==========================
   LOGIN GOOGLE
========================== */

func (s *AuthService) LoginGoogle(ctx context.Context, in authDTO.GoogleLoginRequest, now time.Time) (*authDTO.AuthResponse, error) {
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}
	if s.GoogleClientID == "" {
		return nil, fiber.NewError(fiber.StatusServiceUnavailable, "Login Google belum dikonfigurasi")
	}
	ident, err := s.Google.Verify(in.IDToken, s.GoogleClientID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid Google ID Token")
	}
	email := normalizeEmail(ident.Email)
	now = now.UTC()

	var user userModel.UserModel
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) by google_id
		err := tx.Where("google_id = ?", ident.Sub).First(&user).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		// 2) akun email yang sama -> tautkan
		err = tx.Where("email = ?", email).First(&user).Error
		if err == nil {
			sub := ident.Sub
			user.GoogleID = &sub
			return tx.Model(&user).Update("google_id", sub).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		// 3) user baru
		hashed, err := helper.HashPassword(randomPassword())
		if err != nil {
			return err
		}
		sub := ident.Sub
		name := strings.TrimSpace(ident.Name)
		if name == "" {
			name = email
		}
		user = userModel.UserModel{
			Name:             name,
			Email:            email,
			Password:         hashed,
			GoogleID:         &sub,
			Role:             constants.RoleMember,
			MembershipStatus: userModel.MembershipInactive,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, fmt.Errorf("login google: %w", err)
	}
	return s.issue(user, now)
}

func randomPassword() string {
	b := make([]byte, 24)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func (s *AuthService) issue(user userModel.UserModel, now time.Time) (*authDTO.AuthResponse, error) {
	tok, exp, err := helper.SignAccessToken(s.Secret, user.ID, user.Role, now, s.TTL)
	if err != nil {
		return nil, err
	}
	return &authDTO.AuthResponse{
		AccessToken: tok,
		TokenType:   "Bearer",
		ExpiresAt:   exp,
		User:        authDTO.ToUserResponse(user),
	}, nil
}

/* ==========================
   LOGOUT & BLACKLIST
========================== */

// Logout memasukkan token ke blacklist sampai exp aslinya.
func (s *AuthService) Logout(ctx context.Context, rawToken string, now time.Time) error {
	if strings.TrimSpace(rawToken) == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	now = now.UTC()
	exp := now.Add(s.TTL)
	if claims, err := helper.ParseAccessToken(s.Secret, rawToken); err == nil && claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time.UTC()
	}
	entry := authModel.TokenBlacklistModel{
		TokenHash: helper.HashToken(rawToken),
		ExpiredAt: exp,
		CreatedAt: now,
	}
	err := s.DB.WithContext(ctx).Create(&entry).Error
	if err != nil && !helper.IsUniqueViolation(err) {
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

func (s *AuthService) IsBlacklisted(ctx context.Context, rawToken string) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&authModel.TokenBlacklistModel{}).
		Where("token_hash = ?", helper.HashToken(rawToken)).Count(&n).Error
	return n > 0, err
}

// CleanupExpiredBlacklist dipanggil cron; token yang sudah lewat exp tidak perlu diblokir lagi.
func (s *AuthService) CleanupExpiredBlacklist(ctx context.Context, now time.Time) (int64, error) {
	res := s.DB.WithContext(ctx).Where("expired_at <= ?", now.UTC()).Delete(&authModel.TokenBlacklistModel{})
	return res.RowsAffected, res.Error
}

/* ==========================
   ME & PASSWORD
========================== */

func (s *AuthService) CurrentRole(ctx context.Context, userID uint) (string, error) {
	var user userModel.UserModel
	if err := s.DB.WithContext(ctx).Select("id", "role").First(&user, userID).Error; err != nil {
		return "", err
	}
	return user.Role, nil
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*authDTO.UserResponse, error) {
	var user userModel.UserModel
	if err := s.DB.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, err
	}
	out := authDTO.ToUserResponse(user)
	return &out, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uint, in authDTO.ChangePasswordRequest) error {
	if err := helper.ValidateStruct(in); err != nil {
		return err
	}
	var user userModel.UserModel
	if err := s.DB.WithContext(ctx).First(&user, userID).Error; err != nil {
		return err
	}
	if !helper.CheckPassword(user.Password, in.OldPassword) {
		return helper.NewFieldError("old_password", "Password lama salah.")
	}
	hashed, err := helper.HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Model(&user).Update("password", hashed).Error
}

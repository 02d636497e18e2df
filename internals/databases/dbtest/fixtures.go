package dbtest

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	userModel "gymku_backend/internals/features/users/users/model"
)

// CreateUser insert user minimal (password bukan bcrypt, cukup untuk fixture).
func CreateUser(t *testing.T, db *gorm.DB, name, role string) userModel.UserModel {
	t.Helper()
	now := time.Now().UTC()
	var n int64
	db.Model(&userModel.UserModel{}).Unscoped().Count(&n)
	u := userModel.UserModel{
		Name:             name,
		Email:            fmt.Sprintf("user%d@gym.test", n+1),
		Password:         "x",
		Role:             role,
		MembershipStatus: userModel.MembershipInactive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymku_backend/internals/constants"
	"gymku_backend/internals/databases/dbtest"
	membershipDTO "gymku_backend/internals/features/memberships/dto"
	"gymku_backend/internals/features/memberships/model"
	txModel "gymku_backend/internals/features/payment/transactions/model"
	helper "gymku_backend/internals/helpers"
	"gymku_backend/internals/helpers/storage"
)

var now = time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var fe *fiber.Error
	require.True(t, errors.As(err, &fe), "expected *fiber.Error, got %v", err)
	return fe.Code
}

func goldPlan() membershipDTO.CreateMembershipPackageRequest {
	return membershipDTO.CreateMembershipPackageRequest{Name: "Gold Plan", Duration: 90, Price: 500000, Status: "active"}
}

func TestCreatePackageStampsSlugAndCode(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewPackageService(db, storage.NewMemoryDisk(), nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, goldPlan(), now)
	require.NoError(t, err)
	assert.Equal(t, "gold-plan", p.Slug)
	require.NotNil(t, p.Code)
	assert.Equal(t, fmt.Sprintf("MP-%03d", p.ID), *p.Code)

	var stored model.MembershipPackageModel
	require.NoError(t, db.First(&stored, p.ID).Error)
	assert.Equal(t, *p.Code, *stored.Code)

	p2, err := svc.Create(ctx, goldPlan(), now)
	require.NoError(t, err)
	assert.Equal(t, "gold-plan-2", p2.Slug)
	assert.Equal(t, fmt.Sprintf("MP-%03d", p2.ID), *p2.Code)
}

func TestCreatePackageRequiresStatus(t *testing.T) {
	svc := NewPackageService(dbtest.Open(t), nil, nil)
	in := goldPlan()
	in.Status = ""
	_, err := svc.Create(context.Background(), in, now)
	var fe helper.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "status")
}

func TestUpdatePackageRegeneratesSlugAndDeletesRemovedImages(t *testing.T) {
	db := dbtest.Open(t)
	disk := storage.NewMemoryDisk()
	svc := NewPackageService(db, disk, nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, goldPlan(), now)
	require.NoError(t, err)

	p, err = svc.AddImage(ctx, p.ID, &multipart.FileHeader{Filename: "a.png", Size: 10}, now)
	require.NoError(t, err)
	p, err = svc.AddImage(ctx, p.ID, &multipart.FileHeader{Filename: "b.jpg", Size: 10}, now)
	require.NoError(t, err)
	require.Len(t, p.Images, 2)
	keep, drop := p.Images[0], p.Images[1]

	p, err = svc.Update(ctx, p.ID, membershipDTO.UpdateMembershipPackageRequest{
		Name:   strPtr("Platinum Plan"),
		Images: &[]string{keep},
	}, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "platinum-plan", p.Slug)
	assert.Equal(t, []string{keep}, []string(p.Images))
	assert.Equal(t, []string{drop}, disk.DeletedURLs())

	_, err = svc.Update(ctx, p.ID, membershipDTO.UpdateMembershipPackageRequest{
		Images: &[]string{keep, "https://evil.example/x.webp"},
	}, now)
	var fe helper.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "images")
}

func TestDeletePackage(t *testing.T) {
	db := dbtest.Open(t)
	disk := storage.NewMemoryDisk()
	svc := NewPackageService(db, disk, nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, goldPlan(), now)
	require.NoError(t, err)
	p, err = svc.AddImage(ctx, p.ID, &multipart.FileHeader{Filename: "a.png", Size: 10}, now)
	require.NoError(t, err)
	// gagal hapus file tidak menggagalkan delete
	disk.FailOn[p.Images[0]] = errors.New("oss down")

	used, err := svc.Create(ctx, membershipDTO.CreateMembershipPackageRequest{Name: "Silver", Duration: 30, Price: 1, Status: "active"}, now)
	require.NoError(t, err)
	u := dbtest.CreateUser(t, db, "Member", constants.RoleMember)
	require.NoError(t, db.Create(&txModel.TransactionModel{
		Code: "MP-20250115-U1-ABCD", UserID: u.ID, Amount: 1, PaymentStatus: txModel.PaymentPending,
		PurchasableType: txModel.PurchasableMembershipPackage, PurchasableID: used.ID,
	}).Error)

	assert.Equal(t, fiber.StatusConflict, statusOf(t, svc.Delete(ctx, used.ID)))
	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.Equal(t, fiber.StatusNotFound, statusOf(t, svc.Delete(ctx, p.ID)))
}

func TestPublicListOnlyActive(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewPackageService(db, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, goldPlan(), now)
	require.NoError(t, err)
	off, err := svc.Create(ctx, membershipDTO.CreateMembershipPackageRequest{Name: "Lama", Duration: 30, Price: 1, Status: "inactive"}, now)
	require.NoError(t, err)

	rows, total, err := svc.List(ctx, membershipDTO.ListPackageQuery{ActiveOnly: true}, helper.Paging{Page: 1, PerPage: 10, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "gold-plan", rows[0].Slug)

	_, err = svc.GetBySlug(ctx, off.Slug)
	assert.Equal(t, fiber.StatusNotFound, statusOf(t, err))
	got, err := svc.GetBySlug(ctx, "GOLD-PLAN")
	require.NoError(t, err)
	assert.Equal(t, "Gold Plan", got.Name)
}

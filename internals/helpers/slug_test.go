package helper_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymku_backend/internals/databases/dbtest"
	gymClassModel "gymku_backend/internals/features/gym_classes/model"
	helper "gymku_backend/internals/helpers"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Gold Plan":          "gold-plan",
		"  Yoga   Pagi!! ":   "yoga-pagi",
		"Café Crème Brûlée":  "cafe-creme-brulee",
		"---":                "",
		"HIIT 45' (Level 2)": "hiit-45-level-2",
	}
	for in, want := range cases {
		assert.Equal(t, want, helper.Slugify(in, 100), in)
	}
	assert.Equal(t, "abc", helper.Slugify("abc-def", 4))
}

func TestUniqueSlug(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	spec := helper.SlugSpec{Table: "gym_classes", Fallback: "kelas"}

	mk := func(slug string) gymClassModel.GymClassModel {
		g := gymClassModel.GymClassModel{Name: "Yoga", Slug: slug, Status: gymClassModel.ClassActive}
		require.NoError(t, db.Create(&g).Error)
		return g
	}
	first := mk("yoga")
	mk("yoga-2")
	mk("yoga-4")
	mk("yoga-pagi") // prefix sama tapi bukan suffix angka

	got, err := helper.UniqueSlug(ctx, db, spec, "Yoga")
	require.NoError(t, err)
	assert.Equal(t, "yoga-3", got)

	// case-insensitive
	got, err = helper.UniqueSlug(ctx, db, spec, "YOGA")
	require.NoError(t, err)
	assert.Equal(t, "yoga-3", got)

	// slug milik row sendiri tidak dianggap bentrok
	own := spec
	own.ExcludeID = first.ID
	got, err = helper.UniqueSlug(ctx, db, own, "yoga")
	require.NoError(t, err)
	assert.Equal(t, "yoga", got)

	got, err = helper.UniqueSlug(ctx, db, spec, "Pilates")
	require.NoError(t, err)
	assert.Equal(t, "pilates", got)

	// nama tanpa huruf/angka -> fallback domain
	got, err = helper.UniqueSlug(ctx, db, spec, "!!!")
	require.NoError(t, err)
	assert.Equal(t, "kelas", got)
}

func TestUniqueSlugRespectsMaxLen(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	long := strings.Repeat("a", 10)
	spec := helper.SlugSpec{Table: "gym_classes", MaxLen: 10}

	require.NoError(t, db.Create(&gymClassModel.GymClassModel{Name: long, Slug: long, Status: gymClassModel.ClassActive}).Error)

	got, err := helper.UniqueSlug(ctx, db, spec, long)
	require.NoError(t, err)
	assert.Equal(t, "aaaaaaaa-2", got)
	assert.LessOrEqual(t, len(got), 10)
}

//go:build integration

package helper_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academykit_backend/internals/constants"
	courseModel "academykit_backend/internals/features/courses/courses/model"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/testinfra"
)

func TestEnsureUniqueSlugCI_Postgres(t *testing.T) {
	db := testinfra.Postgres(t)
	ctx := context.Background()
	_, admin := testinfra.User(t, db, constants.RoleAdmin)

	existing := testinfra.Course(t, db, admin.ID, func(c *courseModel.CourseModel) { c.Slug = "Intro-To-Go" })

	slug, err := helper.EnsureUniqueSlugCI(ctx, db, "courses", "slug", "intro to go", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "intro-to-go-2", slug)

	testinfra.Course(t, db, admin.ID, func(c *courseModel.CourseModel) { c.Slug = "INTRO-TO-GO-2" })
	slug, err = helper.EnsureUniqueSlugCI(ctx, db, "courses", "slug", "Intro to Go", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "intro-to-go-3", slug)

	// renaming a course to its own title keeps its slug free
	slug, err = helper.EnsureUniqueSlugCI(ctx, db, "courses", "slug", "intro to go", helper.ExcludeID("id", existing.ID), 0)
	require.NoError(t, err)
	assert.Equal(t, "intro-to-go", slug)

	slug, err = helper.EnsureUniqueSlugCI(ctx, db, "courses", "slug", "Rust basics", helper.ExcludeID("id", existing.ID), 0)
	require.NoError(t, err)
	assert.Equal(t, "rust-basics", slug)
}

func TestEnsureUniqueSlugCI_ShortMaxLen(t *testing.T) {
	db := testinfra.Postgres(t)
	_, admin := testinfra.User(t, db, constants.RoleAdmin)
	testinfra.Course(t, db, admin.ID, func(c *courseModel.CourseModel) { c.Slug = "abcdefgh" })

	slug, err := helper.EnsureUniqueSlugCI(context.Background(), db, "courses", "slug", "abcdefghij", nil, 8)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(slug), 8)
	assert.Equal(t, "abcdef-2", slug)
}

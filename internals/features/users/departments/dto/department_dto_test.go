package dto

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	model "academykit_backend/internals/features/users/departments/model"
	helper "academykit_backend/internals/helpers"
)

func TestDepartmentRequestValidation(t *testing.T) {
	ok := DepartmentRequest{Name: " Engineering "}
	ok.Normalize()
	assert.Equal(t, "Engineering", ok.Name)
	assert.NoError(t, helper.ValidateStruct(ok))

	assert.Error(t, helper.ValidateStruct(DepartmentRequest{Name: "a"}))
}

func TestFromModel(t *testing.T) {
	now := time.Now()
	m := &model.DepartmentModel{ID: uuid.New(), Name: "Ops", Slug: "ops", IsActive: true}
	m.CreatedOn, m.UpdatedOn = now, now

	got := FromModel(m, 4)
	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, "ops", got.Slug)
	assert.EqualValues(t, 4, got.UserCount)
	assert.True(t, got.IsActive)
}

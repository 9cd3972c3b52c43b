package service

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"academykit_backend/internals/constants"
	helper "academykit_backend/internals/helpers"
)

func TestCheckTransition(t *testing.T) {
	teacher := Access{TeacherRole: constants.TeacherAuthor}
	admin := Access{Admin: true}
	trainee := Access{}

	tests := []struct {
		name     string
		from, to string
		isUpdate bool
		access   Access
		want     int
	}{
		{"teacher submits draft", constants.StatusDraft, constants.StatusReview, false, teacher, 0},
		{"teacher resubmits rejected", constants.StatusRejected, constants.StatusReview, false, teacher, 0},
		{"teacher submits update", constants.StatusPublished, constants.StatusReview, true, teacher, 0},
		{"published without update", constants.StatusPublished, constants.StatusReview, false, teacher, fiber.StatusConflict},
		{"trainee cannot submit", constants.StatusDraft, constants.StatusReview, false, trainee, fiber.StatusForbidden},
		{"admin publishes", constants.StatusReview, constants.StatusPublished, false, admin, 0},
		{"admin rejects", constants.StatusReview, constants.StatusRejected, false, admin, 0},
		{"admin cannot skip review", constants.StatusDraft, constants.StatusPublished, false, admin, fiber.StatusConflict},
		{"teacher cannot publish", constants.StatusReview, constants.StatusPublished, false, teacher, fiber.StatusForbidden},
		{"back to draft", constants.StatusReview, constants.StatusDraft, false, admin, fiber.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckTransition(tt.from, tt.to, tt.isUpdate, tt.access)
			if tt.want == 0 {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, helper.Classify(err).Status)
		})
	}
}

func TestAccess(t *testing.T) {
	assert.True(t, Access{Admin: true}.CanLearn())
	assert.True(t, Access{TeacherRole: constants.TeacherLecturer}.CanManage())
	assert.False(t, Access{TeacherRole: constants.TeacherLecturer}.IsAuthor())
	assert.False(t, Access{}.CanLearn())
}

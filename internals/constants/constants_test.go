package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		role, min string
		want      bool
	}{
		{RoleSuperAdmin, RoleAdmin, true},
		{RoleAdmin, RoleAdmin, true},
		{RoleTrainer, RoleAdmin, false},
		{RoleTrainee, RoleTrainer, false},
		{RoleTrainer, RoleTrainee, true},
		{"guest", RoleTrainee, false},
	}
	for _, tt := range tests {
		t.Run(tt.role+">="+tt.min, func(t *testing.T) {
			assert.Equal(t, tt.want, RoleAtLeast(tt.role, tt.min))
		})
	}
}

func TestDetectMediaType(t *testing.T) {
	assert.Equal(t, MediaImage, DetectMediaType("photo.JPG"))
	assert.Equal(t, MediaDocument, DetectMediaType("slides.pptx"))
	assert.Equal(t, MediaVideo, DetectMediaType("intro.mp4"))
	assert.Equal(t, "", DetectMediaType("archive.zip"))
	assert.True(t, IsAllowedExtension(MediaAudio, "a.mp3"))
	assert.False(t, IsAllowedExtension(MediaImage, "a.mp3"))
}

package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helper "academykit_backend/internals/helpers"
)

func TestLevelRequest(t *testing.T) {
	r := LevelRequest{Name: "  Beginner "}
	r.Normalize()
	assert.Equal(t, "Beginner", r.Name)
	assert.NoError(t, helper.ValidateStruct(r))

	r = LevelRequest{Name: " x "}
	r.Normalize()
	err := helper.ValidateStruct(r)
	require.Error(t, err)
	assert.Contains(t, helper.Classify(err).Fields, "name")
}

package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helper "academykit_backend/internals/helpers"
)

func TestTagRequestRejectsBlank(t *testing.T) {
	r := TagRequest{Name: "   "}
	r.Normalize()
	err := helper.ValidateStruct(r)
	require.Error(t, err)
	assert.Equal(t, 422, helper.Classify(err).Status)
}

func TestTagRequestNormalize(t *testing.T) {
	r := TagRequest{Name: "\tgo "}
	r.Normalize()
	assert.Equal(t, "go", r.Name)
	assert.NoError(t, helper.ValidateStruct(r))
}

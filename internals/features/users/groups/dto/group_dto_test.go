package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helper "academykit_backend/internals/helpers"
)

func TestAddMembersRequestNormalize(t *testing.T) {
	req := AddMembersRequest{Emails: []string{" Ada@Example.com", "ada@example.com", "", "grace@example.com"}}
	req.Normalize()
	assert.Equal(t, []string{"ada@example.com", "grace@example.com"}, req.Emails)
	assert.NoError(t, helper.ValidateStruct(req))
}

func TestAddMembersRequestRejectsBadEmail(t *testing.T) {
	err := helper.ValidateStruct(AddMembersRequest{Emails: []string{"nope"}})
	require.Error(t, err)
	assert.Contains(t, helper.Classify(err).Fields, "emails[0]")
}

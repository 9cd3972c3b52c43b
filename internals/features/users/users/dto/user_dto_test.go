package dto

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "academykit_backend/internals/features/users/users/model"
	helper "academykit_backend/internals/helpers"
)

func TestUpdateUserRequest_ApplyTo(t *testing.T) {
	dept := uuid.New()
	u := &model.UserModel{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Email:      "ada@example.com",
		Bio:        helper.StrPtr("mathematician"),
		PublicURLs: pq.StringArray{"https://a.example"},
	}
	var req UpdateUserRequest
	require.NoError(t, json.Unmarshal([]byte(`{"first_name":"Augusta","bio":null,"department_id":"`+dept.String()+`","public_urls":[]}`), &req))
	require.NoError(t, req.Validate())
	assert.False(t, req.TouchesPrivileged())

	req.ApplyTo(u)
	assert.Equal(t, "Augusta", u.FirstName)
	assert.Equal(t, "Lovelace", u.LastName)
	assert.Nil(t, u.Bio)
	require.NotNil(t, u.DepartmentID)
	assert.Equal(t, dept, *u.DepartmentID)
	assert.Empty(t, u.PublicURLs)
}

func TestUpdateUserRequest_Validate(t *testing.T) {
	var req UpdateUserRequest
	require.NoError(t, json.Unmarshal([]byte(`{"first_name":"","email":"nope","role":"owner"}`), &req))
	err := req.Validate()
	require.Error(t, err)
	fields := helper.Classify(err).Fields
	assert.Contains(t, fields, "first_name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "role")
	assert.True(t, req.TouchesPrivileged())
}

func TestFromModel_FullName(t *testing.T) {
	u := &model.UserModel{FirstName: "Ada", MiddleName: helper.StrPtr("King"), LastName: "Lovelace"}
	r := FromModel(u)
	assert.Equal(t, "Ada King Lovelace", r.FullName)
	assert.NotNil(t, r.PublicURLs)
}

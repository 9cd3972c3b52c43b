package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academykit_backend/internals/constants"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/export"
)

func TestCanAssignRole(t *testing.T) {
	admin := helper.CurrentUser{ID: uuid.New(), Role: constants.RoleAdmin}
	super := helper.CurrentUser{ID: uuid.New(), Role: constants.RoleSuperAdmin}
	trainer := helper.CurrentUser{ID: uuid.New(), Role: constants.RoleTrainer}

	assert.True(t, canAssignRole(admin, constants.RoleTrainee))
	assert.True(t, canAssignRole(admin, constants.RoleTrainer))
	assert.False(t, canAssignRole(admin, constants.RoleAdmin))
	assert.True(t, canAssignRole(super, constants.RoleAdmin))
	assert.False(t, canAssignRole(trainer, constants.RoleTrainee))
}

func TestValidateImportRows(t *testing.T) {
	csv := "First_Name,middle_name,last_name,email,mobile,role,department\n" +
		"Ada,,Lovelace,ADA@example.com,,trainer,Engineering\n" +
		"Grace,,Hopper,grace@example.com,,,\n" +
		"Bad,,,not-an-email,,,\n" +
		"Dup,,Person,ada@example.com,,,\n" +
		"Taken,,Person,taken@example.com,,,\n" +
		"Boss,,Person,boss@example.com,,admin,\n" +
		"Lost,,Person,lost@example.com,,,Marketing\n"
	rows, err := export.ReadCSV([]byte(csv))
	require.NoError(t, err)

	eng := uuid.New()
	actor := helper.CurrentUser{ID: uuid.New(), Role: constants.RoleAdmin}
	reqs, errs := ValidateImportRows(rows, map[string]bool{"taken@example.com": true}, map[string]uuid.UUID{"engineering": eng}, actor)

	require.Len(t, reqs, 2)
	assert.Equal(t, "ada@example.com", reqs[0].Email)
	assert.Equal(t, constants.RoleTrainer, reqs[0].Role)
	require.NotNil(t, reqs[0].DepartmentID)
	assert.Equal(t, eng, *reqs[0].DepartmentID)
	assert.Equal(t, constants.RoleTrainee, reqs[1].Role, "empty role defaults to trainee")

	byRow := map[int][]string{}
	for _, e := range errs {
		byRow[e.Row] = e.Errors
	}
	assert.Len(t, byRow, 5)
	assert.NotEmpty(t, byRow[3])
	assert.Contains(t, byRow[4], "email duplicates row 1")
	assert.Contains(t, byRow[5], "email is already registered")
	assert.Contains(t, byRow[6], "only the super admin may create admin accounts")
	assert.Contains(t, byRow[7], "department Marketing does not exist")
}

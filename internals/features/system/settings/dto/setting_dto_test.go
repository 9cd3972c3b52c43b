package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "academykit_backend/internals/features/system/settings/model"
)

func TestSettingRequest_Apply(t *testing.T) {
	r := SettingRequest{CompanyName: "  Acme Academy ", CustomConfiguration: map[string]any{"theme": "dark"}}
	r.Normalize()

	var m model.GeneralSettingModel
	require.NoError(t, r.Apply(&m))
	assert.Equal(t, "Acme Academy", m.CompanyName)
	assert.JSONEq(t, `{"theme":"dark"}`, string(m.CustomConfiguration))
}

func TestSettingRequest_ApplyKeepsConfigWhenOmitted(t *testing.T) {
	m := model.GeneralSettingModel{CustomConfiguration: []byte(`{"a":1}`)}
	require.NoError(t, SettingRequest{CompanyName: "x"}.Apply(&m))
	assert.JSONEq(t, `{"a":1}`, string(m.CustomConfiguration))
}

package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	model "academykit_backend/internals/features/meetings/zoom/model"
)

func TestSettingsRequestKeepsSecretsWhenEmpty(t *testing.T) {
	m := &model.ZoomSettingModel{WebhookSecret: "old-secret", SDKKey: "key", SDKSecret: "sdk"}
	req := SettingsRequest{OAuthAccountID: " acc ", OAuthClientID: "cid", OAuthClientSecret: "cs", IsRecordingEnabled: true}
	req.Normalize()
	req.ApplyTo(m)

	assert.Equal(t, "old-secret", m.WebhookSecret)
	assert.Equal(t, "acc", m.OAuthAccountID)
	assert.True(t, m.IsRecordingEnabled)

	out := SettingsFromModel(m)
	assert.True(t, out.HasWebhookSecret)
	assert.True(t, out.HasOAuth)
	assert.True(t, out.HasSDK)
	assert.Nil(t, out.UpdatedOn)
}

package dto

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academykit_backend/internals/constants"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/mailer"
)

func TestSampleDataRendersEveryBuiltin(t *testing.T) {
	r := mailer.NewRenderer("AcademyKit", "https://lms.example.com", nil)
	for _, mt := range constants.MailTypes {
		t.Run(mt, func(t *testing.T) {
			require.True(t, r.HasBuiltin(mt))
			msg, err := r.Render(context.Background(), mt, []mailer.Recipient{{Name: "Jane", Email: "jane@example.com"}}, SampleData(mt))
			require.NoError(t, err)
			assert.NotEmpty(t, msg.Subject)
			assert.Contains(t, msg.HTML, "Jane Doe")
		})
	}
}

func TestMailNotificationRequest_Validate(t *testing.T) {
	ok := MailNotificationRequest{Name: "welcome", Subject: "Welcome to {{.App}}", Message: "<p>Hi {{.Data.Name}}</p>", MailType: constants.MailUserCreate}
	assert.NoError(t, ok.Validate())

	unknown := ok
	unknown.MailType = "Birthday"
	assert.Equal(t, 422, helper.Classify(unknown.Validate()).Status)

	broken := ok
	broken.Message = "<p>Hi {{.Data.Name</p>"
	err := broken.Validate()
	require.Error(t, err)
	assert.Equal(t, 422, helper.Classify(err).Status)
}

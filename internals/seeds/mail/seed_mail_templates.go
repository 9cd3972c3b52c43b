package mail

import (
	"context"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"academykit_backend/internals/constants"
	"academykit_backend/internals/features/notifications/mail/model"
	"academykit_backend/internals/helpers/mailer"
)

// SeedMailTemplates stores an inactive, editable copy of each built-in template.
// Mail types that already have a stored template are left alone.
func SeedMailTemplates(ctx context.Context, db *gorm.DB) error {
	created := 0
	for _, mt := range constants.MailTypes {
		subject, body, ok := mailer.Builtin(mt)
		if !ok {
			continue
		}
		var n int64
		if err := db.WithContext(ctx).Model(&model.MailNotificationModel{}).Where("mail_type = ?", mt).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		row := model.MailNotificationModel{Name: mt + " (default)", Subject: subject, Message: body, MailType: mt}
		if err := db.WithContext(ctx).Create(&row).Error; err != nil {
			return err
		}
		created++
	}
	log.Info().Int("created", created).Msg("[SEED] mail templates")
	return nil
}

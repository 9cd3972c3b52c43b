package details

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/container"
	aiRoute "academykit_backend/internals/features/ai/training_content/route"
	mailRoute "academykit_backend/internals/features/notifications/mail/route"
	notificationRoute "academykit_backend/internals/features/notifications/notifications/route"
	logRoute "academykit_backend/internals/features/system/logs/route"
	mediaRoute "academykit_backend/internals/features/system/media/route"
	settingRoute "academykit_backend/internals/features/system/settings/route"
)

func SystemPublicRoutes(public fiber.Router, a *container.App) {
	settingRoute.SettingPublicRoutes(public, a)
}

func SystemRoutes(private fiber.Router, a *container.App) {
	settingRoute.SettingRoutes(private, a)
	logRoute.LogRoutes(private, a)
	mediaRoute.MediaRoutes(private, a)
	notificationRoute.NotificationRoutes(private, a)
	mailRoute.MailNotificationRoutes(private, a)
	aiRoute.TrainingContentRoutes(private, a)
}

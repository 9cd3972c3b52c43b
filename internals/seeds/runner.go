package seeds

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"academykit_backend/internals/configs"
	levelService "academykit_backend/internals/features/courses/levels/service"
	settingService "academykit_backend/internals/features/system/settings/service"
	"academykit_backend/internals/seeds/mail"
	users "academykit_backend/internals/seeds/users/auth"
)

// RunAllSeeds is idempotent. usersFile is optional.
func RunAllSeeds(ctx context.Context, db *gorm.DB, cfg *configs.Config, usersFile string) error {
	if err := users.SeedSuperAdmin(ctx, db, cfg.Security.SuperAdminEmail, cfg.Security.SuperAdminPassword); err != nil {
		return errors.Wrap(err, "seed superadmin")
	}
	if usersFile != "" {
		if err := users.SeedUsersFromJSON(ctx, db, usersFile); err != nil {
			return err
		}
	}
	if err := levelService.NewLevelService(db).Seed(ctx); err != nil {
		return errors.Wrap(err, "seed levels")
	}
	if err := mail.SeedMailTemplates(ctx, db); err != nil {
		return errors.Wrap(err, "seed mail templates")
	}
	if err := settingService.Seed(ctx, db, cfg.App.Name); err != nil {
		return errors.Wrap(err, "seed settings")
	}
	return nil
}

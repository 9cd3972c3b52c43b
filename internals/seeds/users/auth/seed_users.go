package user

import (
	"context"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"academykit_backend/internals/constants"
	authService "academykit_backend/internals/features/users/auth/service"
	"academykit_backend/internals/features/users/users/model"
)

type UserSeed struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// seedUser inserts an active user unless the email is already taken.
func seedUser(ctx context.Context, db *gorm.DB, data UserSeed) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(data.Email))
	var n int64
	if err := db.WithContext(ctx).Model(&model.UserModel{}).Unscoped().Where("lower(email) = ?", email).Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if !constants.Contains(constants.AllRoles, data.Role) {
		return false, errors.Errorf("unknown role %q for %s", data.Role, email)
	}
	hash, err := authService.HashPassword(data.Password)
	if err != nil {
		return false, errors.Wrapf(err, "hash password for %s", email)
	}
	u := model.UserModel{
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		Email:        email,
		Role:         data.Role,
		Status:       constants.UserActive,
		PasswordHash: hash,
	}
	return true, db.WithContext(ctx).Create(&u).Error
}

// SeedSuperAdmin creates the first superadmin account from configuration.
func SeedSuperAdmin(ctx context.Context, db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		log.Warn().Msg("[SEED] superadmin credentials not configured, skipped")
		return nil
	}
	created, err := seedUser(ctx, db, UserSeed{FirstName: "Super", LastName: "Admin", Email: email, Password: password, Role: constants.RoleSuperAdmin})
	if err != nil {
		return err
	}
	log.Info().Str("email", email).Bool("created", created).Msg("[SEED] superadmin")
	return nil
}

// SeedUsersFromJSON loads demo users from a JSON array of UserSeed.
func SeedUsersFromJSON(ctx context.Context, db *gorm.DB, filePath string) error {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return errors.Wrap(err, "read users file")
	}
	var inputs []UserSeed
	if err := sonic.Unmarshal(raw, &inputs); err != nil {
		return errors.Wrap(err, "decode users file")
	}
	created := 0
	for _, data := range inputs {
		ok, err := seedUser(ctx, db, data)
		if err != nil {
			log.Error().Err(err).Str("email", data.Email).Msg("[SEED] user skipped")
			continue
		}
		if ok {
			created++
		}
	}
	log.Info().Int("created", created).Int("total", len(inputs)).Msg("[SEED] users")
	return nil
}

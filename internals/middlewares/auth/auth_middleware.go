// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"academykit_backend/internals/constants"
	helper "academykit_backend/internals/helpers"
)

// Store answers the per-request lookups the middleware needs.
type Store interface {
	IsBlacklisted(ctx context.Context, token string) (bool, error)
	UserStatus(ctx context.Context, id uuid.UUID) (string, error)
}

// GormStore reads token_blacklist and users.
type GormStore struct {
	DB *gorm.DB
}

func (s GormStore) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	var exists bool
	err := s.DB.WithContext(ctx).
		Raw(`SELECT EXISTS(SELECT 1 FROM token_blacklist WHERE token = ? AND deleted_at IS NULL)`, token).
		Scan(&exists).Error
	return exists, err
}

func (s GormStore) UserStatus(ctx context.Context, id uuid.UUID) (string, error) {
	var row struct{ Status string }
	err := s.DB.WithContext(ctx).
		Table("users").
		Select("status").
		Where("id = ? AND deleted_at IS NULL", id).
		Take(&row).Error
	return row.Status, err
}

// AuthMiddleware validates the bearer token and fills Locals with the caller identity.
func AuthMiddleware(store Store, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return helper.ErrUnauthorized(err.Error())
		}

		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()

		blacklisted, err := store.IsBlacklisted(ctx, tokenString)
		if err != nil {
			return helper.ErrService("could not verify token", err)
		}
		if blacklisted {
			return helper.ErrUnauthorized("token has been revoked")
		}

		if secret == "" {
			return helper.ErrService("missing JWT secret", nil)
		}
		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		}); err != nil {
			return helper.ErrUnauthorized("invalid token")
		}

		if err := validateTokenExpiry(claims, 30*time.Second); err != nil {
			return helper.ErrUnauthorized("token expired")
		}
		if typ, _ := claims["typ"].(string); typ != "" && typ != "access" {
			return helper.ErrUnauthorized("invalid token type")
		}

		userID, err := extractUserID(claims)
		if err != nil {
			return helper.ErrUnauthorized("invalid or missing user id")
		}

		status, err := store.UserStatus(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.ErrUnauthorized("user not found")
			}
			return helper.ErrService("could not load user", err)
		}
		if status != constants.UserActive {
			log.Warn().Str("user_id", userID.String()).Str("status", status).Msg("[AUTH] inactive user rejected")
			return helper.ErrForbidden("your account is not active")
		}

		helper.SetRawAccessToken(c, tokenString)
		c.Locals(helper.LocUserID, userID.String())
		storeBasicClaimsToLocals(c, claims)
		return c.Next()
	}
}

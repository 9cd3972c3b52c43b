package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"academykit_backend/internals/constants"
	helper "academykit_backend/internals/helpers"
)

const testSecret = "test-secret"

type fakeStore struct {
	blacklisted map[string]bool
	status      map[uuid.UUID]string
}

func (f fakeStore) IsBlacklisted(_ context.Context, token string) (bool, error) {
	return f.blacklisted[token], nil
}

func (f fakeStore) UserStatus(_ context.Context, id uuid.UUID) (string, error) {
	s, ok := f.status[id]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return s, nil
}

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tok
}

func newApp(store Store) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	app.Use(AuthMiddleware(store, testSecret))
	app.Get("/me", func(c *fiber.Ctx) error {
		u, err := helper.GetCurrentUser(c)
		if err != nil {
			return err
		}
		return c.SendString(u.ID.String() + "|" + u.Role + "|" + u.Name)
	})
	app.Get("/admin", MinRole(constants.RoleAdmin), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	return app
}

func call(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthMiddleware(t *testing.T) {
	active, inactive := uuid.New(), uuid.New()
	exp := time.Now().Add(time.Hour).Unix()

	good := sign(t, jwt.MapClaims{"id": active.String(), "role": constants.RoleTrainee, "user_name": "Ada", "exp": exp})
	revoked := sign(t, jwt.MapClaims{"id": active.String(), "role": constants.RoleTrainee, "exp": exp + 1})
	expired := sign(t, jwt.MapClaims{"id": active.String(), "exp": time.Now().Add(-time.Minute).Unix()})
	disabled := sign(t, jwt.MapClaims{"id": inactive.String(), "exp": exp})
	unknown := sign(t, jwt.MapClaims{"id": uuid.NewString(), "exp": exp})
	refresh := sign(t, jwt.MapClaims{"id": active.String(), "exp": exp, "typ": "refresh"})

	app := newApp(fakeStore{
		blacklisted: map[string]bool{revoked: true},
		status:      map[uuid.UUID]string{active: constants.UserActive, inactive: constants.UserInActive},
	})

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"missing", "", fiber.StatusUnauthorized},
		{"garbage", "abc", fiber.StatusUnauthorized},
		{"blacklisted", revoked, fiber.StatusUnauthorized},
		{"expired", expired, fiber.StatusUnauthorized},
		{"inactive user", disabled, fiber.StatusForbidden},
		{"unknown user", unknown, fiber.StatusUnauthorized},
		{"refresh token", refresh, fiber.StatusUnauthorized},
		{"valid", good, fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, call(t, app, "/me", tt.token))
		})
	}

	assert.Equal(t, fiber.StatusForbidden, call(t, app, "/admin", good))
}

func TestAuthMiddleware_WrongSigningKey(t *testing.T) {
	id := uuid.New()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": id.String(), "exp": time.Now().Add(time.Hour).Unix()}).
		SignedString([]byte("other"))
	require.NoError(t, err)

	app := newApp(fakeStore{status: map[uuid.UUID]string{id: constants.UserActive}})
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, "/me", tok))
}

func TestValidateTokenExpiry_Skew(t *testing.T) {
	claims := jwt.MapClaims{"exp": float64(time.Now().Add(-10 * time.Second).Unix())}
	assert.NoError(t, validateTokenExpiry(claims, 30*time.Second))
	assert.Error(t, validateTokenExpiry(jwt.MapClaims{}, 30*time.Second))
}

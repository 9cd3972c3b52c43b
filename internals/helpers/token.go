// helpers/token.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"academykit_backend/internals/constants"
)

// Locals keys written by the auth middleware.
const (
	LocRawToken = "raw_token"
	LocUserID   = "user_id"
	LocRole     = "userRole"
	LocUserName = "user_name"
	LocTokenExp = "token_exp"
)

// CurrentUser is the caller identity pulled from the access token.
type CurrentUser struct {
	ID   uuid.UUID
	Role string
	Name string
}

func (u CurrentUser) IsAdmin() bool { return constants.IsAdmin(u.Role) }
func (u CurrentUser) IsSuperAdmin() bool { return u.Role == constants.RoleSuperAdmin }

// GetRawAccessToken looks at Locals, then the Authorization header, then the access_token cookie.
func GetRawAccessToken(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocRawToken).(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	fields := strings.Fields(c.Get(fiber.HeaderAuthorization))
	if len(fields) == 2 && strings.EqualFold(fields[0], "Bearer") {
		return strings.Trim(fields[1], "\"'")
	}
	return strings.TrimSpace(c.Cookies("access_token"))
}

func SetRawAccessToken(c *fiber.Ctx, raw string) {
	if raw = strings.TrimSpace(raw); raw != "" {
		c.Locals(LocRawToken, raw)
	}
}

// GetUserIDFromToken answers 401 when no user is attached to the request.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	switch t := c.Locals(LocUserID).(type) {
	case uuid.UUID:
		if t != uuid.Nil {
			return t, nil
		}
	case string:
		if s := strings.TrimSpace(t); s != "" {
			id, err := uuid.Parse(s)
			if err != nil {
				return uuid.Nil, ErrBadRequest("invalid user id in token")
			}
			return id, nil
		}
	}
	return uuid.Nil, ErrUnauthorized("user is not logged in")
}

func GetRole(c *fiber.Ctx) string {
	role, _ := c.Locals(LocRole).(string)
	return role
}

func GetCurrentUser(c *fiber.Ctx) (CurrentUser, error) {
	id, err := GetUserIDFromToken(c)
	if err != nil {
		return CurrentUser{}, err
	}
	name, _ := c.Locals(LocUserName).(string)
	return CurrentUser{ID: id, Role: GetRole(c), Name: name}, nil
}

// ParseUUIDParam reads a uuid path parameter or answers 400.
func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, ErrBadRequest("invalid " + name)
	}
	return id, nil
}

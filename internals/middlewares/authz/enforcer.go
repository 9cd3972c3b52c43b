// Package authz maps roles to (resource, action) permissions with casbin.
package authz

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	helper "academykit_backend/internals/helpers"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

const (
	ActRead   = "read"
	ActWrite  = "write"
	ActManage = "manage"
)

type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer loads the embedded model and policy.
func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("load casbin model: %w", err)
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}
	if err := loadEmbeddedPolicy(e, embeddedPolicy); err != nil {
		return nil, err
	}
	return &Enforcer{enforcer: e}, nil
}

// MustEnforcer panics when the embedded policy is broken.
func MustEnforcer() *Enforcer {
	e, err := NewEnforcer()
	if err != nil {
		panic(err)
	}
	return e
}

func loadEmbeddedPolicy(e *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		switch parts[0] {
		case "p":
			if len(parts) == 4 {
				if _, err := e.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
					return fmt.Errorf("add policy %v: %w", parts[1:], err)
				}
			}
		case "g":
			if len(parts) == 3 {
				if _, err := e.AddGroupingPolicy(parts[1], parts[2]); err != nil {
					return fmt.Errorf("add grouping policy %v: %w", parts[1:], err)
				}
			}
		}
	}
	return nil
}

// Can reports whether role may perform act on obj. A "manage" grant implies read and write.
func (e *Enforcer) Can(role, obj, act string) bool {
	if role == "" {
		return false
	}
	acts := []string{act}
	if act == ActRead || act == ActWrite {
		acts = append(acts, ActManage)
	}
	for _, a := range acts {
		ok, err := e.enforcer.Enforce(role, obj, a)
		if err != nil {
			log.Error().Err(err).Str("role", role).Str("obj", obj).Str("act", a).Msg("[AUTHZ] enforce failed")
			return false
		}
		if ok {
			return true
		}
	}
	return false
}

// Require is the route-level gate; it runs after the auth middleware.
func (e *Enforcer) Require(obj, act string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := helper.GetRole(c)
		if role == "" {
			return helper.ErrUnauthorized("user is not logged in")
		}
		if !e.Can(role, obj, act) {
			return helper.ErrForbidden(fmt.Sprintf("role %s may not %s %s", role, act, obj))
		}
		return c.Next()
	}
}

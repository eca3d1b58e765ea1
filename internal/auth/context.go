package auth

import (
	"github.com/gofiber/fiber/v2"
)

const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleOperator   = "operator"
)

// Actor is the acting-user/session context the gateway forwards with each
// request. The core trusts it; authentication itself happens upstream.
type Actor struct {
	ID       string
	TenantID string
	Role     string
}

// Privileged reports whether the actor may perform restricted event types
// and sanction negative-balance adjustments.
func (a Actor) Privileged() bool {
	return a.Role == RoleAdmin || a.Role == RoleSupervisor
}

// ActorFromRequest extracts the actor the gateway injected as headers.
func ActorFromRequest(c *fiber.Ctx) Actor {
	role := c.Get("x-user-role")
	if role == "" {
		role = RoleOperator
	}
	return Actor{
		ID:       c.Get("x-user-id"),
		TenantID: c.Get("x-tenant-id"),
		Role:     role,
	}
}

// DeviceFromRequest returns the originating device id, if the gateway
// forwarded one.
func DeviceFromRequest(c *fiber.Ctx) *string {
	if v := c.Get("x-device-id"); v != "" {
		return &v
	}
	return nil
}

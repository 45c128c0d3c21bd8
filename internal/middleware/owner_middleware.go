package middleware

import (
	"strings"

	"github.com/fadilmartias/interview-minds/internal/util"
	"github.com/gofiber/fiber/v2"
)

const (
	OwnerHeader = "X-User-ID"

	ownerLocalKey  = "ownerID"
	maxOwnerLength = 191
)

// RequireOwner takes the caller identity from OwnerHeader. The header is set
// by the authenticating gateway in front of this service.
func RequireOwner() fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner := strings.TrimSpace(c.Get(OwnerHeader))
		if owner == "" || len(owner) > maxOwnerLength {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusUnauthorized,
				Message: "Unauthorized",
			})
		}
		c.Locals(ownerLocalKey, owner)
		return c.Next()
	}
}

// OwnerID returns the identity stored by RequireOwner, or "".
func OwnerID(c *fiber.Ctx) string {
	owner, _ := c.Locals(ownerLocalKey).(string)
	return owner
}

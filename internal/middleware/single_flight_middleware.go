package middleware

import (
	"context"
	"time"

	"github.com/fadilmartias/interview-minds/internal/logger"
	"github.com/fadilmartias/interview-minds/internal/service"
	"github.com/fadilmartias/interview-minds/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/tidwall/gjson"
)

// SingleFlight lets one chat turn per owner and resume run at a time. The
// resume id is read from the JSON body's resumeId. A nil locker disables it.
func SingleFlight(locker service.SessionLocker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if locker == nil {
			return c.Next()
		}
		resumeID := gjson.GetBytes(c.Body(), "resumeId").String()
		if resumeID == "" {
			return c.Next()
		}

		key := OwnerID(c) + ":" + resumeID
		token, ok, err := locker.Acquire(c.UserContext(), key)
		if err != nil {
			// lock store down: let the turn through
			logger.Warn().Err(err).Str("key", key).Msg("session lock unavailable")
			return c.Next()
		}
		if !ok {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusConflict,
				Message: "A reply for this interview is still in progress",
			})
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := locker.Release(ctx, key, token); err != nil {
				logger.Warn().Err(err).Str("key", key).Msg("release session lock")
			}
		}()

		return c.Next()
	}
}

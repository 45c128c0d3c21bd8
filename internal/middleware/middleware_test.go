package middleware

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fadilmartias/interview-minds/internal/mocks"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireOwner(t *testing.T) {
	app := fiber.New()
	app.Get("/me", RequireOwner(), func(c *fiber.Ctx) error {
		return c.SendString(OwnerID(c))
	})

	req := httptest.NewRequest("GET", "/me", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set(OwnerHeader, " user_123 ")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "user_123", string(body))
}

func TestSingleFlightRejectsConcurrentTurn(t *testing.T) {
	locker := &mocks.SessionLocker{}
	var heldDuringHandler bool
	app := fiber.New()
	app.Post("/chat", RequireOwner(), SingleFlight(locker), func(c *fiber.Ctx) error {
		heldDuringHandler = locker.Held("owner-1:r-1")
		return c.SendStatus(fiber.StatusOK)
	})
	send := func() int {
		req := httptest.NewRequest("POST", "/chat", strings.NewReader(`{"resumeId":"r-1","message":"hi"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(OwnerHeader, "owner-1")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusOK, send())
	assert.True(t, heldDuringHandler)
	assert.False(t, locker.Held("owner-1:r-1"), "released after the turn")

	token, ok, err := locker.Acquire(context.Background(), "owner-1:r-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusConflict, send())

	require.NoError(t, locker.Release(context.Background(), "owner-1:r-1", token))
	assert.Equal(t, fiber.StatusOK, send())
}

func TestSingleFlightWithoutLocker(t *testing.T) {
	app := fiber.New()
	app.Post("/chat", SingleFlight(nil), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	resp, err := app.Test(httptest.NewRequest("POST", "/chat", strings.NewReader(`{"resumeId":"r-1"}`)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

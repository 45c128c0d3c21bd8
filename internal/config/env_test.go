package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("IM_TEST_STR", "  value ")
	t.Setenv("IM_TEST_INT", "42")
	t.Setenv("IM_TEST_BAD_INT", "forty")
	t.Setenv("IM_TEST_BOOL", "true")
	t.Setenv("IM_TEST_DUR", "90s")
	t.Setenv("IM_TEST_SECS", "15")

	assert.Equal(t, "value", getEnv("IM_TEST_STR", "x"))
	assert.Equal(t, "x", getEnv("IM_TEST_MISSING", "x"))
	assert.Equal(t, 42, getEnvInt("IM_TEST_INT", 1))
	assert.Equal(t, 1, getEnvInt("IM_TEST_BAD_INT", 1))
	assert.True(t, getEnvBool("IM_TEST_BOOL", false))
	assert.False(t, getEnvBool("IM_TEST_MISSING", false))
	assert.Equal(t, 90*time.Second, getEnvDuration("IM_TEST_DUR", time.Second))
	assert.Equal(t, 15*time.Second, getEnvDuration("IM_TEST_SECS", time.Second))
	assert.Equal(t, time.Second, getEnvDuration("IM_TEST_MISSING", time.Second))
}

package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSessionConfigDefaults(t *testing.T) {
	cfg, err := ParseSessionConfig("", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Neha", cfg.Persona.Name)
	assert.Equal(t, "Medium", cfg.Difficulty.Label)
	assert.Equal(t, "English", cfg.Language.Label)
}

func TestParseSessionConfigPersonas(t *testing.T) {
	for key, name := range map[string]string{"strict": "Vikram", "friendly": "Neha", "system": "Sam", " STRICT ": "Vikram"} {
		cfg, err := ParseSessionConfig(key, "hard", "hinglish")
		require.NoError(t, err, key)
		assert.Equal(t, name, cfg.Persona.Name)
		assert.Equal(t, "Hard", cfg.Difficulty.Label)
		assert.Equal(t, "Hinglish", cfg.Language.Label)
	}
}

func TestParseSessionConfigRejectsUnknown(t *testing.T) {
	tests := [][3]string{
		{"pirate", "", ""},
		{"", "impossible", ""},
		{"", "", "hindi"},
	}
	for _, tt := range tests {
		_, err := ParseSessionConfig(tt[0], tt[1], tt[2])
		assert.ErrorIs(t, err, ErrInvalidSessionConfig, "%v", tt)
	}
}

func TestEveryLanguageForbidsNonLatinScript(t *testing.T) {
	for key, lang := range languages {
		assert.Contains(t, lang.Instruction, "Devanagari", key)
	}
}

func TestSystemInstruction(t *testing.T) {
	cfg, err := ParseSessionConfig("system", "easy", "english")
	require.NoError(t, err)

	prompt := cfg.SystemInstruction("Designed a sharded Postgres cluster.")

	assert.Contains(t, prompt, "You are Sam, a System Architect")
	assert.Contains(t, prompt, "Difficulty: Easy.")
	assert.Contains(t, prompt, "2-3 sentences")
	assert.Contains(t, prompt, "exactly one follow-up question")
	assert.Contains(t, prompt, "--- RESUME CONTEXT ---\nDesigned a sharded Postgres cluster.")

	assert.Contains(t, cfg.SystemInstruction("  "), "no resume context available")
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so host environment leakage
// cannot change test outcomes.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "HOST", "MAX_TOKENS", "BOOKING_TRIGGER",
		"DATA_PATH", "INDEX_PATH", "EMBEDDINGS_MODEL",
		"DEFAULT_PROVIDER", "LLM_MODEL", "GROQ_API_KEY", "OPENAI_API_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 5002, cfg.Server.Port)
	assert.Equal(t, 1000, cfg.Chat.MaxTokens)
	assert.Equal(t, "marker", cfg.Chat.BookingTrigger)
	assert.False(t, cfg.Chat.SplitDateTime)
	assert.Equal(t, "ollama", cfg.DefaultProvider)
	assert.True(t, cfg.Retrieval.Enabled)
	assert.Equal(t, "appointments.csv", cfg.Storage.AppointmentsFile)
	assert.Equal(t, "chat_history.csv", cfg.Storage.ChatHistoryFile)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("MAX_TOKENS", "500")
	t.Setenv("BOOKING_TRIGGER", "keyword")
	t.Setenv("DEFAULT_PROVIDER", "groq")
	t.Setenv("GROQ_API_KEY", "test-key")
	t.Setenv("LLM_MODEL", "llama-3.3-70b-versatile")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 500, cfg.Chat.MaxTokens)
	assert.Equal(t, "keyword", cfg.Chat.BookingTrigger)
	assert.Equal(t, "groq", cfg.DefaultProvider)

	active := cfg.ActiveProvider()
	assert.Equal(t, "openai-compatible", active.Type)
	assert.Equal(t, "test-key", active.APIKey)
	assert.Equal(t, "llama-3.3-70b-versatile", active.Model)
}

func TestLoadRejectsUnknownTrigger(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOOKING_TRIGGER", "coin-flip")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownDefaultProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEFAULT_PROVIDER", "nonexistent")

	_, err := Load()
	assert.Error(t, err)
}

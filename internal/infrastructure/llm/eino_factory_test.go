package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-planner-ai/internal/config"
)

func newTestConfig() *config.Config {
	return &config.Config{LLM: config.LLMConfig{
		DefaultProvider: "gemini",
		Providers: map[string]config.ProviderConfig{
			"gemini": {
				APIKey:  "test-key",
				BaseURL: "http://127.0.0.1:1/v1",
				Model:   "gemini-3-pro-preview",
			},
			"nokey": {Model: "x"},
		},
	}}
}

func TestEinoFactory_DefaultProviderIsCached(t *testing.T) {
	f := NewEinoFactory(newTestConfig())

	a, err := f.Default(context.Background())
	require.NoError(t, err)
	b, err := f.Get(context.Background(), "gemini")
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestEinoFactory_UnknownProvider(t *testing.T) {
	_, err := NewEinoFactory(newTestConfig()).Get(context.Background(), "missing")
	assert.Error(t, err)
}

func TestEinoFactory_MissingAPIKey(t *testing.T) {
	_, err := NewEinoFactory(newTestConfig()).Get(context.Background(), "nokey")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("PLANNER_TEST_KEY", "secret")

	assert.Equal(t, "key: secret", expandEnv("key: ${PLANNER_TEST_KEY}"))
	assert.Equal(t, "key: fallback", expandEnv("key: ${PLANNER_TEST_MISSING:fallback}"))
	assert.Equal(t, "key: ", expandEnv("key: ${PLANNER_TEST_MISSING:}"))
	assert.Equal(t, "key: ${PLANNER_TEST_MISSING}", expandEnv("key: ${PLANNER_TEST_MISSING}"))
}

func TestLoadFrom_MergesEnvFileAndDefaults(t *testing.T) {
	dir := t.TempDir()
	base := `
llm:
  default_provider: gemini
  providers:
    gemini:
      api_key: ${PLANNER_TEST_API_KEY:}
      model: gemini-3-pro-preview
  workflows:
    alternatives:
      model: gemini-3-flash-preview
`
	override := `
server:
  http:
    port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(base), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.test.yaml"), []byte(override), 0o600))
	t.Setenv("APP_ENV", "test")
	t.Setenv("PLANNER_TEST_API_KEY", "k-123")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTP.Port)
	assert.Equal(t, "k-123", cfg.LLM.Providers["gemini"].APIKey)
	assert.Equal(t, "gemini-3-flash-preview", cfg.LLM.Workflow("alternatives").Model)
	assert.Empty(t, cfg.LLM.Workflow("template").Model)
	assert.Equal(t, 12*time.Hour, cfg.Workspace.SessionTTL)
	assert.Equal(t, 10, cfg.Export.PDF.MarginMM)
	assert.Equal(t, "A4", cfg.Export.PDF.PageSize)
}

func TestLoadFrom_MissingBaseFile(t *testing.T) {
	_, err := LoadFrom(t.TempDir())
	assert.Error(t, err)
}

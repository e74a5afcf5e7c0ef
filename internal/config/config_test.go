package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, 500, cfg.Generation.MaxTokens)
	assert.Equal(t, 5, cfg.Report.RecentCommits)
	assert.Equal(t, 20, cfg.Limits.RequestsPerMinute)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileValues(t *testing.T) {
	// Pin the ambient env so a developer's real settings cannot leak in.
	t.Setenv("GITSCRIBE_PROVIDER", "")
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("GEMINI_MODEL", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `provider: gemini
gemini:
  model: gemini-2.5-pro
generation:
  max_tokens: 800
report:
  recent_commits: 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.Model)
	assert.Equal(t, 800, cfg.Generation.MaxTokens)
	assert.Equal(t, 3, cfg.Report.RecentCommits)
	// Untouched sections keep their defaults.
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 20, cfg.Limits.RequestsPerMinute)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GITSCRIBE_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "AIza-env-key")
	t.Setenv("OPENAI_MODEL", "gpt-4.1")
	t.Setenv("GEMINI_MODEL", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: openai\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.Provider, "env provider should win over file")
	assert.Equal(t, "AIza-env-key", cfg.Gemini.APIKey)
	assert.Equal(t, "gpt-4.1", cfg.OpenAI.Model)
	assert.Equal(t, "AIza-env-key", cfg.APIKey())
	assert.Equal(t, "gemini-2.0-flash", cfg.Model())
}

func TestSaveRoundTrip(t *testing.T) {
	// Pin the ambient env so a developer's real keys cannot override the file.
	t.Setenv("GITSCRIBE_PROVIDER", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := Default()
	cfg.Provider = ProviderGemini
	cfg.Gemini.APIKey = "AIza-saved-key-000000"
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "config file may hold a key and must be user-only")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, loaded.Provider)
	assert.Equal(t, "AIza-saved-key-000000", loaded.Gemini.APIKey)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Provider = "claude"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Generation.MaxTokens = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Limits.RequestsPerMinute = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Report.TopFiles = 0
	assert.Error(t, cfg.Validate())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".gitscribe"), expandPath("~/.gitscribe"))
	assert.Equal(t, "/tmp/logs", expandPath("/tmp/logs"))
	assert.Equal(t, "", expandPath(""))
}

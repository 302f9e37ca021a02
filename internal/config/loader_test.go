package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setTestHome points HOME at a temp dir so config paths resolve inside it.
func setTestHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

// writeConfigFile writes a config.yaml under home with the given permissions.
func writeConfigFile(t *testing.T, home, content string, perm os.FileMode) string {
	t.Helper()
	dir := filepath.Join(home, ".config", "mirod")
	require.NoError(t, os.MkdirAll(dir, 0700))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	return path
}

func TestLoad_FromEnvironment(t *testing.T) {
	setTestHome(t)
	t.Setenv("MIRO_CLIENT_ID", "env-client")
	t.Setenv("MIRO_CLIENT_SECRET", "env-secret")
	t.Setenv("MIRO_REDIRECT_URL", "http://localhost:9999/cb")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env-client", cfg.Miro.ClientID)
	assert.Equal(t, "env-secret", cfg.Miro.ClientSecret.Value())
	assert.Equal(t, "http://localhost:9999/cb", cfg.Miro.RedirectURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Defaults fill the rest.
	assert.Equal(t, "https://api.miro.com", cfg.Miro.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.Miro.RequestTimeout)
}

func TestLoad_MissingRequiredFailsFast(t *testing.T) {
	setTestHome(t)
	t.Setenv("MIRO_CLIENT_ID", "")
	t.Setenv("MIRO_CLIENT_SECRET", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MIRO_CLIENT_ID")
}

func TestLoad_FileThenEnvOverride(t *testing.T) {
	home := setTestHome(t)
	path := writeConfigFile(t, home, `
miro:
  client_id: file-client
  client_secret: file-secret
  redirect_url: http://file.example/cb
log:
  level: warn
`, 0600)

	t.Setenv("MIRO_CLIENT_ID", "env-client")
	t.Setenv("MIRO_CLIENT_SECRET", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	// Environment wins over file for client_id; file fills the rest.
	assert.Equal(t, "env-client", cfg.Miro.ClientID)
	assert.Equal(t, "file-secret", cfg.Miro.ClientSecret.Value())
	assert.Equal(t, "http://file.example/cb", cfg.Miro.RedirectURL)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_RejectsInsecurePermissions(t *testing.T) {
	home := setTestHome(t)
	path := writeConfigFile(t, home, "miro:\n  client_id: x\n", 0644)

	t.Setenv("MIRO_CLIENT_SECRET", "s")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insecure config file permissions")
}

func TestLoad_RejectsPathOutsideAllowedDirs(t *testing.T) {
	setTestHome(t)
	outside := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(outside, []byte("{}"), 0600))

	_, err := Load(outside)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file must be in")
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"MIRO_CLIENT_ID", "miro.client_id"},
		{"MIRO_CLIENT_SECRET", "miro.client_secret"},
		{"MIRO_REDIRECT_URL", "miro.redirect_url"},
		{"MIRO_TOKEN_FILE", "miro.token_file"},
		{"LOG_LEVEL", "log.level"},
		{"LOG_FORMAT", "log.format"},
		{"TERM", "term"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, envTransform(tt.in), tt.in)
	}
}

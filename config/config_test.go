package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/git-extra/config"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, env := range []string{
		config.EnvCatalogURL,
		config.EnvGitHubToken,
		config.EnvGitLabToken,
		config.EnvBitbucketUser,
		config.EnvBitbucketPassword,
	} {
		t.Setenv(env, "")
	}
}

func TestLoad_defaults(t *testing.T) {
	clearEnv(t)

	home := t.TempDir()

	cfg, err := config.Load(home)

	require.NoError(t, err)
	assert.Equal(t, home, cfg.Home)
	assert.Equal(t, config.DefaultCatalogURL, cfg.CatalogURL)
	assert.Empty(t, cfg.Hosts)
}

func TestLoad_file_and_env(t *testing.T) {
	clearEnv(t)

	home := t.TempDir()

	content := `catalogUrl: https://example.com/catalog.json5
hosts:
  git.corp.example.com: github
github:
  apiUrl: https://git.corp.example.com/api/v3/
  token: from-file
bitbucket:
  user: me
  password: pw
`
	require.NoError(t, os.WriteFile(
		filepath.Join(home, config.FileName), []byte(content), 0o600,
	))

	t.Setenv(config.EnvGitHubToken, "from-env")

	cfg, err := config.Load(home)

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/catalog.json5", cfg.CatalogURL)
	assert.Equal(t, "github", cfg.Hosts["git.corp.example.com"])
	assert.Equal(t, "from-env", cfg.GitHub.Token)
	assert.Equal(
		t, "https://git.corp.example.com/api/v3/", cfg.GitHub.APIURL,
	)
	assert.Equal(t, "me", cfg.Bitbucket.User)
	assert.Equal(t, "pw", cfg.Bitbucket.Password)
}

func TestLoad_unknown_key(t *testing.T) {
	clearEnv(t)

	home := t.TempDir()

	require.NoError(t, os.WriteFile(
		filepath.Join(home, config.FileName),
		[]byte("catalogURL: typo\n"),
		0o600,
	))

	_, err := config.Load(home)

	assert.ErrorContains(t, err, "loading config")
}

func TestHomeDir_env(t *testing.T) {
	t.Setenv(config.EnvHome, "/opt/git-extra")

	assert.Equal(t, "/opt/git-extra", config.HomeDir())
}

func TestHomeDir_default(t *testing.T) {
	t.Setenv(config.EnvHome, "")
	t.Setenv("HOME", "/home/tester")

	assert.Equal(t, "/home/tester/.git-extra", config.HomeDir())
}

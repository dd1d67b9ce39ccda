// Package config loads the git-extra settings: built-in
// defaults, then the optional config.yaml in the tool's
// home directory, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"k8s.io/client-go/util/homedir"
)

// DefaultCatalogURL is where the quick-start catalog is
// downloaded from when no local copy exists.
const DefaultCatalogURL = "https://raw.githubusercontent.com/" +
	"jlyonsmith/git-extra/master/catalog.json5"

// FileName is the name of the optional settings file in
// the home directory.
const FileName = "config.yaml"

// Environment variables read by Load.
const (
	EnvHome              = "GIT_EXTRA_HOME"
	EnvCatalogURL        = "GIT_EXTRA_CATALOG_URL"
	EnvGitHubToken       = "GITHUB_TOKEN"
	EnvGitLabToken       = "GITLAB_TOKEN"
	EnvBitbucketUser     = "BITBUCKET_USER"
	EnvBitbucketPassword = "BITBUCKET_PASSWORD"
)

// Config holds all settings of one invocation.
type Config struct {
	// Home is the directory holding config.yaml and
	// the cached catalog.
	Home string `yaml:"-"`

	// CatalogURL is the quick-start catalog source.
	CatalogURL string `yaml:"catalogUrl"`

	// Hosts maps extra hostnames to a provider kind
	// ("github", "gitlab" or "bitbucket"), e.g. a
	// GitHub Enterprise installation.
	Hosts map[string]string `yaml:"hosts"`

	GitHub    GitHub    `yaml:"github"`
	GitLab    GitLab    `yaml:"gitlab"`
	Bitbucket Bitbucket `yaml:"bitbucket"`
}

// GitHub holds GitHub API settings.
type GitHub struct {
	APIURL string `yaml:"apiUrl"`
	Token  string `yaml:"token"`
}

// GitLab holds GitLab API settings.
type GitLab struct {
	APIURL string `yaml:"apiUrl"`
	Token  string `yaml:"token"`
}

// Bitbucket holds Bitbucket Cloud API settings.
type Bitbucket struct {
	APIURL   string `yaml:"apiUrl"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// HomeDir returns the tool's home directory:
// $GIT_EXTRA_HOME, else ~/.git-extra.
func HomeDir() string {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir
	}

	return filepath.Join(homedir.HomeDir(), ".git-extra")
}

// Load reads the configuration rooted at home. An empty
// home selects HomeDir. A missing config file is not an
// error.
func Load(home string) (Config, error) {
	const errCtx = "loading config"

	if home == "" {
		home = HomeDir()
	}

	cfg := Config{
		Home:       home,
		CatalogURL: DefaultCatalogURL,
	}

	path := filepath.Join(home, FileName)

	data, err := os.ReadFile(path) //nolint:gosec // path under tool home
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("%s: %w", errCtx, err)
	default:
		if err := yaml.UnmarshalWithOptions(
			data, &cfg, yaml.Strict(),
		); err != nil {
			return Config{}, fmt.Errorf(
				"%s: %s: %w", errCtx, path, err,
			)
		}
	}

	applyEnv(&cfg)

	if cfg.CatalogURL == "" {
		cfg.CatalogURL = DefaultCatalogURL
	}

	return cfg, nil
}

// applyEnv overrides file settings with set environment
// variables.
func applyEnv(cfg *Config) {
	overrides := []struct {
		env string
		dst *string
	}{
		{EnvCatalogURL, &cfg.CatalogURL},
		{EnvGitHubToken, &cfg.GitHub.Token},
		{EnvGitLabToken, &cfg.GitLab.Token},
		{EnvBitbucketUser, &cfg.Bitbucket.User},
		{EnvBitbucketPassword, &cfg.Bitbucket.Password},
	}

	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.env); ok && v != "" {
			*o.dst = v
		}
	}
}

package hosting_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/git-extra/config"
	"github.com/byte4ever/git-extra/gitx/git"
	"github.com/byte4ever/git-extra/gitx/hosting"
)

func TestRegistry_Kind(t *testing.T) {
	t.Parallel()

	reg, err := hosting.NewRegistry(config.Config{
		Hosts: map[string]string{"Git.Corp.Example.com": "GitHub"},
	})
	require.NoError(t, err)

	tests := []struct {
		host string
		want hosting.Kind
	}{
		{"github.com", hosting.KindGitHub},
		{"gitlab.com", hosting.KindGitLab},
		{"bitbucket.org", hosting.KindBitbucket},
		{"git.corp.example.com", hosting.KindGitHub},
		{"gitlab.internal.net", hosting.KindGitLab},
		{"code.example.org", hosting.KindBitbucket},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, reg.Kind(tt.host))
		})
	}
}

func TestNewRegistry_unknown_kind(t *testing.T) {
	t.Parallel()

	reg, err := hosting.NewRegistry(config.Config{
		Hosts: map[string]string{"x.example.com": "gitea"},
	})

	assert.Nil(t, reg)
	assert.ErrorContains(t, err, "unknown kind")
}

func TestRegistry_BrowseURL(t *testing.T) {
	t.Parallel()

	reg, err := hosting.NewRegistry(config.Config{})
	require.NoError(t, err)

	tests := []struct {
		name   string
		remote git.Remote
		want   string
	}{
		{
			name:   "github",
			remote: git.Remote{Host: "github.com", Owner: "u", Project: "r"},
			want:   "https://github.com/u/r/tree/main",
		},
		{
			name:   "gitlab",
			remote: git.Remote{Host: "gitlab.com", Owner: "u", Project: "r"},
			want:   "https://gitlab.com/u/r/-/tree/main",
		},
		{
			name:   "bitbucket",
			remote: git.Remote{Host: "bitbucket.org", Owner: "u", Project: "r"},
			want:   "https://bitbucket.org/u/r/src?at=main",
		},
		{
			name:   "unknown host uses query string",
			remote: git.Remote{Host: "git.example.org", Owner: "u", Project: "r"},
			want:   "https://git.example.org/u/r/src?at=main",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, reg.BrowseURL(tt.remote, "main"))
		})
	}
}

func TestRegistry_PullRequestURL(t *testing.T) {
	t.Parallel()

	reg, err := hosting.NewRegistry(config.Config{})
	require.NoError(t, err)

	origin := git.Remote{Host: "github.com", Owner: "me", Project: "r"}
	target := git.Remote{Host: "github.com", Owner: "org", Project: "r"}

	assert.Equal(
		t,
		"https://github.com/org/r/compare/b...me:b",
		reg.PullRequestURL(origin, target, "b"),
	)

	origin.Host = "bitbucket.org"
	assert.Equal(
		t,
		"https://bitbucket.org/me/r/pull-requests/new?source=b",
		reg.PullRequestURL(origin, target, "b"),
	)
}

func TestRegistry_FindParent_caches_finder(t *testing.T) {
	t.Parallel()

	var created []hosting.Kind

	reg := hosting.NewRegistryWithFinders(
		nil,
		func(kind hosting.Kind, _ string) (git.ParentFinder, error) {
			created = append(created, kind)

			return git.ParentFinderFunc(
				func(
					_ context.Context,
					fork git.Remote,
				) (git.Remote, error) {
					return git.Remote{Owner: "org", Project: fork.Project}, nil
				},
			), nil
		},
	)

	fork := git.Remote{Host: "github.com", Owner: "me", Project: "r"}

	for range 2 {
		parent, err := reg.FindParent(context.Background(), fork)
		require.NoError(t, err)
		assert.Equal(t, "org", parent.Owner)
		assert.Equal(t, "github.com", parent.Host)
	}

	assert.Equal(t, []hosting.Kind{hosting.KindGitHub}, created)
}

func TestRegistry_FindParent_factory_error(t *testing.T) {
	t.Parallel()

	errNoAPI := errors.New("no api")

	reg := hosting.NewRegistryWithFinders(
		nil,
		func(hosting.Kind, string) (git.ParentFinder, error) {
			return nil, errNoAPI
		},
	)

	_, err := reg.FindParent(
		context.Background(), git.Remote{Host: "code.example.org"},
	)

	assert.ErrorIs(t, err, errNoAPI)
}

func TestRegistry_FindParent_unknown_bitbucket_host(t *testing.T) {
	t.Parallel()

	reg, err := hosting.NewRegistry(config.Config{})
	require.NoError(t, err)

	_, err = reg.FindParent(
		context.Background(),
		git.Remote{Host: "code.example.org", Owner: "u", Project: "r"},
	)

	assert.ErrorContains(t, err, "no api known")
}

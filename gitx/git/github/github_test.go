package github_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/git-extra/gitx/git"
	ghprov "github.com/byte4ever/git-extra/gitx/git/github"
)

func TestNewProvider_public(t *testing.T) {
	t.Parallel()

	pv, err := ghprov.NewProvider(ghprov.Config{})

	require.NoError(t, err)
	assert.NotNil(t, pv)
}

func TestNewProvider_enterprise(t *testing.T) {
	t.Parallel()

	pv, err := ghprov.NewProvider(ghprov.Config{
		Host:        "git.corp.example.com",
		AccessToken: "tok",
	})

	require.NoError(t, err)
	assert.NotNil(t, pv)
}

func TestBrowseURL(t *testing.T) {
	t.Parallel()

	got := ghprov.BrowseURL(
		git.Remote{Host: "github.com", Owner: "user", Project: "repo"},
		"main",
	)

	assert.Equal(t, "https://github.com/user/repo/tree/main", got)
}

func TestBrowseURL_escapes_branch(t *testing.T) {
	t.Parallel()

	got := ghprov.BrowseURL(
		git.Remote{Host: "github.com", Owner: "user", Project: "repo"},
		"feature/fix#12?",
	)

	assert.Equal(
		t, "https://github.com/user/repo/tree/feature/fix%2312%3F", got,
	)

	origin := git.Remote{Host: "github.com", Owner: "me", Project: "repo"}
	target := git.Remote{Host: "github.com", Owner: "org", Project: "repo"}

	assert.Equal(
		t,
		"https://github.com/org/repo/compare/fix%231...me:fix%231",
		ghprov.PullRequestURL(origin, target, "fix#1"),
	)
}

func TestPullRequestURL(t *testing.T) {
	t.Parallel()

	origin := git.Remote{Host: "github.com", Owner: "me", Project: "tool"}
	target := git.Remote{Host: "github.com", Owner: "org", Project: "tool"}

	got := ghprov.PullRequestURL(origin, target, "fix-1")

	assert.Equal(
		t,
		"https://github.com/org/tool/compare/fix-1...me:fix-1",
		got,
	)
}

func newServer(
	t *testing.T,
	handler http.HandlerFunc,
) *ghprov.Provider {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	pv, err := ghprov.NewProvider(ghprov.Config{
		APIURL:      ts.URL + "/",
		AccessToken: "tok",
	})
	require.NoError(t, err)

	return pv
}

func TestProvider_FindParent_fork(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth string

	pv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"name": "tool",
			"fork": true,
			"owner": {"login": "me"},
			"parent": {
				"name": "tool",
				"ssh_url": "git@github.com:org/tool.git",
				"owner": {"login": "org"}
			}
		}`))
	})

	parent, err := pv.FindParent(context.Background(), git.Remote{
		Name:    "origin",
		Host:    "github.com",
		Owner:   "me",
		Project: "tool",
	})

	require.NoError(t, err)
	assert.Equal(t, "/api/v3/repos/me/tool", gotPath)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, git.Remote{
		URL:     "git@github.com:org/tool.git",
		Host:    "github.com",
		Owner:   "org",
		Project: "tool",
	}, parent)
}

func TestProvider_FindParent_not_fork(t *testing.T) {
	t.Parallel()

	pv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name": "tool", "fork": false}`))
	})

	_, err := pv.FindParent(context.Background(), git.Remote{
		Host: "github.com", Owner: "org", Project: "tool",
	})

	assert.ErrorIs(t, err, git.ErrNoParent)
}

func TestProvider_FindParent_not_found(t *testing.T) {
	t.Parallel()

	pv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	})

	_, err := pv.FindParent(context.Background(), git.Remote{
		Host: "github.com", Owner: "org", Project: "gone",
	})

	assert.ErrorContains(t, err, "looking up github parent")
	assert.NotErrorIs(t, err, git.ErrNoParent)
}

package git_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/git-extra/gitx/git"
)

func TestParentFinderFunc_FindParent_fills_host(
	t *testing.T,
) {
	t.Parallel()

	var gotFork git.Remote

	fn := git.ParentFinderFunc(
		func(
			_ context.Context,
			fork git.Remote,
		) (git.Remote, error) {
			gotFork = fork

			return git.Remote{Owner: "org", Project: "tool"}, nil
		},
	)

	fork := git.Remote{
		Name:    "origin",
		Host:    "github.com",
		Owner:   "me",
		Project: "tool",
	}

	parent, err := fn.FindParent(context.Background(), fork)

	require.NoError(t, err)
	assert.Equal(t, fork, gotFork)
	assert.Equal(t, "github.com", parent.Host)
	assert.Equal(t, "org", parent.Owner)
}

func TestParentFinderFunc_FindParent_keeps_host(
	t *testing.T,
) {
	t.Parallel()

	fn := git.ParentFinderFunc(
		func(
			_ context.Context,
			_ git.Remote,
		) (git.Remote, error) {
			return git.Remote{Host: "ghe.corp", Owner: "o", Project: "p"}, nil
		},
	)

	parent, err := fn.FindParent(
		context.Background(), git.Remote{Host: "github.com"},
	)

	require.NoError(t, err)
	assert.Equal(t, "ghe.corp", parent.Host)
}

func TestParentFinderFunc_FindParent_returns_error(
	t *testing.T,
) {
	t.Parallel()

	fn := git.ParentFinderFunc(
		func(
			_ context.Context,
			_ git.Remote,
		) (git.Remote, error) {
			return git.Remote{}, git.ErrNoParent
		},
	)

	_, err := fn.FindParent(context.Background(), git.Remote{})

	assert.True(t, errors.Is(err, git.ErrNoParent))
}

func TestEscapeBranch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		branch string
		want   string
	}{
		{"main", "main"},
		{"feature/login", "feature/login"},
		{"fix#12", "fix%2312"},
		{"what?", "what%3F"},
		{"a b/c%d", "a%20b/c%25d"},
	}

	for _, tt := range tests {
		t.Run(tt.branch, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, git.EscapeBranch(tt.branch))
		})
	}
}

package git

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

// Pattern: Strategy -- swap git platform without
// changing the fork lookup logic.

// ErrNoParent is returned by a ParentFinder when the
// repository is not a fork.
var ErrNoParent = errors.New("repository is not a fork")

// ParentFinder resolves the repository a fork was created
// from on a git hosting platform.
type ParentFinder interface {
	FindParent(ctx context.Context, fork Remote) (Remote, error)
}

// ParentFinderFunc adapts a plain function to the
// ParentFinder interface. The host of the fork is
// filled in when the function leaves it empty.
type ParentFinderFunc func(
	ctx context.Context,
	fork Remote,
) (Remote, error)

// FindParent delegates to the wrapped function.
func (f ParentFinderFunc) FindParent(
	ctx context.Context,
	fork Remote,
) (Remote, error) {
	parent, err := f(ctx, fork)
	if err != nil {
		return Remote{}, err
	}

	if parent.Host == "" {
		parent.Host = fork.Host
	}

	return parent, nil
}

// EscapeBranch escapes each slash separated segment of a
// branch name for use in a URL path.
func EscapeBranch(branch string) string {
	segments := strings.Split(branch, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}

	return strings.Join(segments, "/")
}

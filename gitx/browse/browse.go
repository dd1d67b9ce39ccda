package browse

import (
	"context"
	"errors"
	"fmt"

	"github.com/byte4ever/git-extra/gitx/exec"
	"github.com/byte4ever/git-extra/gitx/git"
)

// Default remote names.
const (
	DefaultRemote   = "origin"
	DefaultUpstream = "upstream"
)

// Repo lists remotes and the current branch of a working
// tree.
type Repo interface {
	Remotes(ctx context.Context) ([]git.Remote, error)
	Branch(ctx context.Context) (string, error)
}

// Hosts builds platform page URLs and finds fork parents.
type Hosts interface {
	BrowseURL(remote git.Remote, branch string) string
	PullRequestURL(origin, target git.Remote, branch string) string
	FindParent(ctx context.Context, fork git.Remote) (git.Remote, error)
}

// Logger reports progress and non-fatal problems.
type Logger interface {
	Info(args ...any)
	Warning(args ...any)
}

// Service opens hosting platform pages for the remotes of
// a repository.
type Service struct {
	Repo    Repo
	Hosts   Hosts
	Opener  exec.Opener
	Log     Logger
	Checker *exec.Checker
}

// Browse opens the page of the current branch on
// remoteName, "origin" when empty. With upstream the
// repository the remote was forked from is shown instead.
// A missing remote is reported as a warning.
func (s *Service) Browse(
	ctx context.Context,
	remoteName string,
	upstream bool,
) error {
	const errCtx = "browsing"

	if remoteName == "" {
		remoteName = DefaultRemote
	}

	remotes, err := s.remotes(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	var (
		remote git.Remote
		ok     bool
	)

	if upstream {
		remote, ok = s.upstream(ctx, remotes, remoteName, DefaultUpstream)
	} else {
		remote, ok = s.find(remotes, remoteName)
	}

	if !ok {
		return nil
	}

	branch, err := s.Repo.Branch(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := s.open(ctx, s.Hosts.BrowseURL(remote, branch)); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// PullRequest opens the page that starts a pull request of
// the current branch from remoteName into toRemoteName.
// They default to "origin" and "upstream". A missing
// target falls back to the other upstream names, then to
// the fork parent of the source; falling back from an
// explicitly named target is reported as a warning.
func (s *Service) PullRequest(
	ctx context.Context,
	remoteName string,
	toRemoteName string,
) error {
	const errCtx = "starting pull request"

	if remoteName == "" {
		remoteName = DefaultRemote
	}

	if toRemoteName == "" {
		toRemoteName = DefaultUpstream
	}

	remotes, err := s.remotes(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	origin, ok := s.find(remotes, remoteName)
	if !ok {
		return nil
	}

	target, ok := git.Find(remotes, toRemoteName)
	if !ok {
		target, ok = s.upstream(ctx, remotes, remoteName, toRemoteName)

		if ok && toRemoteName != DefaultUpstream {
			s.Log.Warning(fmt.Sprintf(
				"No git remote '%s' was found; using %s/%s",
				toRemoteName, target.Owner, target.Project,
			))
		}
	}

	if !ok {
		return nil
	}

	branch, err := s.Repo.Branch(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	url := s.Hosts.PullRequestURL(origin, target, branch)

	if err := s.open(ctx, url); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

func (s *Service) remotes(ctx context.Context) ([]git.Remote, error) {
	if s.Checker != nil {
		if err := s.Checker.Ensure(ctx, "git"); err != nil {
			return nil, err
		}
	}

	return s.Repo.Remotes(ctx)
}

func (s *Service) find(remotes []git.Remote, name string) (git.Remote, bool) {
	r, ok := git.Find(remotes, name)
	if !ok {
		s.Log.Warning(fmt.Sprintf("No git remote '%s' was found", name))
	}

	return r, ok
}

// upstream returns the first remote named like an upstream,
// else asks the platform for the parent of the fork
// remote. wanted is the remote name reported in warnings.
func (s *Service) upstream(
	ctx context.Context,
	remotes []git.Remote,
	forkName string,
	wanted string,
) (git.Remote, bool) {
	if r, ok := git.FindUpstream(remotes); ok {
		return r, true
	}

	fork, ok := s.find(remotes, forkName)
	if !ok {
		return git.Remote{}, false
	}

	parent, err := s.Hosts.FindParent(ctx, fork)

	switch {
	case errors.Is(err, git.ErrNoParent):
		s.Log.Warning(fmt.Sprintf(
			"No git remote '%s' was found and '%s' is not a fork",
			wanted, forkName,
		))

		return git.Remote{}, false
	case err != nil:
		s.Log.Warning(fmt.Sprintf(
			"No git remote '%s' was found: %v", wanted, err,
		))

		return git.Remote{}, false
	}

	parent.Name = DefaultUpstream

	return parent, true
}

func (s *Service) open(ctx context.Context, url string) error {
	s.Log.Info(fmt.Sprintf("Opening '%s'...", url))

	return s.Opener.Open(ctx, url)
}

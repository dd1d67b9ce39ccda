package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/byte4ever/git-extra/gitx/exec"
)

// Repo is a local git working tree.
type Repo struct {
	// Dir is the filesystem location of the working
	// tree. Empty means the current directory.
	Dir string
}

// Clone clones src into dir and returns the new Repo.
// src may be any location git accepts: a URL or a local
// path.
func Clone(ctx context.Context, src string, dir string) (*Repo, error) {
	const errCtx = "cloning repository"

	if _, err := exec.Ex(
		ctx, "", "git", "clone", src, dir,
	); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return &Repo{Dir: dir}, nil
}

// Remotes lists the fetch remotes of the repository.
func (r *Repo) Remotes(ctx context.Context) ([]Remote, error) {
	const errCtx = "listing remotes"

	out, err := exec.Ex(ctx, r.Dir, "git", "remote", "-v")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return ParseRemotes(out), nil
}

// Branch returns the current branch name. A detached HEAD
// is reported as "master".
func (r *Repo) Branch(ctx context.Context) (string, error) {
	const errCtx = "reading current branch"

	out, err := exec.Ex(
		ctx, r.Dir, "git", "rev-parse", "--abbrev-ref", "HEAD",
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	branch := strings.TrimSpace(out)
	if branch == "HEAD" {
		branch = "master"
	}

	return branch, nil
}

// Init creates an empty repository in Dir.
func (r *Repo) Init(ctx context.Context) error {
	const errCtx = "initialising repository"

	if _, err := exec.Ex(ctx, r.Dir, "git", "init"); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// AddAll stages every change in the working tree.
func (r *Repo) AddAll(ctx context.Context) error {
	const errCtx = "staging changes"

	if _, err := exec.Ex(
		ctx, r.Dir, "git", "add", "-A", ":/",
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// ForceAdd stages path even when it is ignored.
func (r *Repo) ForceAdd(ctx context.Context, path string) error {
	const errCtx = "force adding file"

	if _, err := exec.Ex(
		ctx, r.Dir, "git", "add", "-f", "--", path,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// Commit records the staged changes with message.
func (r *Repo) Commit(ctx context.Context, message string) error {
	const errCtx = "committing"

	if _, err := exec.Ex(
		ctx, r.Dir, "git", "commit", "-m", message,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

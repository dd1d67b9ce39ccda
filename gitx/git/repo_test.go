package git_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/git-extra/gitx/git"
	"github.com/byte4ever/git-extra/internal/gittest"
)

func TestRepo_Remotes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	gittest.InitRepo(t, dir)
	gittest.Run(
		t, dir, "remote", "add", "origin",
		"git@github.com:me/tool.git",
	)
	gittest.Run(
		t, dir, "remote", "add", "upstream",
		"https://github.com/org/tool.git",
	)

	rp := &git.Repo{Dir: dir}

	remotes, err := rp.Remotes(context.Background())
	require.NoError(t, err)
	require.Len(t, remotes, 2)

	origin, ok := git.Find(remotes, "origin")
	require.True(t, ok)
	assert.Equal(t, "me", origin.Owner)
	assert.Equal(t, "tool", origin.Project)
}

func TestRepo_Remotes_none(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	gittest.InitRepo(t, dir)

	rp := &git.Repo{Dir: dir}

	remotes, err := rp.Remotes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, remotes)
}

func TestRepo_Branch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	gittest.InitRepo(t, dir)
	gittest.Run(t, dir, "checkout", "-b", "feature/x")

	rp := &git.Repo{Dir: dir}

	branch, err := rp.Branch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "feature/x", branch)
}

func TestRepo_Branch_detached(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	gittest.InitRepo(t, dir)
	gittest.Run(t, dir, "checkout", "--detach")

	rp := &git.Repo{Dir: dir}

	branch, err := rp.Branch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "master", branch)
}

func TestRepo_Branch_not_a_repo(t *testing.T) {
	t.Parallel()

	rp := &git.Repo{Dir: t.TempDir()}

	_, err := rp.Branch(context.Background())
	assert.ErrorContains(t, err, "reading current branch")
}

func TestRepo_ForceAdd_and_Commit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	gittest.InitRepo(t, dir)
	gittest.WriteFile(t, dir, ".gitignore", "*.env\n")
	gittest.WriteFile(t, dir, "local.env", "KEY=1\n")

	rp := &git.Repo{Dir: dir}
	ctx := context.Background()

	require.NoError(t, rp.AddAll(ctx))
	require.NoError(t, rp.ForceAdd(ctx, "local.env"))
	require.NoError(t, rp.Commit(ctx, "add env"))

	files := gittest.Run(t, dir, "ls-files")
	assert.Contains(t, files, "local.env")
	assert.Contains(t, files, ".gitignore")

	assert.Equal(t, "add env", gittest.Run(t, dir, "log", "-1", "--format=%s"))
}

func TestClone_and_Init(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	gittest.InitRepo(t, src)
	gittest.WriteFile(t, src, "README.md", "hello\n")
	gittest.Run(t, src, "add", "README.md")
	gittest.Run(t, src, "commit", "-m", "readme")

	dst := filepath.Join(t.TempDir(), "copy")

	rp, err := git.Clone(context.Background(), src, dst)
	require.NoError(t, err)
	assert.Equal(t, dst, rp.Dir)

	_, err = os.Stat(filepath.Join(dst, "README.md"))
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(filepath.Join(dst, ".git")))
	require.NoError(t, rp.Init(context.Background()))

	_, err = os.Stat(filepath.Join(dst, ".git"))
	assert.NoError(t, err)
}

func TestClone_failure(t *testing.T) {
	t.Parallel()

	_, err := git.Clone(
		context.Background(),
		filepath.Join(t.TempDir(), "missing"),
		filepath.Join(t.TempDir(), "dst"),
	)

	assert.ErrorContains(t, err, "cloning repository")
}

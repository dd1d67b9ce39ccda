package templating

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	securejoin "github.com/cyphar/filepath-securejoin"
)

// ErrOutsideSandbox is returned for paths that leave the
// sandbox root.
var ErrOutsideSandbox = errors.New("path is outside the project")

// Sandbox grants file access limited to one directory
// tree. Every name is relative to the root; absolute names
// are accepted only when they lie under it.
type Sandbox struct {
	root string
}

// NewSandbox returns a Sandbox rooted at dir.
func NewSandbox(dir string) (*Sandbox, error) {
	const errCtx = "creating sandbox"

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	root, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return &Sandbox{root: root}, nil
}

// Root returns the resolved sandbox directory.
func (s *Sandbox) Root() string {
	return s.root
}

// Qualify returns the absolute path of name. Names that
// leave the root, lexically or through a symlink, yield
// ErrOutsideSandbox.
func (s *Sandbox) Qualify(name string) (string, error) {
	const errCtx = "qualifying path"

	full := name
	if !filepath.IsAbs(full) {
		full = filepath.Join(s.root, name)
	}

	rel, err := filepath.Rel(s.root, filepath.Clean(full))
	if err != nil || escapes(rel) {
		return "", fmt.Errorf(
			"%s: %w: %s", errCtx, ErrOutsideSandbox, name,
		)
	}

	// SecureJoin scopes symlinks to root instead of
	// following them out of it.
	resolved, err := securejoin.SecureJoin(s.root, rel)
	if err != nil {
		return "", fmt.Errorf("%s: %s: %w", errCtx, name, err)
	}

	return resolved, nil
}

// Rel returns path relative to the root, using forward
// slashes.
func (s *Sandbox) Rel(path string) string {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return path
	}

	return filepath.ToSlash(rel)
}

// ReadFile returns the content of name.
func (s *Sandbox) ReadFile(name string) (string, error) {
	full, err := s.Qualify(name)
	if err != nil {
		return "", err
	}

	content, err := os.ReadFile(full) //nolint:gosec // qualified path
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}

	return string(content), nil
}

// WriteFile replaces the content of name, creating it and
// its parent directories as needed. An existing file keeps
// its mode.
func (s *Sandbox) WriteFile(name, contents string) error {
	full, err := s.Qualify(name)
	if err != nil {
		return err
	}

	var perm fs.FileMode = 0o644

	if fi, err := os.Stat(full); err == nil {
		perm = fi.Mode().Perm()
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil { //nolint:gosec // project dir
		return fmt.Errorf("writing %s: %w", name, err)
	}

	if err := os.WriteFile(full, []byte(contents), perm); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	return nil
}

// Remove deletes name and anything below it. A missing
// name is not an error.
func (s *Sandbox) Remove(name string) error {
	full, err := s.Qualify(name)
	if err != nil {
		return err
	}

	if full == s.root {
		return fmt.Errorf("removing %s: %w", name, ErrOutsideSandbox)
	}

	if err := os.RemoveAll(full); err != nil {
		return fmt.Errorf("removing %s: %w", name, err)
	}

	return nil
}

// Move renames from to to, creating the parent directories
// of to.
func (s *Sandbox) Move(from, to string) error {
	src, err := s.Qualify(from)
	if err != nil {
		return err
	}

	dst, err := s.Qualify(to)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil { //nolint:gosec // project dir
		return fmt.Errorf("moving %s: %w", from, err)
	}

	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s: %w", from, err)
	}

	return nil
}

// EnsureFile creates name empty unless it exists.
func (s *Sandbox) EnsureFile(name string) error {
	full, err := s.Qualify(name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil { //nolint:gosec // project dir
		return fmt.Errorf("ensuring %s: %w", name, err)
	}

	f, err := os.OpenFile( //nolint:gosec // qualified path
		full,
		os.O_CREATE|os.O_WRONLY,
		0o644,
	)
	if err != nil {
		return fmt.Errorf("ensuring %s: %w", name, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("ensuring %s: %w", name, err)
	}

	return nil
}

// Mkdir creates name and its parents.
func (s *Sandbox) Mkdir(name string) error {
	full, err := s.Qualify(name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(full, 0o755); err != nil { //nolint:gosec // project dir
		return fmt.Errorf("creating directory %s: %w", name, err)
	}

	return nil
}

// Glob returns the regular files matching pattern, as
// sorted root-relative slash paths. Pattern syntax is that
// of path.Match extended with "**", which matches any
// number of directories, and "{a,b}" alternatives.
func (s *Sandbox) Glob(pattern string) ([]string, error) {
	const errCtx = "matching files"

	full := pattern
	if !filepath.IsAbs(full) {
		full = filepath.Join(s.root, pattern)
	}

	rel, err := filepath.Rel(s.root, filepath.Clean(full))
	if err != nil || escapes(rel) {
		return nil, fmt.Errorf(
			"%s: %w: %s", errCtx, ErrOutsideSandbox, pattern,
		)
	}

	matches, err := doublestar.Glob(os.DirFS(s.root), filepath.ToSlash(rel))
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", errCtx, pattern, err)
	}

	var files []string

	for _, m := range matches {
		q, err := s.Qualify(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		fi, err := os.Stat(q)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}

		files = append(files, s.Rel(q))
	}

	slices.Sort(files)

	return files, nil
}

func escapes(rel string) bool {
	return rel == ".." ||
		strings.HasPrefix(rel, ".."+string(filepath.Separator)) ||
		filepath.IsAbs(rel)
}

package quickstart

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/byte4ever/git-extra/catalog"
	"github.com/byte4ever/git-extra/gitx/commitmsg"
	"github.com/byte4ever/git-extra/gitx/exec"
	"github.com/byte4ever/git-extra/gitx/git"
	"github.com/byte4ever/git-extra/templating"
)

var (
	// ErrNoSource is returned when no template source is
	// given.
	ErrNoSource = errors.New(
		"a repository URL, directory or catalog key must be given",
	)

	// ErrUnknownSource is returned for a source that is not
	// a hosted URL, a directory or a catalog key.
	ErrUnknownSource = errors.New(
		"not a repository URL, directory or catalog key",
	)

	// ErrCustomization wraps any failure of the template
	// customization.
	ErrCustomization = errors.New("customization failed")

	// ErrUnsafeTarget is returned when overwriting the
	// target directory would remove the working directory.
	ErrUnsafeTarget = errors.New(
		"refusing to replace a directory holding the working directory",
	)
)

// DirExistsError is returned when the target directory
// exists and overwriting was not requested.
type DirExistsError struct {
	Dir string
}

func (e *DirExistsError) Error() string {
	return fmt.Sprintf(
		"Directory '%s' already exists; use --overwrite flag to replace",
		e.Dir,
	)
}

// Catalog resolves template keys.
type Catalog interface {
	Load(ctx context.Context) error
	Lookup(key string) (catalog.Entry, error)
	Entries() []catalog.Entry
}

// Logger reports progress with a spinner.
type Logger interface {
	Info(args ...any)
	Warning(args ...any)
	StartSpinner(title string)
	RestartSpinner()
	StopSpinner()
	StopSpinnerNoMessage() bool
}

// Options select the template and target of Start.
type Options struct {
	// Source is a hosted repository URL or shorthand, a
	// local directory or a catalog key.
	Source string
	// Dir is the target directory. It defaults to the
	// project name of Source.
	Dir string
	// Overwrite removes an existing target directory.
	Overwrite bool
	// Debug keeps the full customization error chain.
	Debug bool
}

// Starter creates projects from template repositories.
type Starter struct {
	// WorkDir resolves relative paths. Empty means the
	// current directory.
	WorkDir  string
	Catalog  Catalog
	Log      Logger
	Prompter templating.Prompter
	Checker  *exec.Checker
	// UserName is exposed to the customization. Empty
	// means the current OS user.
	UserName string
}

// List returns the catalog entries sorted by key.
func (s *Starter) List(ctx context.Context) ([]catalog.Entry, error) {
	const errCtx = "listing templates"

	if err := s.Catalog.Load(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return s.Catalog.Entries(), nil
}

// Start clones the template named by opts.Source into a
// fresh repository, runs its customization manifest and
// commits the result. It returns the project directory.
func (s *Starter) Start(ctx context.Context, opts Options) (string, error) {
	const errCtx = "quick starting"

	if opts.Source == "" {
		return "", fmt.Errorf("%s: %w", errCtx, ErrNoSource)
	}

	if s.Checker != nil {
		if err := s.Checker.Ensure(ctx, "git"); err != nil {
			return "", fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	location, name, err := s.resolve(ctx, opts.Source)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	dirName := opts.Dir
	if dirName == "" {
		dirName = name
	}

	dir, err := filepath.Abs(s.path(dirName))
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := s.prepareDir(dir, opts.Overwrite); err != nil {
		return "", err
	}

	repo, err := s.cloneFresh(ctx, location, dirName, dir)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := s.customize(ctx, repo, location, opts.Debug); err != nil {
		return "", err
	}

	return dir, nil
}

// resolve returns the clone location of source and the
// default project directory name.
func (s *Starter) resolve(
	ctx context.Context,
	source string,
) (string, string, error) {
	if _, _, project, ok := git.ParseURL(source); ok {
		return git.ExpandShorthand(source), project, nil
	}

	local := s.path(source)
	if fi, err := os.Stat(local); err == nil && fi.IsDir() {
		abs, err := filepath.Abs(local)
		if err != nil {
			return "", "", err
		}

		return abs, filepath.Base(abs), nil
	}

	if s.Catalog == nil {
		return "", "", fmt.Errorf("%s: %w", source, ErrUnknownSource)
	}

	if err := s.Catalog.Load(ctx); err != nil {
		return "", "", err
	}

	entry, err := s.Catalog.Lookup(source)
	if errors.Is(err, catalog.ErrUnknownKey) {
		return "", "", fmt.Errorf("%s: %w", source, ErrUnknownSource)
	}

	if err != nil {
		return "", "", err
	}

	slog.Debug("catalog hit", "key", entry.Key, "url", entry.URL)

	if _, _, project, ok := git.ParseURL(entry.URL); ok {
		return git.ExpandShorthand(entry.URL), project, nil
	}

	return entry.URL, filepath.Base(entry.URL), nil
}

func (s *Starter) path(name string) string {
	if filepath.IsAbs(name) || s.WorkDir == "" {
		return name
	}

	return filepath.Join(s.WorkDir, name)
}

func (s *Starter) prepareDir(dir string, overwrite bool) error {
	if _, err := os.Lstat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if !overwrite {
		return &DirExistsError{Dir: dir}
	}

	work, err := filepath.Abs(s.WorkDir)
	if err != nil {
		return fmt.Errorf("replacing %s: %w", dir, err)
	}

	if within(work, dir) {
		return fmt.Errorf("%s: %w", dir, ErrUnsafeTarget)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("replacing %s: %w", dir, err)
	}

	return nil
}

// within reports whether path is dir or lies below it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}

	return rel != ".." &&
		!strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// cloneFresh clones location into dir and replaces its
// history with a single commit.
func (s *Starter) cloneFresh(
	ctx context.Context,
	location string,
	dirName string,
	dir string,
) (*git.Repo, error) {
	s.Log.StartSpinner(fmt.Sprintf("Cloning %s into %s", location, dirName))

	repo, err := git.Clone(ctx, location, dir)
	if err != nil {
		s.Log.StopSpinnerNoMessage()

		return nil, err
	}

	s.Log.StartSpinner("Resetting repository history")

	if err := resetHistory(ctx, repo, location); err != nil {
		s.Log.StopSpinnerNoMessage()

		return nil, err
	}

	s.Log.StopSpinner()

	return repo, nil
}

func resetHistory(ctx context.Context, repo *git.Repo, location string) error {
	if err := os.RemoveAll(filepath.Join(repo.Dir, ".git")); err != nil {
		return fmt.Errorf("removing history: %w", err)
	}

	if err := repo.Init(ctx); err != nil {
		return err
	}

	if err := repo.AddAll(ctx); err != nil {
		return err
	}

	return repo.Commit(ctx, commitmsg.Generate("Initial commit", location))
}

// customize runs the template manifest, if any, and
// commits its changes.
func (s *Starter) customize(
	ctx context.Context,
	repo *git.Repo,
	location string,
	debug bool,
) error {
	sb, err := templating.NewSandbox(repo.Dir)
	if err != nil {
		return customizationError(err, debug)
	}

	if _, err := sb.ReadFile(templating.LegacyScriptFile); err == nil {
		s.Log.Warning(fmt.Sprintf(
			"Template script '%s' is not run; use '%s' instead",
			templating.LegacyScriptFile, templating.ManifestFile,
		))
	}

	m, err := templating.LoadManifest(sb)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("no customization manifest", "dir", repo.Dir)

		return nil
	}

	if err != nil {
		return customizationError(err, debug)
	}

	s.Log.StartSpinner("Customizing project")

	c := templating.Customizer{
		Sandbox:     sb,
		Git:         repo,
		Prompter:    &pausingPrompter{log: s.Log, next: s.Prompter},
		Log:         &pausingLogger{log: s.Log},
		ProjectName: filepath.Base(repo.Dir),
		UserName:    s.userName(),
	}

	if err := c.Run(ctx, m); err != nil {
		s.Log.StopSpinnerNoMessage()

		return customizationError(err, debug)
	}

	if err := s.commitCustomization(ctx, sb, repo, location); err != nil {
		s.Log.StopSpinnerNoMessage()

		return err
	}

	s.Log.StopSpinner()

	return nil
}

func (s *Starter) commitCustomization(
	ctx context.Context,
	sb *templating.Sandbox,
	repo *git.Repo,
	location string,
) error {
	const errCtx = "committing customization"

	if err := sb.Remove(templating.ManifestFile); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := repo.AddAll(ctx); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := repo.Commit(
		ctx, commitmsg.Generate("After customization", location),
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

func (s *Starter) userName() string {
	if s.UserName != "" {
		return s.UserName
	}

	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}

	for _, env := range []string{"USER", "USERNAME"} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}

	return "user"
}

// customizationError hides the cause unless debug is set.
func customizationError(err error, debug bool) error {
	if debug {
		return fmt.Errorf("%w: %w", ErrCustomization, err)
	}

	return fmt.Errorf("%w: %s", ErrCustomization, err.Error())
}

// pausingPrompter hides the spinner while the user
// answers.
type pausingPrompter struct {
	log  Logger
	next templating.Prompter
}

func (p *pausingPrompter) Prompt(
	ctx context.Context,
	pr templating.Prompt,
) (string, error) {
	if p.next == nil {
		return pr.Initial, nil
	}

	if p.log.StopSpinnerNoMessage() {
		defer p.log.RestartSpinner()
	}

	return p.next.Prompt(ctx, pr)
}

// pausingLogger prints log step messages between spinner
// frames.
type pausingLogger struct {
	log Logger
}

func (p *pausingLogger) Info(args ...any) {
	if p.log.StopSpinnerNoMessage() {
		defer p.log.RestartSpinner()
	}

	p.log.Info(args...)
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/spf13/cobra"

	"github.com/byte4ever/git-extra/catalog"
	"github.com/byte4ever/git-extra/config"
	"github.com/byte4ever/git-extra/console"
	"github.com/byte4ever/git-extra/gitx/browse"
	"github.com/byte4ever/git-extra/gitx/exec"
	"github.com/byte4ever/git-extra/gitx/git"
	"github.com/byte4ever/git-extra/gitx/hosting"
	"github.com/byte4ever/git-extra/gitx/quickstart"
	"github.com/byte4ever/git-extra/templating"
)

// Version is the release of both tools. Overridden at
// link time with -ldflags "-X".
var Version = "1.0.0"

// Tool names.
const (
	GitExtraName = "git-extra"
	BitName      = "bit"
)

// Exit codes returned by Tool.Run.
const (
	ExitOK    = 0
	ExitError = 200
)

// Tool is one command line program. The zero value of
// every optional field selects the process environment.
type Tool struct {
	// Name selects the command tree: GitExtraName or
	// BitName.
	Name string
	// Log receives user-facing messages and errors.
	Log *console.Logger
	// Out receives help, version and listing output.
	Out io.Writer
	// In provides answers to customization prompts.
	In io.Reader
	// WorkDir is the repository or parent directory
	// commands act on.
	WorkDir string
	// Home is the git-extra configuration directory.
	Home string
	// Opener shows URLs; defaults to the system opener.
	Opener exec.Opener
	// Level is raised to debug by --debug.
	Level *slog.LevelVar

	debug   bool
	version bool
}

// errVersionShown stops a command after --version was
// handled.
var errVersionShown = errors.New("version shown")

// Run executes argv, without the program name, and
// returns the process exit code.
func (t *Tool) Run(ctx context.Context, argv []string) int {
	t.defaults()

	root := t.rootCommand()
	root.SetArgs(argv)

	err := root.ExecuteContext(ctx)

	switch {
	case errors.Is(err, errVersionShown):
		return ExitOK
	case err != nil:
		t.Log.Error(err.Error())

		return ExitError
	}

	return ExitOK
}

func (t *Tool) defaults() {
	if t.Log == nil {
		t.Log = console.New()
	}

	if t.Out == nil {
		t.Out = os.Stdout
	}

	if t.In == nil {
		t.In = os.Stdin
	}

	if t.Opener == nil {
		t.Opener = exec.SystemOpener{}
	}

	if t.Level == nil {
		t.Level = new(slog.LevelVar)
	}
}

func (t *Tool) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           t.Name,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		// --version is honoured by every command.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if t.version {
				fmt.Fprintf(cmd.OutOrStdout(), "v%s\n", Version)

				return errVersionShown
			}

			if t.debug {
				t.Level.Set(slog.LevelDebug)
			}

			return nil
		},
		// Unknown or missing commands show the help.
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(t.Out)
	root.SetErr(t.Log.Writer())
	root.PersistentFlags().BoolVar(
		&t.debug, "debug", false,
		"show diagnostic logs and full error details",
	)
	root.PersistentFlags().BoolVar(
		&t.version, "version", false, "print the version and exit",
	)

	switch t.Name {
	case BitName:
		root.Short = "Bitbucket helper"
		root.AddCommand(t.pullRequestCommand())
	default:
		root.Short = "Extra git commands"
		root.AddCommand(
			t.browseCommand(),
			t.pullRequestCommand(),
			t.quickStartCommand(),
		)
	}

	return root
}

func (t *Tool) browseCommand() *cobra.Command {
	var (
		remote   string
		upstream bool
	)

	cmd := &cobra.Command{
		Use:     "browse",
		Aliases: []string{"brw"},
		Short:   "Open the current branch on its hosting platform",
		Long: `Open the page of the current branch on the hosting platform
of a remote. With --upstream the repository the remote was forked
from is shown: an 'upstream', 'official' or 'parent' remote, else
the fork parent reported by the platform API.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := t.browseService()
			if err != nil {
				return err
			}

			return svc.Browse(cmd.Context(), remote, upstream)
		},
	}

	cmd.Flags().StringVarP(
		&remote, "remote", "r", browse.DefaultRemote,
		"remote to browse",
	)
	cmd.Flags().BoolVarP(
		&upstream, "upstream", "u", false,
		"browse the repository the remote was forked from",
	)

	return cmd
}

func (t *Tool) pullRequestCommand() *cobra.Command {
	var remote, toRemote string

	cmd := &cobra.Command{
		Use:     "pull-request",
		Aliases: []string{"prq"},
		Short:   "Open the page that starts a pull request",
		Long: `Open the page that starts a pull request of the current
branch from one remote into another.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := t.browseService()
			if err != nil {
				return err
			}

			return svc.PullRequest(cmd.Context(), remote, toRemote)
		},
	}

	cmd.Flags().StringVarP(
		&remote, "remote", "r", browse.DefaultRemote,
		"remote holding the branch",
	)
	cmd.Flags().StringVarP(
		&toRemote, "to-remote", "t", browse.DefaultUpstream,
		"remote receiving the pull request",
	)

	return cmd
}

func (t *Tool) quickStartCommand() *cobra.Command {
	var overwrite, list bool

	cmd := &cobra.Command{
		Use:     "quick-start <source> [<dir>]",
		Aliases: []string{"qst"},
		Short:   "Create a project from a template repository",
		Long: `Clone a template into a new directory, reset its history and
apply its customization, running the 'git-extra-customize.yaml'
manifest if there is one.

<source> is a repository URL, a github:, gitlab: or bitbucket:
shorthand, a local directory or a template catalog key.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := t.starter()
			if err != nil {
				return err
			}

			if list {
				return t.listTemplates(cmd, st)
			}

			opts := quickstart.Options{
				Overwrite: overwrite,
				Debug:     t.debug,
			}

			if len(args) > 0 {
				opts.Source = args[0]
			}

			if len(args) > 1 {
				opts.Dir = args[1]
			}

			dir, err := st.Start(cmd.Context(), opts)
			if err != nil {
				return err
			}

			t.Log.Info(fmt.Sprintf("Project created in '%s'", dir))

			return nil
		},
	}

	cmd.Flags().BoolVar(
		&overwrite, "overwrite", false,
		"replace the target directory if it exists",
	)
	cmd.Flags().BoolVar(
		&list, "list", false,
		"list the templates of the catalog",
	)

	return cmd
}

func (t *Tool) listTemplates(
	cmd *cobra.Command,
	st *quickstart.Starter,
) error {
	entries, err := st.List(cmd.Context())
	if err != nil {
		return err
	}

	for _, e := range entries {
		fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", e.Key, e.Description)
	}

	return nil
}

func (t *Tool) loadConfig() (config.Config, error) {
	home := t.Home
	if home == "" {
		home = config.HomeDir()
	}

	return config.Load(home)
}

func (t *Tool) browseService() (*browse.Service, error) {
	cfg, err := t.loadConfig()
	if err != nil {
		return nil, err
	}

	reg, err := hosting.NewRegistry(cfg)
	if err != nil {
		return nil, err
	}

	return &browse.Service{
		Repo:    &git.Repo{Dir: t.WorkDir},
		Hosts:   reg,
		Opener:  t.Opener,
		Log:     t.Log,
		Checker: &exec.Checker{},
	}, nil
}

func (t *Tool) starter() (*quickstart.Starter, error) {
	cfg, err := t.loadConfig()
	if err != nil {
		return nil, err
	}

	return &quickstart.Starter{
		WorkDir: t.WorkDir,
		Catalog: &catalog.Store{
			Dir:    cfg.Home,
			URL:    cfg.CatalogURL,
			Client: cleanhttp.DefaultClient(),
		},
		Log:      t.Log,
		Prompter: templating.NewLinePrompter(t.In, t.Log.Writer()),
		Checker:  &exec.Checker{},
	}, nil
}

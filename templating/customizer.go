package templating

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNoMatch is returned by a substitute step whose
// pattern matches no file.
var ErrNoMatch = errors.New("no file matches")

// Git stages files the template ignores on purpose.
type Git interface {
	ForceAdd(ctx context.Context, path string) error
}

// Logger shows log step messages to the user.
type Logger interface {
	Info(args ...any)
}

// Customizer applies a Manifest to a project directory.
type Customizer struct {
	Sandbox     *Sandbox
	Git         Git
	Prompter    Prompter
	Log         Logger
	ProjectName string
	UserName    string
}

// Vars returns the variables available before prompting:
// projectName, userName and the name.* case forms of the
// project name.
func (c *Customizer) Vars() map[string]any {
	vars := map[string]any{
		"projectName": c.ProjectName,
		"userName":    c.UserName,
	}

	caseVariants(vars, "name", c.ProjectName)

	return vars
}

// Run asks the manifest prompts, resolves its vars and
// executes its steps in order. It stops at the first
// failing step.
func (c *Customizer) Run(ctx context.Context, m *Manifest) error {
	const errCtx = "customizing project"

	en := &Engine{StartTag: m.StartTag, EndTag: m.EndTag}
	vars := c.Vars()

	for _, p := range m.Prompts {
		p.Message = en.ExpandString(p.Message, vars)
		p.Initial = en.ExpandString(p.Initial, vars)

		answer, err := c.Prompter.Prompt(ctx, p)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		vars[p.Name] = answer
		caseVariants(vars, p.Name, answer)
	}

	for _, v := range m.Vars {
		vars[v.Name] = en.ExpandString(v.Value, vars)
	}

	for i, st := range m.Steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		if err := c.runStep(ctx, en, st, vars); err != nil {
			return fmt.Errorf("%s: step %d: %w", errCtx, i, err)
		}
	}

	return nil
}

func (c *Customizer) runStep(
	ctx context.Context,
	en *Engine,
	st Step,
	vars map[string]any,
) error {
	x := func(s string) string {
		return en.ExpandString(s, vars)
	}

	switch {
	case len(st.Substitute) > 0:
		return c.substitute(en, st.Substitute, vars)
	case st.Move != nil:
		return c.Sandbox.Move(x(st.Move.From), x(st.Move.To))
	case st.Remove != "":
		return c.Sandbox.Remove(x(st.Remove))
	case st.Mkdir != "":
		return c.Sandbox.Mkdir(x(st.Mkdir))
	case st.EnsureFile != "":
		return c.Sandbox.EnsureFile(x(st.EnsureFile))
	case st.WriteFile != nil:
		return c.Sandbox.WriteFile(
			x(st.WriteFile.Path), x(st.WriteFile.Contents),
		)
	case st.ForceAdd != "":
		path, err := c.Sandbox.Qualify(x(st.ForceAdd))
		if err != nil {
			return err
		}

		return c.Git.ForceAdd(ctx, path)
	case st.Log != "":
		c.Log.Info(x(st.Log))

		return nil
	default:
		return ErrInvalidManifest
	}
}

func (c *Customizer) substitute(
	en *Engine,
	patterns []string,
	vars map[string]any,
) error {
	for _, pattern := range patterns {
		pattern = en.ExpandString(pattern, vars)

		files, err := c.Sandbox.Glob(pattern)
		if err != nil {
			return err
		}

		if len(files) == 0 {
			return fmt.Errorf("%w: %s", ErrNoMatch, pattern)
		}

		for _, f := range files {
			slog.Debug("substituting", "file", f)

			if err := en.ExpandFile(c.Sandbox, f, vars); err != nil {
				return err
			}
		}
	}

	return nil
}

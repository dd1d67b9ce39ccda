// Package exec provides external process helpers: running
// a command to completion, checking that required commands
// exist, and launching the platform URL opener.
package exec

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Ex executes the named command in the given directory and
// returns its stdout. Pass empty dir to use the current
// working directory. On failure the returned error carries
// the command line and whatever the command wrote to
// stderr.
func Ex(
	ctx context.Context,
	dir string,
	name string,
	arg ...string,
) (string, error) {
	const errCtx = "executing command"

	slog.Debug(
		"executing",
		"cmd", name,
		"args", strings.Join(arg, " "),
		"dir", dir,
	)

	//nolint:gosec // command names are constants of this module
	cmd := exec.CommandContext(ctx, name, arg...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	slog.Debug(
		"output",
		"stdout", stdout.String(),
		"stderr", stderr.String(),
	)

	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return stdout.String(), fmt.Errorf(
				"%s: %s %s: %w",
				errCtx, name, strings.Join(arg, " "), err,
			)
		}

		return stdout.String(), fmt.Errorf(
			"%s: %s %s: %s: %w",
			errCtx, name, strings.Join(arg, " "), msg, err,
		)
	}

	return stdout.String(), nil
}

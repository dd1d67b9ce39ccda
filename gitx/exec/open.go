package exec

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// Pattern: Strategy -- swap the URL opener in tests
// without touching the browse logic.

// Opener shows a URL to the user, normally in a browser.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// OpenerFunc adapts a plain function to the Opener
// interface.
type OpenerFunc func(ctx context.Context, url string) error

// Open delegates to the wrapped function.
func (f OpenerFunc) Open(ctx context.Context, url string) error {
	return f(ctx, url)
}

// SystemOpener launches the platform URL opener and does
// not wait for it to exit.
type SystemOpener struct{}

// Open starts the opener process for url.
func (SystemOpener) Open(_ context.Context, url string) error {
	const errCtx = "opening url"

	name, args := openerCommand(runtime.GOOS, url)

	slog.Debug("opening", "cmd", name, "url", url)

	// The opener outlives this invocation, so it is not
	// bound to the caller's context.
	//nolint:gosec,noctx // opener names are constants
	cmd := exec.Command(name, args...)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%s: %s: %w", errCtx, name, err)
	}

	return cmd.Process.Release()
}

// openerCommand returns the command used to open url on
// the given operating system.
func openerCommand(goos string, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{
			"url.dll,FileProtocolHandler", url,
		}
	default:
		return "xdg-open", []string{url}
	}
}

package exec

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"

	"golang.org/x/sync/errgroup"
	"k8s.io/apimachinery/pkg/util/sets"
)

// ErrMissingCommand is returned by Checker.Ensure when a
// required command cannot be found on PATH.
var ErrMissingCommand = errors.New("missing command")

// Checker verifies that external commands exist before
// any work starts. Commands found once are not looked up
// again. The zero value is ready to use.
type Checker struct {
	// LookPath resolves a command name. Defaults to
	// os/exec.LookPath.
	LookPath func(file string) (string, error)

	mu    sync.Mutex
	found sets.Set[string]
}

// Ensure returns an error naming the first missing
// command, in argument order.
func (c *Checker) Ensure(
	ctx context.Context,
	names ...string,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.found == nil {
		c.found = sets.New[string]()
	}

	lookPath := c.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	pending := make([]string, 0, len(names))

	for _, name := range names {
		if !c.found.Has(name) {
			pending = append(pending, name)
		}
	}

	exists := make([]bool, len(pending))

	grp, _ := errgroup.WithContext(ctx)

	for i, name := range pending {
		grp.Go(func() error {
			_, err := lookPath(name)
			exists[i] = err == nil

			return nil
		})
	}

	_ = grp.Wait() //nolint:errcheck // lookups never fail the group

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("checking commands: %w", err)
	}

	for i, name := range pending {
		if !exists[i] {
			return fmt.Errorf(
				"%w: command '%s' does not exist; please install it",
				ErrMissingCommand, name,
			)
		}

		c.found.Insert(name)
	}

	return nil
}

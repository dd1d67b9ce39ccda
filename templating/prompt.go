package templating

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ErrNoAnswer is returned when input ends before a prompt
// is answered.
var ErrNoAnswer = errors.New("no answer")

// Prompter asks the user for prompt values.
//
// Pattern: Strategy -- the customizer does not know whether
// answers come from a terminal or a test.
type Prompter interface {
	Prompt(ctx context.Context, p Prompt) (string, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, p Prompt) (string, error)

// Prompt implements Prompter.
func (f PrompterFunc) Prompt(ctx context.Context, p Prompt) (string, error) {
	return f(ctx, p)
}

// LinePrompter reads one answer per line.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter returns a LinePrompter reading in and
// writing questions to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Prompt asks p.Message until the answer matches p.Regex.
// An empty answer selects p.Initial.
func (lp *LinePrompter) Prompt(ctx context.Context, p Prompt) (string, error) {
	const errCtx = "prompting"

	re, err := regexp.Compile(p.Regex)
	if err != nil {
		return "", fmt.Errorf("%s: %s: %w", errCtx, p.Name, err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("%s: %w", errCtx, err)
		}

		question := "? " + p.Message
		if p.Initial != "" {
			question += " (" + p.Initial + ")"
		}

		fmt.Fprint(lp.out, question+" ")

		line, readErr := lp.in.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return "", fmt.Errorf("%s: %w", errCtx, readErr)
		}

		answer := strings.TrimSpace(line)
		if answer == "" {
			answer = p.Initial
		}

		if re.MatchString(answer) {
			return answer, nil
		}

		if readErr != nil {
			return "", fmt.Errorf("%s: %s: %w", errCtx, p.Name, ErrNoAnswer)
		}

		msg := p.Error
		if msg == "" {
			msg = "invalid answer"
		}

		fmt.Fprintln(lp.out, msg)
	}
}

// Package console writes user-facing status output: plain
// messages, coloured warnings and errors, and a one-line
// spinner that is cleared before anything else is printed.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gookit/color"
	"golang.org/x/term"
	"k8s.io/apimachinery/pkg/util/wait"
)

// DefaultSpinnerDelay is the redraw period of the spinner.
const DefaultSpinnerDelay = 250 * time.Millisecond

// frames are drawn in order, one per tick.
var frames = []string{
	"⠄", "⠆", "⠇", "⠋", "⠙", "⠸", "⠰",
	"⠠", "⠰", "⠸", "⠙", "⠋", "⠇", "⠆",
}

const clearLine = "\r\x1b[K"

// Logger writes messages to stderr and draws the spinner
// on stdout. It is safe for concurrent use.
type Logger struct {
	stdout  io.Writer
	stderr  io.Writer
	delay   time.Duration
	animate bool
	forced  bool

	mu       sync.Mutex
	title    string
	spinning bool
	stop     chan struct{}
	done     chan struct{}
}

// Option configures a Logger.
type Option func(*Logger)

// WithWriters replaces os.Stdout and os.Stderr.
func WithWriters(stdout, stderr io.Writer) Option {
	return func(l *Logger) {
		l.stdout = stdout
		l.stderr = stderr
	}
}

// WithSpinnerDelay sets the spinner redraw period.
func WithSpinnerDelay(d time.Duration) Option {
	return func(l *Logger) {
		l.delay = d
	}
}

// WithAnimation forces the spinner animation on or off.
// By default it is on only when stdout is a terminal.
func WithAnimation(on bool) Option {
	return func(l *Logger) {
		l.animate = on
		l.forced = true
	}
}

// New returns a Logger writing to the process's standard
// streams unless overridden by opts.
func New(opts ...Option) *Logger {
	l := &Logger{
		stdout: os.Stdout,
		stderr: os.Stderr,
		delay:  DefaultSpinnerDelay,
	}

	for _, opt := range opts {
		opt(l)
	}

	if !l.forced {
		l.animate = isTerminal(l.stdout)
	}

	return l
}

// Info prints a plain message.
func (l *Logger) Info(args ...any) {
	l.StopSpinner()
	l.writeErr(join(args))
}

// Warning prints a message prefixed with "warning:" in
// yellow.
func (l *Logger) Warning(args ...any) {
	l.StopSpinner()
	l.writeErr(color.Yellow.Sprint("warning: " + join(args)))
}

// Error prints a message prefixed with "error:" in red.
func (l *Logger) Error(args ...any) {
	l.StopSpinner()
	l.writeErr(color.Red.Sprint("error: " + join(args)))
}

// Writer returns an io.Writer that stops the spinner and
// writes to stderr.
func (l *Logger) Writer() io.Writer {
	return writerFunc(func(p []byte) (int, error) {
		l.StopSpinner()

		l.mu.Lock()
		defer l.mu.Unlock()

		return l.stderr.Write(p)
	})
}

// StartSpinner shows title next to the spinner. A running
// spinner is stopped with its completion message first.
func (l *Logger) StartSpinner(title string) {
	l.StopSpinner()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.title = title
	l.spinning = true

	if !l.animate {
		return
	}

	l.stop = make(chan struct{})
	l.done = make(chan struct{})

	stop, done := l.stop, l.done
	index := 0

	go func() {
		defer close(done)

		wait.Until(func() {
			l.mu.Lock()
			defer l.mu.Unlock()

			// A stop may race with the final tick.
			select {
			case <-stop:
				return
			default:
			}

			fmt.Fprint(l.stdout, clearLine+frames[index]+" "+l.title)
			index = (index + 1) % len(frames)
		}, l.delay, stop)
	}()
}

// RestartSpinner starts the spinner again with the last
// title, e.g. after prompting the user.
func (l *Logger) RestartSpinner() {
	l.mu.Lock()
	title := l.title
	l.mu.Unlock()

	l.StartSpinner(title)
}

// StopSpinnerNoMessage stops and clears the spinner. It
// reports whether a spinner was running.
func (l *Logger) StopSpinnerNoMessage() bool {
	l.mu.Lock()

	if !l.spinning {
		l.mu.Unlock()

		return false
	}

	l.spinning = false
	stop, done := l.stop, l.done
	l.stop, l.done = nil, nil

	l.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done

		l.mu.Lock()
		fmt.Fprint(l.stdout, clearLine)
		l.mu.Unlock()
	}

	return true
}

// StopSpinner stops the spinner and prints its title with
// a check mark.
func (l *Logger) StopSpinner() {
	if !l.StopSpinnerNoMessage() {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.stdout, color.Green.Sprint("✔︎ ")+l.title)
}

func (l *Logger) writeErr(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.stderr, msg)
}

// join formats args separated by single spaces.
func join(args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}

	return strings.Join(parts, " ")
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits int
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) {
	return f(p)
}

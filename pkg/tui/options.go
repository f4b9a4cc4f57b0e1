package tui

import (
	"errors"
	"io"
	"os"

	"github.com/goliatone/go-formfate/pkg/visibility"
)

// ErrAborted signals the user aborted input (e.g., Ctrl+C).
var ErrAborted = errors.New("tui: aborted")

// Option configures a Filler.
type Option func(*Filler)

// WithPromptDriver overrides the prompt driver used by the filler.
func WithPromptDriver(driver PromptDriver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithVisibility forwards options to conditional and disable evaluation,
// e.g. an evaluator for opaque rules.
func WithVisibility(options ...visibility.Option) Option {
	return func(f *Filler) {
		f.visibility = append(f.visibility, options...)
	}
}

// WithOutput selects where the default driver prints informational messages.
func WithOutput(out io.Writer) Option {
	return func(f *Filler) {
		if out != nil {
			f.out = out
		}
	}
}

func defaultOutput() io.Writer { return os.Stdout }

// Package terminal is for terminal outputting
package terminal

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

type Terminal struct {
	out     io.Writer
	verbose io.Writer
	err     io.Writer

	Green  func(format string, a ...interface{}) string
	Yellow func(format string, a ...interface{}) string
	Red    func(format string, a ...interface{}) string
	Blue   func(format string, a ...interface{}) string
}

func New() (t *Terminal) {
	return NewWithWriters(os.Stdout, os.Stderr)
}

// NewWithWriters sends regular and verbose output to out and errors to errOut.
func NewWithWriters(out io.Writer, errOut io.Writer) *Terminal {
	return &Terminal{
		out:     out,
		verbose: out,
		err:     errOut,
		Green:   color.New(color.FgGreen).SprintfFunc(),
		Yellow:  color.New(color.FgYellow).SprintfFunc(),
		Red:     color.New(color.FgRed).SprintfFunc(),
		Blue:    color.New(color.FgBlue).SprintfFunc(),
	}
}

func (t *Terminal) SetVerbose(verbose bool) {
	if verbose {
		t.out = t.verbose
	} else {
		t.out = silentWriter{}
	}
}

func (t *Terminal) Print(a string) {
	fmt.Fprintln(t.out, a)
}

func (t *Terminal) Printf(format string, a ...interface{}) {
	fmt.Fprintf(t.out, format, a...)
}

func (t *Terminal) Vprint(a string) {
	fmt.Fprintln(t.verbose, a)
}

func (t *Terminal) Vprintf(format string, a ...interface{}) {
	fmt.Fprintf(t.verbose, format, a...)
}

func (t *Terminal) Eprint(a string) {
	fmt.Fprintln(t.err, a)
}

func (t *Terminal) Eprintf(format string, a ...interface{}) {
	fmt.Fprintf(t.err, format, a...)
}

// directiver matches the errors that carry a hint for the user.
type directiver interface {
	Directive() string
}

func (t *Terminal) Errprint(err error, a string) {
	t.Eprint(t.Red("Error: %s", err.Error()))
	if a != "" {
		t.Eprint(t.Red("%s", a))
	}
	if d, ok := err.(directiver); ok {
		t.Eprint(t.Red("%s", d.Directive()))
	}
}

type silentWriter struct{}

func (w silentWriter) Write(p []byte) (n int, err error) {
	return len(p), nil
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Exit codes distinguished at the CLI boundary.
const (
	exitOK      = 0
	exitFailure = 1 // a rename/rewrite/walk failed, run halted
	exitUsage   = 2 // bad flags or unusable config
	exitProbe   = 3 // text classifier unavailable
	exitBadRoot = 4 // root path missing or not a directory
)

func main() {
	os.Exit(run())
}

func run() int {
	cmd := NewRootCmd()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "rebrand: %v\n", err)
		return exitCode(err)
	}
	return exitOK
}

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, ErrUsage):
		return exitUsage
	case errors.Is(err, ErrProbeUnavailable):
		return exitProbe
	case errors.Is(err, ErrBadRoot):
		return exitBadRoot
	default:
		return exitFailure
	}
}

// newLogger builds the stderr logger. Console colors are dropped when
// stderr is not a terminal.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	writer := zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: !isatty.IsTerminal(os.Stderr.Fd()),
	}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

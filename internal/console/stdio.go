package console

import (
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

// OpenStdio returns a console on the process standard input and output.
// If standard input is a terminal it is switched to raw mode for line
// editing, the returned function restores the previous mode.
func OpenStdio(logger *log.Logger, m Machine, host *Host) (*Console, func(), error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return New(logger, m, host, os.Stdin, os.Stdout), func() {}, nil
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, nil, fmt.Errorf("setting terminal raw mode: %w", err)
	}
	restore := func() {
		if err := term.Restore(fd, state); err != nil {
			logger.Error("Restoring terminal mode failed", log.Err(err))
		}
	}

	rw := struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}
	return NewTerminal(logger, m, host, rw), restore, nil
}

// Package console implements an interactive line based debugger that
// inspects and single steps a machine.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/hexdump"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

const prompt = "> "

// Machine is the machine surface used by the console.
type Machine interface {
	Step() error
	NextInstruction() machine.Instruction
	Registers() machine.Registers
	Memory() []byte
	Stack() []uint16
	Frame() display.Frame
}

// lineReader returns the next input line without the line terminator.
type lineReader interface {
	ReadLine() (string, error)
}

// Console reads commands and prints their output.
type Console struct {
	logger  *log.Logger
	machine Machine
	host    *Host

	in     lineReader
	out    io.Writer
	prompt bool // print the prompt before reading a line
}

// New returns a console that reads plain lines from in.
func New(logger *log.Logger, m Machine, host *Host, in io.Reader, out io.Writer) *Console {
	return &Console{
		logger:  logger,
		machine: m,
		host:    host,
		in:      &scannerReader{scanner: bufio.NewScanner(in)},
		out:     out,
		prompt:  true,
	}
}

// NewTerminal returns a console with line editing that expects rw to be
// a terminal in raw mode.
func NewTerminal(logger *log.Logger, m Machine, host *Host, rw io.ReadWriter) *Console {
	t := term.NewTerminal(rw, prompt)
	return &Console{
		logger:  logger,
		machine: m,
		host:    host,
		in:      t,
		out:     t,
	}
}

// Run processes commands until the input ends, the quit command is given or
// the context is cancelled.
func (c *Console) Run(ctx context.Context) error {
	c.printf("Debug mode, enter h for help\n")

	for ctx.Err() == nil {
		if c.prompt {
			c.printf(prompt)
		}

		line, err := c.in.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading command: %w", err)
		}

		if quit := c.execute(strings.TrimSpace(line)); quit {
			return nil
		}
	}
	return nil
}

// execute runs a single command and returns whether the console should quit.
func (c *Console) execute(line string) bool {
	if line == "" {
		return false
	}

	switch line[0] {
	case '.':
		c.dumpNextInstruction()
	case 'r':
		c.dumpRegisters()
	case 'm':
		c.printf("Memory dump:\n%s", hexdump.String(c.machine.Memory()))
	case 'c':
		c.dumpStack()
	case 's':
		c.step()
	case 'd':
		c.printf("%s", c.machine.Frame())
	case 'k':
		c.setKeys(strings.TrimSpace(line[1:]))
	case 'h':
		c.help()
	case 'q':
		return true
	default:
		c.printf("Unknown command.\n")
	}
	return false
}

func (c *Console) dumpNextInstruction() {
	next := c.machine.NextInstruction()
	c.printf("Next instruction: %04x: %04x %s\n", next.Address, next.Word, next.Operation)
}

func (c *Console) dumpRegisters() {
	regs := c.machine.Registers()
	c.printf("Register dump:\nPC: %04x\nI: %04x\nDT: %02x\nV:\n", regs.PC, regs.I, regs.Delay)
	c.printf("%s", hexdump.String(regs.V[:]))
}

func (c *Console) dumpStack() {
	stack := c.machine.Stack()
	if len(stack) == 0 {
		c.printf("Call stack is empty\n")
		return
	}

	c.printf("Call stack:\n")
	for i := len(stack) - 1; i >= 0; i-- {
		c.printf("%04x\n", stack[i])
	}
}

func (c *Console) step() {
	err := c.machine.Step()
	switch {
	case err == nil:
	case errors.Is(err, machine.ErrClosed):
		c.printf("Waiting for a key press, set pressed keys with k\n")
	default:
		c.logger.Debug("Step failed", log.Err(err))
		c.printf("Error: %v\n", err)
	}
}

func (c *Console) setKeys(symbols string) {
	keys, err := keypad.ParseKeys(strings.ReplaceAll(symbols, " ", ""))
	if err != nil {
		c.printf("Error: %v\n", err)
		return
	}

	c.host.SetPressedKeys(keys)
	if len(keys) == 0 {
		c.printf("No keys pressed\n")
		return
	}

	names := make([]string, 0, len(keys))
	for _, key := range keypad.Sorted(keys) {
		names = append(names, key.String())
	}
	c.printf("Pressed keys: %s\n", strings.Join(names, " "))
}

func (c *Console) help() {
	c.printf(". - dump next instruction\n" +
		"r - dump registers\n" +
		"m - dump memory\n" +
		"c - dump call stack\n" +
		"s - step program by one instruction\n" +
		"d - dump display\n" +
		"k - set pressed keys, for example k 1a\n" +
		"h - help\n" +
		"q - quit\n")
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

type scannerReader struct {
	scanner *bufio.Scanner
}

func (r *scannerReader) ReadLine() (string, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

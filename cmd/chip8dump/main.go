// Package main implements a tool that executes a CHIP-8 ROM without window
// and prints the resulting machine state.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/hexdump"
	"github.com/retroenv/retrochip8/internal/host"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

type optionFlags struct {
	input string
	steps int
	seed  uint64

	noMemory bool
	quiet    bool
}

func main() {
	options := readArguments()

	if !options.quiet {
		printBanner()
	}

	if err := dumpFile(os.Stdout, options); err != nil {
		fmt.Println(fmt.Errorf("dumping failed: %w", err))
		os.Exit(1)
	}
}

func readArguments() optionFlags {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	options := optionFlags{}

	flags.IntVar(&options.steps, "steps", 100, "number of instructions to execute")
	flags.Uint64Var(&options.seed, "seed", 1, "seed of the random number generator")
	flags.BoolVar(&options.noMemory, "nomemory", false, "do not print the memory dump")
	flags.BoolVar(&options.quiet, "q", false, "perform operations quietly")

	err := flags.Parse(os.Args[1:])
	args := flags.Args()

	if err != nil || len(args) == 0 {
		printBanner()
		fmt.Printf("usage: chip8dump [options] <ROM file>\n\n")
		flags.PrintDefaults()
		os.Exit(1)
	}
	options.input = args[0]

	return options
}

func printBanner() {
	fmt.Println("[---------------------------------]")
	fmt.Println("[ chip8dump - CHIP-8 state dumper ]")
	fmt.Printf("[---------------------------------]\n\n")
	fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
}

func dumpFile(w io.Writer, options optionFlags) error {
	rom, err := loader.New().Load(options.input)
	if err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}
	return dump(w, rom, options)
}

// dump executes the ROM for the configured number of steps on a headless
// host and writes the machine state to w.
func dump(w io.Writer, rom []byte, options optionFlags) error {
	cfg := machine.DefaultConfig()
	cfg.FrameInterval = 0
	cfg.Random = machine.NewRandom(options.seed)

	logCfg := log.DefaultConfig()
	logCfg.Level = log.ErrorLevel
	logger := log.NewWithConfig(logCfg)

	// the context is already cancelled so that waiting for a key returns
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := machine.New(logger, host.NewHeadless(ctx), cfg)
	defer m.Close()

	if err := m.Load(rom); err != nil {
		return fmt.Errorf("loading ROM into memory: %w", err)
	}

	executed, stepErr := run(m, options.steps)
	fmt.Fprintf(w, "Executed %d of %d instructions\n", executed, options.steps)
	switch {
	case stepErr == nil:
	case errors.Is(stepErr, machine.ErrClosed):
		fmt.Fprintln(w, "Stopped waiting for a key press")
	default:
		fmt.Fprintf(w, "Stopped: %v\n", stepErr)
	}

	writeState(w, m, !options.noMemory)
	return nil
}

func run(m *machine.Machine, steps int) (int, error) {
	for i := range steps {
		if err := m.Step(); err != nil {
			return i, err
		}
	}
	return steps, nil
}

func writeState(w io.Writer, m *machine.Machine, memory bool) {
	regs := m.Registers()
	next := m.NextInstruction()
	fmt.Fprintf(w, "\nNext instruction: %04x: %04x %s\n", next.Address, next.Word, next.Operation)
	fmt.Fprintf(w, "\nRegisters:\nPC: %04x\nI: %04x\nDT: %02x\nV:\n", regs.PC, regs.I, regs.Delay)
	_ = hexdump.Dump(w, regs.V[:])

	stack := m.Stack()
	fmt.Fprintf(w, "\nCall stack (%d):\n", len(stack))
	for i := len(stack) - 1; i >= 0; i-- {
		fmt.Fprintf(w, "%04x\n", stack[i])
	}

	fmt.Fprintf(w, "\nDisplay:\n%s", m.Frame())

	if memory {
		fmt.Fprintln(w, "\nMemory:")
		_ = hexdump.Dump(w, m.Memory())
	}
}

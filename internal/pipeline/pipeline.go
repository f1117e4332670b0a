// Package pipeline orchestrates loading a ROM and running it on a machine.
package pipeline

import (
	"context"
	"fmt"

	"github.com/retroenv/retrochip8/internal/app"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/console"
	"github.com/retroenv/retrochip8/internal/host"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// Pipeline orchestrates the complete emulation workflow.
type Pipeline struct {
	logger *log.Logger
	loader *loader.Loader
}

// New creates a new emulation pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger: logger,
		loader: loader.New(),
	}
}

// Execute loads the ROM of the options and runs it until the host closes,
// the context is cancelled or the machine faults.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program) error {
	rom, err := p.loader.Load(opts.Input)
	if err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}

	app.PrintInfo(p.logger, opts, len(rom))
	return p.ExecuteWithROM(ctx, rom, opts)
}

// ExecuteWithROM runs an already loaded ROM in the host selected by the
// options.
func (p *Pipeline) ExecuteWithROM(ctx context.Context, rom []byte, opts options.Program) error {
	cfg := config.MachineConfig(opts.Emulation)

	switch app.Mode(opts.Flags) {
	case "console":
		return p.runConsole(ctx, rom, cfg)
	case "headless":
		return p.runHeadless(ctx, rom, cfg)
	default:
		return p.runWindow(ctx, rom, cfg, opts.Emulation)
	}
}

func (p *Pipeline) runConsole(ctx context.Context, rom []byte, cfg machine.Config) error {
	consoleHost := console.NewHost()
	m, err := p.newMachine(consoleHost, rom, cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	c, restore, err := console.OpenStdio(p.logger, m, consoleHost)
	if err != nil {
		return fmt.Errorf("opening console: %w", err)
	}
	defer restore()

	if err := c.Run(ctx); err != nil {
		return fmt.Errorf("running console: %w", err)
	}
	return nil
}

func (p *Pipeline) runHeadless(ctx context.Context, rom []byte, cfg machine.Config) error {
	m, err := p.newMachine(host.NewHeadless(ctx), rom, cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Run(ctx); err != nil {
		return fmt.Errorf("running machine: %w", err)
	}
	return nil
}

func (p *Pipeline) runWindow(ctx context.Context, rom []byte, cfg machine.Config, opts options.Emulation) error {
	keymap, err := host.ParseLayout(opts.Keys)
	if err != nil {
		return fmt.Errorf("creating keymap: %w", err)
	}

	window := host.NewWindow(keymap, opts.Scale)
	m, err := p.newMachine(window, rom, cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := window.Run(ctx, m.Run); err != nil {
		return fmt.Errorf("running machine: %w", err)
	}
	return nil
}

// newMachine creates a machine for the host and loads the ROM into it.
func (p *Pipeline) newMachine(h machine.Host, rom []byte, cfg machine.Config) (*machine.Machine, error) {
	m := machine.New(p.logger, h, cfg)
	if err := m.Load(rom); err != nil {
		m.Close()
		return nil, fmt.Errorf("loading ROM into memory: %w", err)
	}
	return m, nil
}

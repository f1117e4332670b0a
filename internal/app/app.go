// Package app provides the main application helper for the emulator.
package app

import (
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// Name is the application name shown in the banner.
const Name = "retrochip8"

// PrintBanner logs the application name and version.
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info(Name, log.String("version", buildinfo.Version(version, commit, date)))
}

// PrintInfo prints the information about the ROM and the selected mode.
func PrintInfo(logger *log.Logger, opts options.Program, romSize int) {
	if opts.Quiet {
		return
	}

	logger.Info("Running CHIP-8 ROM",
		log.String("file", opts.Input),
		log.Int("size", romSize),
		log.String("mode", Mode(opts.Flags)),
	)
	if opts.ClockRate > 0 {
		logger.Info("Clock limited", log.Int("hz", opts.ClockRate))
	}
}

// Mode returns the name of the host the options select.
func Mode(flags options.Flags) string {
	switch {
	case flags.Console:
		return "console"
	case flags.Headless:
		return "headless"
	default:
		return "window"
	}
}

// Package options contains the program options.
package options

// Parameters contains file path options.
type Parameters struct {
	Input string `arg:"positional" usage:"CHIP-8 ROM file to run"`
}

// Flags contains behavior options.
type Flags struct {
	Console  bool `flag:"d" usage:"start the interactive debug console instead of the window"`
	Headless bool `flag:"headless" usage:"run without window until interrupted"`
	Debug    bool `flag:"debug" usage:"enable debug logging"`
	Quiet    bool `flag:"q" usage:"quiet mode"`
}

// Emulation contains the machine and host settings.
type Emulation struct {
	Scale     int    `flag:"scale" usage:"window pixels per display pixel" default:"10"`
	ClockRate int    `flag:"hz" usage:"instructions per second, 0 for unlimited"`
	Keys      string `flag:"keys" usage:"keyboard layout: grid, hex" default:"grid"`
	Seed      uint64 `flag:"seed" usage:"random number seed, 0 for a time based seed"`
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
	Emulation
}

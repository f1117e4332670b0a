// Package loader handles ROM file loading operations.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/machine"
)

// MaxSize is the largest ROM that fits into memory after the program start
// address.
const MaxSize = machine.MemorySize - machine.ProgramStart

// ErrEmpty is returned for a ROM without any byte.
var ErrEmpty = errors.New("ROM is empty")

// Loader handles loading ROM files from disk.
type Loader struct{}

// New creates a new ROM loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the ROM file at path.
func (l *Loader) Load(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	rom, err := l.LoadFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return rom, nil
}

// LoadFromReader reads a ROM from the reader. It fails for empty ROMs and
// ROMs that do not fit into memory, without reading more than one byte past
// the size limit.
func (l *Loader) LoadFromReader(reader io.Reader) ([]byte, error) {
	rom, err := io.ReadAll(io.LimitReader(reader, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading ROM: %w", err)
	}

	switch {
	case len(rom) == 0:
		return nil, ErrEmpty
	case len(rom) > MaxSize:
		return nil, &machine.ProgramTooLargeError{Size: len(rom), Free: MaxSize}
	}
	return rom, nil
}

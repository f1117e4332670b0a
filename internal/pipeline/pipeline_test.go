package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestNew(t *testing.T) {
	logger := log.NewTestLogger(t)
	p := New(logger)

	assert.NotNil(t, p)
	assert.NotNil(t, p.logger)
	assert.NotNil(t, p.loader)
}

func headlessOptions(input string) options.Program {
	return options.Program{
		Parameters: options.Parameters{Input: input},
		Flags:      options.Flags{Headless: true, Quiet: true},
		Emulation:  options.Emulation{Scale: 10, Keys: "grid", Seed: 1},
	}
}

func TestExecute(t *testing.T) {
	t.Run("runs until context is cancelled", func(t *testing.T) {
		// draw the font glyph 0 in an endless loop
		tmpFile := createTempFile(t, []byte{0xD0, 0x05, 0x12, 0x00})
		p := New(log.NewTestLogger(t))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.NoError(t, p.Execute(ctx, headlessOptions(tmpFile)))
	})

	t.Run("waiting for key stops with context", func(t *testing.T) {
		tmpFile := createTempFile(t, []byte{0xF0, 0x0A})
		p := New(log.NewTestLogger(t))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.NoError(t, p.Execute(ctx, headlessOptions(tmpFile)))
	})

	t.Run("stack underflow is returned", func(t *testing.T) {
		tmpFile := createTempFile(t, []byte{0x00, 0xEE})
		p := New(quietLogger())

		err := p.Execute(context.Background(), headlessOptions(tmpFile))
		assert.True(t, errors.Is(err, machine.ErrStackUnderflow))
	})

	t.Run("illegal opcode is returned after cancel", func(t *testing.T) {
		tmpFile := createTempFile(t, []byte{0xFF, 0xFF})
		p := New(quietLogger())

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err := p.Execute(ctx, headlessOptions(tmpFile))
		assert.True(t, errors.Is(err, machine.ErrIllegalOpcode))
	})

	t.Run("error on non-existent file", func(t *testing.T) {
		p := New(log.NewTestLogger(t))

		err := p.Execute(context.Background(), headlessOptions("/nonexistent/file.ch8"))
		assert.ErrorContains(t, err, "loading ROM")
	})

	t.Run("error on empty file", func(t *testing.T) {
		tmpFile := createTempFile(t, nil)
		p := New(log.NewTestLogger(t))

		err := p.Execute(context.Background(), headlessOptions(tmpFile))
		assert.True(t, errors.Is(err, loader.ErrEmpty))
	})
}

func TestExecuteWithROM_TooLarge(t *testing.T) {
	p := New(log.NewTestLogger(t))

	rom := make([]byte, loader.MaxSize+1)
	err := p.ExecuteWithROM(context.Background(), rom, headlessOptions(""))
	assert.True(t, errors.Is(err, machine.ErrProgramTooLarge))
}

// quietLogger drops the error records that machine faults are logged with,
// the test logger fails the test on them.
func quietLogger() *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.ErrorLevel + 1
	return log.NewWithConfig(cfg)
}

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test.ch8")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}

package machine

import (
	"math/rand/v2"
	"time"

	"github.com/retroenv/retrochip8/internal/timer"
)

// DefaultFrameInterval limits rendering to about 60 frames per second.
const DefaultFrameInterval = 16600 * time.Microsecond

// Config contains the timing and randomness settings of a machine.
type Config struct {
	// FrameInterval is the minimum time between two renders, 0 disables
	// the frame limiter.
	FrameInterval time.Duration
	// TimerInterval is the decrement interval of the delay timer.
	TimerInterval time.Duration
	// ClockRate is the number of instructions executed per second by Run,
	// 0 runs unbounded.
	ClockRate int
	// Random returns the random bytes used by the random instruction.
	Random func() uint8
}

// DefaultConfig returns the default configuration with a time seeded
// random source.
func DefaultConfig() Config {
	return Config{
		FrameInterval: DefaultFrameInterval,
		TimerInterval: timer.DefaultInterval,
		Random:        NewRandom(uint64(time.Now().UnixNano())),
	}
}

// NewRandom returns a deterministic random byte source for the seed.
func NewRandom(seed uint64) func() uint8 {
	rng := rand.New(rand.NewPCG(seed, seed>>32|seed<<32))
	return func() uint8 {
		return uint8(rng.Uint32())
	}
}

package sampler

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// Seed is the 128-bit state used to initialise a PCG source.
type Seed struct {
	Hi uint64
	Lo uint64
}

// EntropySeed reads a fresh seed from the operating system's entropy pool.
func EntropySeed() (Seed, error) {
	var buf [16]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return Seed{}, fmt.Errorf("reading entropy: %w", err)
	}
	return Seed{
		Hi: binary.LittleEndian.Uint64(buf[:8]),
		Lo: binary.LittleEndian.Uint64(buf[8:]),
	}, nil
}

// DeriveSeed expands a run-wide base seed into the seed for one trial.
// Distinct indexes yield unrelated streams; the same (base, index) pair
// always yields the same stream.
func DeriveSeed(base uint64, index int) Seed {
	x := base ^ (uint64(index) * 0x9e3779b97f4a7c15)
	hi := splitmix64(&x)
	lo := splitmix64(&x)
	return Seed{Hi: hi, Lo: lo}
}

func splitmix64(x *uint64) uint64 {
	*x += 0x9e3779b97f4a7c15
	z := *x
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// RandomSource yields uniform samples in [0, 1). ResolveRound consumes
// exactly one sample per round, in call order. Implementations need not be
// safe for concurrent use; each session owns its own source.
type RandomSource interface {
	Float64() float64
}

// NewSource returns a deterministic RandomSource seeded with seed. Two
// sources built from the same seed replay the same sample stream.
func NewSource(seed int64) RandomSource {
	return rand.New(rand.NewSource(seed))
}

// NewSeed draws a seed from the operating system's entropy pool. Use it to
// seed NewSource when reproducibility is not required.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read entropy: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Package random provides cryptographically secure random integers and
// shuffles for resolution strategies.
package random

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
)

// Errors for the randomness provider. Range violations are programmer
// errors; valid call sites never produce them.
var (
	ErrInvalidRange = errors.New("min must not exceed max")
)

// Source produces uniformly distributed integers. Strategies depend on this
// interface so tests can script exact values.
type Source interface {
	// Int returns a uniformly distributed integer in [min, max] inclusive.
	Int(min, max int) (int, error)
}

// CryptoSource is the production Source backed by crypto/rand. Uniformity
// is obtained by rejection sampling, never by modulo reduction, so no bias
// leaks into downstream probability distributions.
type CryptoSource struct{}

// NewCryptoSource creates the production randomness source.
func NewCryptoSource() *CryptoSource {
	return &CryptoSource{}
}

// Int returns a uniformly distributed integer in [min, max] inclusive.
// Returns ErrInvalidRange when min > max; bounds are never swapped or
// truncated silently.
func (s *CryptoSource) Int(min, max int) (int, error) {
	if min > max {
		return 0, fmt.Errorf("%w: min=%d max=%d", ErrInvalidRange, min, max)
	}
	if min == max {
		return min, nil
	}

	span := uint64(max-min) + 1
	// Largest multiple of span that fits in a uint64; values at or above it
	// are rejected to keep the distribution uniform.
	limit := (^uint64(0) / span) * span

	var buf [8]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			return 0, fmt.Errorf("failed to read entropy: %w", err)
		}
		v := binary.BigEndian.Uint64(buf[:])
		if v < limit {
			return min + int(v%span), nil
		}
	}
}

// Die rolls a single die with the given number of faces.
func Die(src Source, faces int) (int, error) {
	return src.Int(1, faces)
}

// D6 rolls a standard six-sided die.
func D6(src Source) (int, error) {
	return Die(src, 6)
}

// Shuffle permutes n elements with a Fisher-Yates shuffle driven by src,
// producing an unbiased permutation.
func Shuffle(src Source, n int, swap func(i, j int)) error {
	for i := n - 1; i > 0; i-- {
		j, err := src.Int(0, i)
		if err != nil {
			return err
		}
		swap(i, j)
	}
	return nil
}

// Seed returns a random hex string used as an audit marker on resolution
// payloads. It is traceability data only; the draw itself never consumes it.
func Seed() (string, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("failed to read entropy: %w", err)
	}
	return hex.EncodeToString(buf[:]), nil
}

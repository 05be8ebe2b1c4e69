// Package shamir implements Shamir's Secret Sharing over GF(2^8).
//
// A secret of m bytes is split into shares of m+1 bytes: the first m bytes are
// the y-values, one per secret byte, and the final byte is the share's
// x-coordinate. Any threshold of the shares reconstruct the secret and fewer
// reveal nothing about it. The layout and field match
// github.com/hashicorp/vault/shamir, so shares interoperate in both directions.
//
// Combine cannot tell a sufficient set of shares from an insufficient one.
// Given fewer shares than the threshold used at split time it returns a
// well-formed but meaningless secret and no error. Callers must track the
// threshold themselves.
//
// Refresh is experimental. It re-randomizes a share set without changing the
// secret, which only helps if the old shares are destroyed afterwards and are
// never combined with refreshed ones.
package shamir

import (
	"fmt"

	"github.com/Davincible/sss/pkg/crypto/gf256"
	"github.com/Davincible/sss/pkg/crypto/polynomial"
	"github.com/Davincible/sss/pkg/crypto/random"
	"github.com/Davincible/sss/pkg/secure"
)

const (
	// ShareOverhead is the number of bytes a share adds on top of the secret.
	ShareOverhead = 1

	// MaxParts is the number of distinct non-zero x-coordinates available.
	MaxParts = 255
)

// Config describes a split.
type Config struct {
	Parts     int
	Threshold int
}

// Validate checks 1 <= Threshold <= Parts <= MaxParts.
func (c Config) Validate() error {
	if c.Parts < 1 || c.Parts > MaxParts {
		return fmt.Errorf("%w: parts must be between 1 and %d, got %d", ErrInvalidPartCount, MaxParts, c.Parts)
	}
	if c.Threshold < 1 {
		return fmt.Errorf("%w: threshold must be at least 1, got %d", ErrInvalidThreshold, c.Threshold)
	}
	if c.Threshold > c.Parts {
		return fmt.Errorf("%w: threshold (%d) cannot be greater than parts (%d)", ErrInvalidThreshold, c.Threshold, c.Parts)
	}
	return nil
}

// Scheme splits and refreshes shares with an injected randomness source.
type Scheme struct {
	rand random.Source
}

// New returns a Scheme drawing from src. A nil src selects random.Default.
func New(src random.Source) *Scheme {
	if src == nil {
		src = random.Default()
	}
	return &Scheme{rand: src}
}

var defaultScheme = New(nil)

// Split divides secret into parts shares, any threshold of which reconstruct it.
// It uses the crypto/rand backed default source.
func Split(secret []byte, parts, threshold int) ([][]byte, error) {
	return defaultScheme.Split(secret, parts, threshold)
}

// Refresh re-randomizes shares with the default source. See Scheme.Refresh.
func Refresh(shares [][]byte, threshold int) ([][]byte, error) {
	return defaultScheme.Refresh(shares, threshold)
}

// Split divides secret into parts shares, any threshold of which reconstruct it.
//
// Parameters are validated before any randomness is drawn. A successful split
// draws parts coordinates (plus any rejected repeats or zeros) and
// len(secret)*(threshold-1) coefficients from the source.
func (s *Scheme) Split(secret []byte, parts, threshold int) ([][]byte, error) {
	if err := (Config{Parts: parts, Threshold: threshold}).Validate(); err != nil {
		return nil, err
	}
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	xs, err := drawCoordinates(parts, s.rand)
	if err != nil {
		return nil, err
	}

	size := len(secret)
	shares := make([][]byte, parts)
	for i, x := range xs {
		shares[i] = make([]byte, size+ShareOverhead)
		shares[i][size] = x
	}

	for idx, b := range secret {
		p, err := polynomial.Generate(b, threshold-1, s.rand)
		if err != nil {
			secure.ZeroAll(shares)
			return nil, fmt.Errorf("failed to generate polynomial for byte %d: %w", idx, err)
		}

		for i, x := range xs {
			shares[i][idx] = p.Evaluate(x)
		}
		p.Zero()
	}

	return shares, nil
}

// Refresh returns a new share set over the same x-coordinates that
// reconstructs the same secret. Each byte position gets an independent random
// polynomial of degree threshold-1 with a zero constant term, whose value at
// every share's coordinate is added to that share's y-value.
//
// threshold must be the value used at split time and every share of the set
// should be refreshed together; shares left out will no longer combine with
// refreshed ones. The input shares are not modified. Destroying them is the
// caller's job.
//
// threshold must be at least 2, so a set split with threshold 1 cannot be
// refreshed and gets ErrInvalidThreshold. Every such share already holds the
// secret in the clear, so there is nothing to re-randomize.
func (s *Scheme) Refresh(shares [][]byte, threshold int) ([][]byte, error) {
	if err := VerifyShares(shares); err != nil {
		return nil, err
	}
	if threshold < 2 || threshold > len(shares) {
		return nil, fmt.Errorf("%w: refresh threshold must be between 2 and %d, got %d",
			ErrInvalidThreshold, len(shares), threshold)
	}

	size := len(shares[0]) - ShareOverhead
	refreshed := secure.CloneAll(shares)

	for idx := 0; idx < size; idx++ {
		p, err := polynomial.Generate(0, threshold-1, s.rand)
		if err != nil {
			secure.ZeroAll(refreshed)
			return nil, fmt.Errorf("failed to generate refresh polynomial for byte %d: %w", idx, err)
		}

		for _, share := range refreshed {
			share[idx] = gf256.Add(share[idx], p.Evaluate(share[size]))
		}
		p.Zero()
	}

	return refreshed, nil
}

// Combine reconstructs a secret from shares by Lagrange interpolation at x=0.
//
// The result is only correct when at least the split threshold of shares is
// supplied. Fewer shares produce a wrong secret without an error.
func Combine(shares [][]byte) ([]byte, error) {
	if err := VerifyShares(shares); err != nil {
		return nil, err
	}

	size := len(shares[0]) - ShareOverhead
	xs := make([]byte, len(shares))
	for i, share := range shares {
		xs[i] = share[size]
	}

	weights, err := lagrangeWeights(xs)
	if err != nil {
		return nil, err
	}

	secret := make([]byte, size)
	for idx := range secret {
		var acc byte
		for j, share := range shares {
			acc = gf256.Add(acc, gf256.Mul(share[idx], weights[j]))
		}
		secret[idx] = acc
	}

	return secret, nil
}

// lagrangeWeights returns l_j(0) = prod_{l != j} (0 - x_l) / (x_j - x_l) for
// every coordinate. The weights depend only on the x-coordinates, so they are
// shared by every byte position.
func lagrangeWeights(xs []byte) ([]byte, error) {
	weights := make([]byte, len(xs))

	for j, xj := range xs {
		numerator, denominator := byte(1), byte(1)
		for l, xl := range xs {
			if l == j {
				continue
			}
			numerator = gf256.Mul(numerator, gf256.Sub(0, xl))
			denominator = gf256.Mul(denominator, gf256.Sub(xj, xl))
		}

		w, err := gf256.Div(numerator, denominator)
		if err != nil {
			return nil, fmt.Errorf("failed to compute basis weight for x=%d: %w", xj, err)
		}
		weights[j] = w
	}

	return weights, nil
}

// VerifyShares checks that shares can be interpolated together: at least two
// shares, each at least two bytes, all the same length, with distinct non-zero
// x-coordinates. It cannot check that the shares belong to the same split.
func VerifyShares(shares [][]byte) error {
	if len(shares) < 2 {
		return fmt.Errorf("%w: got %d", ErrTooFewShares, len(shares))
	}

	size := len(shares[0])
	if size < 1+ShareOverhead {
		return fmt.Errorf("%w: share 0 has %d bytes", ErrShareTooShort, size)
	}

	var seen [256]bool
	for i, share := range shares {
		if len(share) != size {
			return fmt.Errorf("%w: share %d has %d bytes, expected %d", ErrShareLengthMismatch, i, len(share), size)
		}

		x := share[size-1]
		if x == 0 {
			return fmt.Errorf("%w: share %d", ErrZeroCoordinate, i)
		}
		if seen[x] {
			return fmt.Errorf("%w: share %d repeats x=%d", ErrDuplicateCoordinate, i, x)
		}
		seen[x] = true
	}

	return nil
}

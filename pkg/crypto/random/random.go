// Package random provides the randomness capability consumed by the secret
// sharing engine: a Source hands out one uniformly distributed field element
// per call.
//
// Production code uses Default, which reads crypto/rand. NewDeterministic
// exists so tests can reproduce a share set from a fixed seed.
package random

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/atomic"
)

// ErrInsufficientRandomness wraps any failure of the underlying entropy source.
var ErrInsufficientRandomness = errors.New("random: insufficient randomness")

// Source draws uniformly random GF(2^8) elements.
type Source interface {
	Element() (byte, error)
}

var defaultSource = Locked(Reader(rand.Reader))

// Default returns the process-wide crypto/rand backed source. It is safe for
// concurrent use.
func Default() Source {
	return defaultSource
}

type readerSource struct {
	r   io.Reader
	buf [64]byte
	pos int
	n   int
}

// Reader adapts r into a Source. Bytes are read in small batches, so a finite
// reader may be consumed ahead of the draws actually made. The returned Source
// is not safe for concurrent use; wrap it with Locked when sharing it.
func Reader(r io.Reader) Source {
	return &readerSource{r: r}
}

func (s *readerSource) Element() (byte, error) {
	if s.pos == s.n {
		n, err := io.ReadAtLeast(s.r, s.buf[:], 1)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInsufficientRandomness, err)
		}
		s.pos, s.n = 0, n
	}

	b := s.buf[s.pos]
	s.buf[s.pos] = 0
	s.pos++
	return b, nil
}

type lockedSource struct {
	mu  sync.Mutex
	src Source
}

// Locked serializes calls to src.
func Locked(src Source) Source {
	return &lockedSource{src: src}
}

func (s *lockedSource) Element() (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Element()
}

// Counter is a Source that records how many elements were successfully drawn
// from the wrapped source.
type Counter struct {
	src   Source
	draws *atomic.Uint64
}

// Counting wraps src in a Counter.
func Counting(src Source) *Counter {
	return &Counter{src: src, draws: atomic.NewUint64(0)}
}

// Element draws from the wrapped source.
func (c *Counter) Element() (byte, error) {
	b, err := c.src.Element()
	if err != nil {
		return 0, err
	}
	c.draws.Inc()
	return b, nil
}

// Draws returns the number of successful draws so far.
func (c *Counter) Draws() uint64 {
	return c.draws.Load()
}

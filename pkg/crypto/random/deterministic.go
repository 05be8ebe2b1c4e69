package random

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/Davincible/sss/pkg/secure"
	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/hkdf"
)

const deterministicInfo = "sss deterministic source v1"

// ErrEmptySeed is returned by NewDeterministic for a zero-length seed.
var ErrEmptySeed = errors.New("random: seed cannot be empty")

type keystreamSource struct {
	cipher *chacha20.Cipher
	buf    [64]byte
	pos    int
}

// NewDeterministic returns a Source that expands seed into a ChaCha20 keystream.
// The key and nonce are derived from the seed with HKDF-SHA256, so equal seeds
// always produce equal element sequences.
//
// Shares produced from a deterministic source are only as secret as the seed.
// Use it for tests and reproducible vectors, not for real secrets.
func NewDeterministic(seed []byte) (Source, error) {
	if len(seed) == 0 {
		return nil, ErrEmptySeed
	}

	material := make([]byte, chacha20.KeySize+chacha20.NonceSize)
	defer secure.Zero(material)

	kdf := hkdf.New(sha256.New, seed, nil, []byte(deterministicInfo))
	if _, err := io.ReadFull(kdf, material); err != nil {
		return nil, fmt.Errorf("failed to derive keystream key: %w", err)
	}

	c, err := chacha20.NewUnauthenticatedCipher(material[:chacha20.KeySize], material[chacha20.KeySize:])
	if err != nil {
		return nil, fmt.Errorf("failed to create keystream cipher: %w", err)
	}

	s := &keystreamSource{cipher: c}
	s.pos = len(s.buf)
	return s, nil
}

func (s *keystreamSource) Element() (byte, error) {
	if s.pos == len(s.buf) {
		secure.Zero(s.buf[:])
		s.cipher.XORKeyStream(s.buf[:], s.buf[:])
		s.pos = 0
	}

	b := s.buf[s.pos]
	s.buf[s.pos] = 0
	s.pos++
	return b, nil
}

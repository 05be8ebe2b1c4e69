// Package mnemonic converts between BIP-39 phrases and the entropy bytes they
// encode, so a wallet phrase can be split as a secret and recovered as one.
package mnemonic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Davincible/sss/pkg/secure"
	"github.com/tyler-smith/go-bip39"
)

const (
	MinEntropyBytes = 16
	MaxEntropyBytes = 32
)

var (
	ErrInvalidMnemonic = errors.New("invalid mnemonic phrase")
	ErrInvalidEntropy  = errors.New("invalid mnemonic entropy")
)

type Mnemonic struct {
	words []string
}

// FromWords parses and checksums a phrase. Surrounding and repeated
// whitespace is ignored and words are lowercased.
func FromWords(phrase string) (*Mnemonic, error) {
	words := strings.Fields(strings.ToLower(phrase))
	if !ValidateWordCount(len(words)) {
		return nil, fmt.Errorf("%w: %d words", ErrInvalidMnemonic, len(words))
	}

	normalized := strings.Join(words, " ")
	if !bip39.IsMnemonicValid(normalized) {
		return nil, ErrInvalidMnemonic
	}

	return &Mnemonic{words: words}, nil
}

// FromEntropy encodes 16 to 32 bytes, in steps of 4, as a phrase.
func FromEntropy(entropy []byte) (*Mnemonic, error) {
	if len(entropy) < MinEntropyBytes || len(entropy) > MaxEntropyBytes {
		return nil, fmt.Errorf("%w: must be between %d and %d bytes, got %d",
			ErrInvalidEntropy, MinEntropyBytes, MaxEntropyBytes, len(entropy))
	}

	if len(entropy)%4 != 0 {
		return nil, fmt.Errorf("%w: length must be a multiple of 4, got %d", ErrInvalidEntropy, len(entropy))
	}

	phrase, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, fmt.Errorf("failed to encode mnemonic: %w", err)
	}

	return &Mnemonic{words: strings.Fields(phrase)}, nil
}

func (m *Mnemonic) Words() string {
	return strings.Join(m.words, " ")
}

func (m *Mnemonic) WordCount() int {
	return len(m.words)
}

// Entropy returns the bytes the phrase encodes. The caller owns the slice and
// should wipe it when done.
func (m *Mnemonic) Entropy() ([]byte, error) {
	entropy, err := bip39.EntropyFromMnemonic(m.Words())
	if err != nil {
		return nil, fmt.Errorf("failed to decode mnemonic: %w", err)
	}
	return entropy, nil
}

func (m *Mnemonic) Validate() error {
	if !bip39.IsMnemonicValid(m.Words()) {
		return ErrInvalidMnemonic
	}
	return nil
}

// Clear drops the words. Go strings cannot be overwritten in place, so this
// only releases the references.
func (m *Mnemonic) Clear() {
	for i := range m.words {
		m.words[i] = ""
	}
	m.words = nil
}

// SecretFromWords is a shorthand for FromWords followed by Entropy.
func SecretFromWords(phrase string) ([]byte, error) {
	m, err := FromWords(phrase)
	if err != nil {
		return nil, err
	}
	defer m.Clear()

	return m.Entropy()
}

// WordsFromSecret is a shorthand for FromEntropy followed by Words.
func WordsFromSecret(secret []byte) (string, error) {
	buf := append([]byte(nil), secret...)
	defer secure.Zero(buf)

	m, err := FromEntropy(buf)
	if err != nil {
		return "", err
	}

	return m.Words(), nil
}

func ValidateWordCount(count int) bool {
	switch count {
	case 12, 15, 18, 21, 24:
		return true
	default:
		return false
	}
}

// Package shareset reads and writes the JSON documents the CLI uses to hand
// shares around. A set records which split the shares came from and how many
// times they were refreshed; the shares themselves are stored in hex and
// base64.
package shareset

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/Davincible/sss/pkg/secure"
	"github.com/google/uuid"
)

var (
	ErrChecksumMismatch = errors.New("shareset: checksum mismatch, data may be corrupted")
	ErrEncodingMismatch = errors.New("shareset: hex and base64 encodings disagree")
	ErrEmpty            = errors.New("shareset: no shares in set")
)

// Share holds one share in both text encodings. Either may be omitted.
type Share struct {
	Hex    string `json:"hex,omitempty"`
	Base64 string `json:"base64,omitempty"`
}

// ShareSet is a group of shares produced by one split or refresh.
type ShareSet struct {
	ID             string    `json:"id"`
	Created        time.Time `json:"created"`
	Threshold      int       `json:"threshold"`
	Total          int       `json:"total"`
	Generation     int       `json:"generation"`
	Shares         []Share   `json:"shares"`
	ChecksumSHA256 []byte    `json:"checksum_sha256,omitempty"`
}

// New wraps freshly split shares in a set with a new id.
func New(shares [][]byte, threshold int) *ShareSet {
	return &ShareSet{
		ID:         uuid.NewString(),
		Created:    time.Now().UTC(),
		Threshold:  threshold,
		Total:      len(shares),
		Generation: 1,
		Shares:     encode(shares),
	}
}

// Next returns the set that follows s after a refresh. The id and threshold
// carry over.
func (s *ShareSet) Next(shares [][]byte) *ShareSet {
	return &ShareSet{
		ID:         s.ID,
		Created:    time.Now().UTC(),
		Threshold:  s.Threshold,
		Total:      len(shares),
		Generation: s.Generation + 1,
		Shares:     encode(shares),
	}
}

func encode(shares [][]byte) []Share {
	out := make([]Share, len(shares))
	for i, share := range shares {
		out[i] = Share{
			Hex:    hex.EncodeToString(share),
			Base64: base64.StdEncoding.EncodeToString(share),
		}
	}
	return out
}

// Bytes decodes every share. When both encodings are present they must agree.
func (s *ShareSet) Bytes() ([][]byte, error) {
	if len(s.Shares) == 0 {
		return nil, ErrEmpty
	}

	out := make([][]byte, len(s.Shares))
	for i, share := range s.Shares {
		data, err := share.decode()
		if err != nil {
			secure.ZeroAll(out[:i])
			return nil, fmt.Errorf("share %d: %w", i+1, err)
		}
		out[i] = data
	}

	return out, nil
}

func (s Share) decode() ([]byte, error) {
	var fromHex, fromBase64 []byte
	var err error

	if s.Hex != "" {
		if fromHex, err = hex.DecodeString(s.Hex); err != nil {
			return nil, fmt.Errorf("invalid hex: %w", err)
		}
	}

	if s.Base64 != "" {
		if fromBase64, err = base64.StdEncoding.DecodeString(s.Base64); err != nil {
			return nil, fmt.Errorf("invalid base64: %w", err)
		}
	}

	switch {
	case fromHex != nil && fromBase64 != nil:
		if !bytes.Equal(fromHex, fromBase64) {
			return nil, ErrEncodingMismatch
		}
		secure.Zero(fromBase64)
		return fromHex, nil
	case fromHex != nil:
		return fromHex, nil
	case fromBase64 != nil:
		return fromBase64, nil
	default:
		return nil, errors.New("share is empty")
	}
}

func (s *ShareSet) checksum() ([]byte, error) {
	temp := *s
	temp.ChecksumSHA256 = nil

	data, err := json.Marshal(temp)
	if err != nil {
		return nil, err
	}

	hash := sha256.Sum256(data)
	return hash[:], nil
}

// Verify compares the stored checksum with the contents. Sets without a
// checksum, such as hand-assembled ones, pass.
func (s *ShareSet) Verify() error {
	if len(s.ChecksumSHA256) == 0 {
		return nil
	}

	sum, err := s.checksum()
	if err != nil {
		return fmt.Errorf("failed to compute checksum: %w", err)
	}

	if !secure.ConstantTimeCompare(sum, s.ChecksumSHA256) {
		return ErrChecksumMismatch
	}

	return nil
}

// Save writes the set to path with owner-only permissions.
func (s *ShareSet) Save(path string) error {
	sum, err := s.checksum()
	if err != nil {
		return fmt.Errorf("failed to compute checksum: %w", err)
	}
	s.ChecksumSHA256 = sum

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal share set: %w", err)
	}
	defer secure.Zero(data)

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// Load reads and verifies a set.
func Load(path string) (*ShareSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer secure.Zero(data)

	var set ShareSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse share set: %w", err)
	}

	if err := set.Verify(); err != nil {
		return nil, err
	}

	if len(set.Shares) == 0 {
		return nil, ErrEmpty
	}

	return &set, nil
}

// Destroy overwrites the file at path with random bytes and removes it. A
// missing file is not an error.
func Destroy(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to stat file for secure deletion: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("failed to open file for secure deletion: %w", err)
	}

	noise := make([]byte, info.Size())
	if _, err := rand.Read(noise); err != nil {
		f.Close()
		return fmt.Errorf("failed to overwrite file: %w", err)
	}

	if _, err := f.WriteAt(noise, 0); err != nil {
		f.Close()
		return fmt.Errorf("failed to overwrite file: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync file: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	return os.Remove(path)
}

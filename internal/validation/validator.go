package validation

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/Davincible/sss/pkg/config"
)

var (
	hexPattern    = regexp.MustCompile(`^[0-9a-fA-F]+$`)
	base64Pattern = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)
)

func ValidateHex(input string) error {
	input = strings.TrimSpace(input)
	if len(input) == 0 {
		return fmt.Errorf("hex string cannot be empty")
	}

	if len(input)%2 != 0 {
		return fmt.Errorf("hex string must have even length")
	}

	if !hexPattern.MatchString(input) {
		return fmt.Errorf("invalid hex characters")
	}

	return nil
}

// DetectEncoding guesses how a share was written. Even-length hex wins over
// base64 since every hex string is also valid base64 alphabet.
func DetectEncoding(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("share cannot be empty")
	}

	if ValidateHex(input) == nil {
		return config.EncodingHex, nil
	}

	if len(input)%4 == 0 && base64Pattern.MatchString(input) {
		return config.EncodingBase64, nil
	}

	return "", fmt.Errorf("share is neither hex nor base64")
}

// DecodeShare decodes a hex or base64 share and checks it is long enough to
// hold a value and a coordinate.
func DecodeShare(input string) ([]byte, error) {
	input = strings.TrimSpace(input)

	encoding, err := DetectEncoding(input)
	if err != nil {
		return nil, fmt.Errorf("invalid share format: %w", err)
	}

	var data []byte
	switch encoding {
	case config.EncodingHex:
		data, err = hex.DecodeString(input)
	default:
		data, err = base64.StdEncoding.DecodeString(input)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode share: %w", err)
	}

	if len(data) < 2 {
		return nil, fmt.Errorf("share is too short")
	}

	return data, nil
}

func ValidateShare(share string) error {
	_, err := DecodeShare(share)
	return err
}

func ValidateMnemonic(words string) error {
	words = strings.TrimSpace(words)
	if words == "" {
		return fmt.Errorf("mnemonic cannot be empty")
	}

	wordList := strings.Fields(words)
	wordCount := len(wordList)

	if !ValidateWordCount(wordCount) {
		return fmt.Errorf("mnemonic must have 12, 15, 18, 21, or 24 words (got %d)", wordCount)
	}

	for i, word := range wordList {
		if len(word) < 3 || len(word) > 8 {
			return fmt.Errorf("word %d has invalid length: %s", i+1, word)
		}

		for _, ch := range word {
			if ch < 'a' || ch > 'z' {
				return fmt.Errorf("word %d contains invalid characters: %s", i+1, word)
			}
		}
	}

	return nil
}

func ValidateSplitParams(parts, threshold int) error {
	if parts < 1 || parts > 255 {
		return fmt.Errorf("parts must be between 1 and 255 (got %d)", parts)
	}

	if threshold < 1 || threshold > parts {
		return fmt.Errorf("threshold must be between 1 and %d (got %d)", parts, threshold)
	}

	return nil
}

func ValidateRefreshThreshold(threshold, shares int) error {
	if shares < 2 {
		return fmt.Errorf("refresh needs at least 2 shares (got %d)", shares)
	}

	if threshold < 2 || threshold > shares {
		return fmt.Errorf("threshold must be between 2 and %d (got %d)", shares, threshold)
	}

	return nil
}

func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)

	input = strings.ReplaceAll(input, "\r\n", "\n")
	input = strings.ReplaceAll(input, "\r", "\n")

	lines := strings.Split(input, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	return strings.Join(lines, "\n")
}

// SplitShareList breaks pasted input into individual shares on whitespace and
// commas.
func SplitShareList(input string) []string {
	return strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\r' || r == '\t'
	})
}

func ValidateWordCount(count int) bool {
	switch count {
	case 12, 15, 18, 21, 24:
		return true
	default:
		return false
	}
}

func ValidateEntropySize(size int) bool {
	switch size {
	case 16, 20, 24, 28, 32:
		return true
	default:
		return false
	}
}

package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Davincible/sss/internal/validation"
	"github.com/Davincible/sss/pkg/secure"
	"github.com/Davincible/sss/pkg/shareset"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// readSecretInteractive prompts for a secret. On a terminal the input is not
// echoed; otherwise a single line is read.
func readSecretInteractive(in io.Reader, prompt io.Writer, label string) ([]byte, error) {
	fmt.Fprint(prompt, label)

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return nil, err
		}
		if len(secret) == 0 {
			return nil, fmt.Errorf("secret cannot be empty")
		}
		return secret, nil
	}

	line, err := bufio.NewReader(in).ReadBytes('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		secure.Zero(line)
		return nil, err
	}

	secret := bytes.TrimRight(line, "\r\n")
	if len(secret) == 0 {
		return nil, fmt.Errorf("secret cannot be empty")
	}

	return secret, nil
}

// readFromStdin reads everything from in, dropping one trailing newline.
func readFromStdin(in io.Reader) ([]byte, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		secure.Zero(data)
		return nil, err
	}

	data = bytes.TrimSuffix(data, []byte("\n"))
	data = bytes.TrimSuffix(data, []byte("\r"))

	if len(data) == 0 {
		return nil, fmt.Errorf("secret cannot be empty")
	}

	return data, nil
}

// collectShares reads shares one per line until an empty line or EOF.
func collectShares(in io.Reader, prompt io.Writer) ([]string, error) {
	yellow := color.New(color.FgYellow)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	yellow.Fprintln(prompt, "Enter shares (hex or base64), one per line")
	fmt.Fprintln(prompt, "Press Enter on an empty line when done")

	reader := bufio.NewReader(in)
	var shares []string

	for {
		fmt.Fprintf(prompt, "Share %d: ", len(shares)+1)

		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}

		line = strings.TrimSpace(line)
		if line != "" {
			if verr := validation.ValidateShare(line); verr != nil {
				red.Fprintf(prompt, "  ✗ %v\n", verr)
			} else {
				green.Fprintln(prompt, "  ✓ Valid share")
				shares = append(shares, line)
			}
		}

		if errors.Is(err, io.EOF) || (line == "" && len(shares) > 0) {
			break
		}
	}

	if len(shares) == 0 {
		return nil, fmt.Errorf("no valid shares provided")
	}

	return shares, nil
}

func decodeShares(inputs []string) ([][]byte, error) {
	shares := make([][]byte, 0, len(inputs))
	for i, input := range inputs {
		data, err := validation.DecodeShare(input)
		if err != nil {
			secure.ZeroAll(shares)
			return nil, fmt.Errorf("share %d: %w", i+1, err)
		}
		shares = append(shares, data)
	}
	return shares, nil
}

// gatherShares resolves shares from a share set file, the command arguments or
// an interactive prompt, in that order. The set is nil unless a file was read.
func gatherShares(in io.Reader, prompt io.Writer, inputFile string, args []string) ([][]byte, *shareset.ShareSet, error) {
	if inputFile != "" {
		set, err := shareset.Load(inputFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load %s: %w", inputFile, err)
		}

		shares, err := set.Bytes()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to decode %s: %w", inputFile, err)
		}

		return shares, set, nil
	}

	inputs := validation.SplitShareList(strings.Join(args, " "))
	if len(inputs) == 0 {
		collected, err := collectShares(in, prompt)
		if err != nil {
			return nil, nil, err
		}
		inputs = collected
	}

	shares, err := decodeShares(inputs)
	if err != nil {
		return nil, nil, err
	}

	return shares, nil, nil
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// printable reports whether data reads as text on a terminal.
func printable(data []byte) bool {
	if !utf8.Valid(data) {
		return false
	}
	for _, r := range string(data) {
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

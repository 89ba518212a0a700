// Package wordlist loads brute force wordlists and fuzz payload lists, and
// provides embedded defaults for both.
package wordlist

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed common.txt payloads.txt
var defaultsFS embed.FS

// maxLineSize allows long payload lines.
const maxLineSize = 1024 * 1024

// Default returns the embedded common paths wordlist.
func Default() []string {
	return mustEmbedded("common.txt", true)
}

// DefaultPayloads returns the embedded fuzz payload list.
func DefaultPayloads() []string {
	return mustEmbedded("payloads.txt", false)
}

// Load reads a wordlist file. Lines are trimmed and blank lines and
// '#' comments are skipped.
func Load(path string) ([]string, error) {
	return loadFile(path, true)
}

// LoadPayloads reads a payload file. Lines are trimmed and blank lines are
// skipped; a leading '#' is kept because it is meaningful in payloads.
func LoadPayloads(path string) ([]string, error) {
	return loadFile(path, false)
}

// Parse reads entries from r, optionally skipping '#' comments.
func Parse(r io.Reader, skipComments bool) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || (skipComments && strings.HasPrefix(line, "#")) {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

func loadFile(path string, skipComments bool) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // user-provided wordlist path
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	words, err := Parse(f, skipComments)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return words, nil
}

func mustEmbedded(name string, skipComments bool) []string {
	data, err := defaultsFS.ReadFile(name)
	if err != nil {
		return nil
	}
	words, err := Parse(strings.NewReader(string(data)), skipComments)
	if err != nil {
		return nil
	}
	return words
}

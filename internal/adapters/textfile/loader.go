// Package textfile loads pattern lists and text bodies from files or
// streams.
package textfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrNoPatterns is returned when a pattern source holds no non-empty line.
var ErrNoPatterns = errors.New("no patterns found")

const maxLineBytes = 1 << 20

// ReadPatterns reads one pattern per non-empty line. Lines are kept
// verbatim apart from the line terminator.
func ReadPatterns(r io.Reader) ([]string, error) {
	var patterns []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read patterns: %w", err)
	}
	if len(patterns) == 0 {
		return nil, ErrNoPatterns
	}
	return patterns, nil
}

// LoadPatterns reads a pattern file.
func LoadPatterns(path string) ([]string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open pattern file %s: %w", path, err)
	}
	defer f.Close()

	patterns, err := ReadPatterns(f)
	if err != nil {
		return nil, fmt.Errorf("pattern file %s: %w", path, err)
	}
	return patterns, nil
}

// ReadText reads a whole text body.
func ReadText(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	return string(data), nil
}

// LoadText reads a whole text file.
func LoadText(path string) (string, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("read text file %s: %w", path, err)
	}
	return string(data), nil
}

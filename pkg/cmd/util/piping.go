package util

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// IsStdinPiped returns true if stdin is being piped from another command
func IsStdinPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// ReadLines returns the non-blank, non-comment lines of in, trimmed.
// Enables chaining like: ssh-keyscan -t ed25519 host | cut -d' ' -f2- | known-hosts-edit add host
func ReadLines(in io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err //nolint:wrapcheck // wrapped by caller
	}
	return lines, nil
}

package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadStdin reads all content from stdin.
// Returns an error if stdin is a terminal (no piped data), is empty, or cannot be read.
func ReadStdin() ([]byte, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat stdin: %w", err)
	}

	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return nil, fmt.Errorf("no data provided on stdin (hint: pipe the secret value to this command)")
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read from stdin: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("stdin is empty")
	}

	return data, nil
}

// TrimTrailingNewline strips one trailing "\n" or "\r\n", as left by `echo` or heredocs.
func TrimTrailingNewline(data []byte) []byte {
	s := string(data)
	switch {
	case strings.HasSuffix(s, "\r\n"):
		return data[:len(data)-2]
	case strings.HasSuffix(s, "\n"):
		return data[:len(data)-1]
	}
	return data
}

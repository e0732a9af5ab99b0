package envtemplate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	kerrors "github.com/PolarWolf314/enject/internal/errors"
)

// LineError describes a malformed template line. It never carries the line's
// value, only its position and, when known, its key.
type LineError struct {
	Line   int
	Key    string
	Reason string
}

func (e *LineError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %d (%s): %s", kerrors.ErrMalformedTemplateLine, e.Line, e.Key, e.Reason)
	}
	return fmt.Sprintf("%s %d: %s", kerrors.ErrMalformedTemplateLine, e.Line, e.Reason)
}

func (e *LineError) Unwrap() error { return kerrors.ErrMalformedTemplateLine }

// Parse classifies every line of a .env template. A single malformed line
// fails the whole parse. Lines are split on "\n"; a trailing "\r" and a final
// terminating newline are not treated as content.
func Parse(text string) ([]EnvLine, error) {
	raw := splitLines(text)
	lines := make([]EnvLine, 0, len(raw))

	for i, r := range raw {
		line, err := parseLine(r)
		if err != nil {
			err.Line = i + 1
			return nil, err
		}
		lines = append(lines, line)
	}

	return lines, nil
}

// ParseReader reads r to the end and parses it.
func ParseReader(r io.Reader) ([]EnvLine, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	return Parse(buf.String())
}

// ParseFile reads and parses the template at path.
func ParseFile(path string) ([]EnvLine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(string(data))
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}

	raw := strings.Split(text, "\n")
	if raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}
	for i, r := range raw {
		raw[i] = strings.TrimSuffix(r, "\r")
	}
	return raw
}

func parseLine(line string) (EnvLine, *LineError) {
	trimmed := strings.TrimRightFunc(line, unicode.IsSpace)

	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return Passthrough{Raw: line}, nil
	}

	keyPart, value, ok := strings.Cut(trimmed, "=")
	if !ok {
		return nil, &LineError{Reason: "expected KEY=VALUE, no '=' found"}
	}

	key := strings.TrimSpace(keyPart)
	if key == "" {
		return nil, &LineError{Reason: "empty key"}
	}

	s, name, ok := matchScheme(value)
	if !ok {
		return Plain{Key: key, Value: value}, nil
	}
	if name == "" {
		return nil, &LineError{Key: key, Reason: fmt.Sprintf("empty secret name in %s reference", s.prefix)}
	}

	if s.global {
		return GlobalRef{Key: key, SecretName: name, Legacy: s.legacy}, nil
	}
	return LocalRef{Key: key, SecretName: name, Legacy: s.legacy}, nil
}

package envtemplate

import "strings"

// CountLegacy returns the number of references written with the legacy token.
func CountLegacy(lines []EnvLine) int {
	n := 0
	for _, line := range lines {
		if IsLegacy(line) {
			n++
		}
	}
	return n
}

// RewriteLegacy upgrades every legacy reference in text to the canonical token
// and returns the new text with the number of lines changed. All other lines,
// including plain values that merely contain the legacy token, are left
// byte-for-byte intact. Malformed templates are rejected unchanged.
func RewriteLegacy(text string) (string, int, error) {
	if _, err := Parse(text); err != nil {
		return "", 0, err
	}

	parts := strings.Split(text, "\n")
	changed := 0

	for i, part := range parts {
		body, cr := strings.CutSuffix(part, "\r")

		line, lineErr := parseLine(body)
		if lineErr != nil || !IsLegacy(line) {
			continue
		}

		parts[i] = Format(line)
		if cr {
			parts[i] += "\r"
		}
		changed++
	}

	return strings.Join(parts, "\n"), changed, nil
}

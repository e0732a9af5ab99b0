package envtemplate

import "strings"

// SecretNameFor is the store name a plain KEY=value line is imported under.
func SecretNameFor(key string) string {
	return key
}

// Templatize renders lines back to text with every Plain value replaced by a
// local reference named after its key. References are written with the
// canonical token, so the result is stable under repeated application.
func Templatize(lines []EnvLine) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, Format(line))
	}
	return out
}

// Format renders a single line. Plain lines become local references.
func Format(line EnvLine) string {
	switch l := line.(type) {
	case Passthrough:
		return l.Raw
	case Plain:
		return l.Key + "=" + LocalPrefix + SecretNameFor(l.Key)
	case LocalRef:
		return l.Key + "=" + LocalPrefix + l.SecretName
	case GlobalRef:
		return l.Key + "=" + GlobalPrefix + l.SecretName
	}
	return ""
}

// Render joins rendered lines into file contents, ending with a newline when
// trailingNewline is set.
func Render(lines []string, trailingNewline bool) string {
	out := strings.Join(lines, "\n")
	if trailingNewline && len(lines) > 0 {
		out += "\n"
	}
	return out
}

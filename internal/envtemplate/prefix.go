package envtemplate

import "strings"

const (
	// Scheme is the placeholder token written by this tool.
	Scheme = "en"

	// LegacyScheme is accepted on input as a synonym for Scheme.
	LegacyScheme = "ev"

	globalSegment = "global/"
)

// LocalPrefix is the canonical prefix for project store references.
var LocalPrefix = Scheme + "://"

// GlobalPrefix is the canonical prefix for global store references.
var GlobalPrefix = LocalPrefix + globalSegment

type scheme struct {
	prefix string
	global bool
	legacy bool
}

// schemes is ordered so that each global prefix is tried before the local
// prefix it extends.
var schemes = []scheme{
	{prefix: Scheme + "://" + globalSegment, global: true},
	{prefix: LegacyScheme + "://" + globalSegment, global: true, legacy: true},
	{prefix: Scheme + "://"},
	{prefix: LegacyScheme + "://", legacy: true},
}

// matchScheme returns the first scheme whose prefix starts value and the
// remainder after it.
func matchScheme(value string) (scheme, string, bool) {
	for _, s := range schemes {
		if rest, ok := strings.CutPrefix(value, s.prefix); ok {
			return s, rest, true
		}
	}
	return scheme{}, "", false
}

package envtemplate

// EnvLine is one classified line of a .env template. The concrete types are
// Passthrough, Plain, LocalRef and GlobalRef.
type EnvLine interface {
	envLine()
}

// Passthrough is a blank line or a comment, kept exactly as written.
type Passthrough struct {
	Raw string
}

// Plain is KEY=value with a literal value.
type Plain struct {
	Key   string
	Value string
}

// LocalRef is KEY=en://name, resolved from the project store.
type LocalRef struct {
	Key        string
	SecretName string
	// Legacy is true when the line used the ev:// token.
	Legacy bool
}

// GlobalRef is KEY=en://global/name, resolved from the global store.
type GlobalRef struct {
	Key        string
	SecretName string
	// Legacy is true when the line used the ev:// token.
	Legacy bool
}

func (Passthrough) envLine() {}
func (Plain) envLine()       {}
func (LocalRef) envLine()    {}
func (GlobalRef) envLine()   {}

// String keeps a literal value out of logs; it may be a secret awaiting import.
func (p Plain) String() string { return p.Key + "=<value>" }

// GoString redacts the value for %#v.
func (p Plain) GoString() string { return "envtemplate.Plain{Key:" + p.Key + "}" }

// KeyOf returns the variable name a line assigns, if any.
func KeyOf(line EnvLine) (string, bool) {
	switch l := line.(type) {
	case Plain:
		return l.Key, true
	case LocalRef:
		return l.Key, true
	case GlobalRef:
		return l.Key, true
	}
	return "", false
}

// IsLegacy reports whether a reference line used the legacy token.
func IsLegacy(line EnvLine) bool {
	switch l := line.(type) {
	case LocalRef:
		return l.Legacy
	case GlobalRef:
		return l.Legacy
	}
	return false
}

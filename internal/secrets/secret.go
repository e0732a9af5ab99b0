package secrets

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
)

const redacted = "[SECRET]"

// Secret is a thin wrapper around a byte slice holding a password or a secret
// value. It redacts itself under fmt, JSON and text encoding so that it cannot
// leak through logs or error messages by accident.
type Secret []byte

// FromString creates a Secret from a string. Callers should zero any
// intermediate []byte they create from user input.
func FromString(in string) Secret { return Secret([]byte(in)) }

// FromBytes creates a Secret holding a copy of in.
func FromBytes(in []byte) Secret {
	out := make([]byte, len(in))
	copy(out, in)
	return Secret(out)
}

// String redacts the secret for fmt.Print* convenience.
func (s Secret) String() string { return redacted }

// GoString redacts the secret for %#v.
func (s Secret) GoString() string { return redacted }

// Format implements fmt.Formatter so that every verb is redacted.
func (s Secret) Format(f fmt.State, _ rune) {
	_, _ = io.WriteString(f, redacted)
}

// MarshalJSON redacts secrets in JSON marshaling.
func (s Secret) MarshalJSON() ([]byte, error) { return json.Marshal(redacted) }

// MarshalText redacts secrets for text encoding.
func (s Secret) MarshalText() ([]byte, error) { return []byte(redacted), nil }

// Reveal returns the secret as a string. Use only at the point where the value
// must leave the process, such as building a child environment.
func (s Secret) Reveal() string { return string(s) }

// Bytes returns a copy of the underlying bytes. Callers are responsible for
// zeroing the copy when done.
func (s Secret) Bytes() []byte {
	out := make([]byte, len(s))
	copy(out, s)
	return out
}

// Len returns the length of the secret in bytes.
func (s Secret) Len() int { return len(s) }

// IsEmpty reports whether the secret has no content.
func (s Secret) IsEmpty() bool { return len(s) == 0 }

// Equal compares two secrets in constant time.
func (s Secret) Equal(other Secret) bool {
	return subtle.ConstantTimeCompare(s, other) == 1
}

// Zero overwrites the underlying byte slice with zeros.
func (s *Secret) Zero() {
	if s == nil || *s == nil {
		return
	}
	for i := range *s {
		(*s)[i] = 0
	}
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

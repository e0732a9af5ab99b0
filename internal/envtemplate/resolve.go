package envtemplate

import (
	kerrors "github.com/PolarWolf314/enject/internal/errors"
)

// SecretNotFoundError names a reference that could not be resolved.
type SecretNotFoundError struct {
	Name   string
	Global bool
}

// DisplayName is the reference as the user should see it; global names are
// prefixed so they cannot be mistaken for a missing local secret.
func (e *SecretNotFoundError) DisplayName() string {
	if e.Global {
		return globalSegment + e.Name
	}
	return e.Name
}

func (e *SecretNotFoundError) Error() string {
	return kerrors.ErrSecretNotFound.Error() + ": " + e.DisplayName()
}

func (e *SecretNotFoundError) Unwrap() error { return kerrors.ErrSecretNotFound }

// Resolve builds the environment a template describes. Plain lines contribute
// their literal value and references are looked up in local or global. Any
// unresolved reference fails the whole resolution and no map is returned.
// When a key is assigned more than once the last line wins.
func Resolve(lines []EnvLine, local, global map[string]string) (map[string]string, error) {
	env := make(map[string]string, len(lines))

	for _, line := range lines {
		switch l := line.(type) {
		case Plain:
			env[l.Key] = l.Value
		case LocalRef:
			value, ok := local[l.SecretName]
			if !ok {
				return nil, &SecretNotFoundError{Name: l.SecretName}
			}
			env[l.Key] = value
		case GlobalRef:
			value, ok := global[l.SecretName]
			if !ok {
				return nil, &SecretNotFoundError{Name: l.SecretName, Global: true}
			}
			env[l.Key] = value
		}
	}

	return env, nil
}

// References returns the distinct secret names a template refers to, in order
// of first appearance.
func References(lines []EnvLine) (local, global []string) {
	seenLocal := make(map[string]bool)
	seenGlobal := make(map[string]bool)

	for _, line := range lines {
		switch l := line.(type) {
		case LocalRef:
			if !seenLocal[l.SecretName] {
				seenLocal[l.SecretName] = true
				local = append(local, l.SecretName)
			}
		case GlobalRef:
			if !seenGlobal[l.SecretName] {
				seenGlobal[l.SecretName] = true
				global = append(global, l.SecretName)
			}
		}
	}

	return local, global
}

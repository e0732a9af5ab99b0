package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PolarWolf314/enject/internal/audit"
	"github.com/PolarWolf314/enject/internal/envtemplate"
	"github.com/PolarWolf314/enject/internal/secrets"
	"github.com/PolarWolf314/enject/internal/utils"
)

// ImportOptions configures the import workflow.
type ImportOptions struct {
	StoreOptions

	// Password unlocks the store.
	Password secrets.Secret

	// File is the plaintext .env file to import and rewrite. Relative paths
	// are resolved against the working directory.
	File string

	// DryRun reports what would be imported without changing the store or the file.
	DryRun bool
}

// ImportResult contains the outcome of an import operation.
type ImportResult struct {
	// Imported lists the secret names taken from plain values, in file order.
	Imported []string

	// Overwritten lists imported names that replaced an existing secret.
	Overwritten []string

	// File is the template that was rewritten.
	File string

	// DryRun indicates whether this was a dry-run (nothing modified).
	DryRun bool

	// Global indicates the values went to the global store.
	Global bool
}

// Import moves every plain KEY=value in File into the store under the name
// KEY and rewrites File in place so each such line becomes KEY=en://KEY, or
// KEY=en://global/KEY when importing into the global store.
// Comments, blank lines and existing references are kept; legacy references
// are upgraded to en://.
//
// The store is saved before the file is rewritten, so an interrupted import
// never loses a value.
//
// Returns ErrFileNotFound if File does not exist.
// Returns ErrMalformedTemplateLine if File cannot be parsed; nothing is changed.
// Returns ErrInvalidSecretName if a key cannot be used as a secret name.
// Returns ErrStoreNotInitialized if the store has no config.
// Returns ErrDecryptionFailed if the password is wrong.
func Import(ctx context.Context, opts ImportOptions) (*ImportResult, error) {
	path, err := filepath.Abs(opts.File)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", opts.File, err)
	}

	lines, err := envtemplate.ParseFile(path)
	if err != nil {
		return nil, err
	}

	var plains []envtemplate.Plain
	for _, line := range lines {
		if p, ok := line.(envtemplate.Plain); ok {
			if err := ValidateSecretName(envtemplate.SecretNameFor(p.Key)); err != nil {
				return nil, err
			}
			plains = append(plains, p)
		}
	}

	settings, err := opts.settings()
	if err != nil {
		return nil, err
	}

	opened, err := unlockStore(settings, opts.Password)
	if err != nil {
		return nil, err
	}
	defer opened.store.Lock()

	result := &ImportResult{File: path, DryRun: opts.DryRun, Global: settings.Global}
	seen := make(map[string]bool)

	for _, p := range plains {
		name := envtemplate.SecretNameFor(p.Key)

		existing, existed, err := opened.store.Get(name)
		if err != nil {
			return nil, err
		}
		existing.Zero()

		if !seen[name] {
			result.Imported = append(result.Imported, name)
			if existed {
				result.Overwritten = append(result.Overwritten, name)
			}
			seen[name] = true
		}

		if opts.DryRun {
			continue
		}

		value := secrets.FromString(p.Value)
		err = opened.store.Set(name, value)
		value.Zero()
		if err != nil {
			return nil, err
		}
	}

	if opts.DryRun {
		return result, nil
	}

	if len(plains) > 0 {
		if err := opened.store.Save(opts.Password); err != nil {
			return nil, err
		}
	}

	if err := rewriteTemplate(path, lines, settings.Global); err != nil {
		return nil, err
	}

	auditEntry := audit.LogWithUser(audit.OpImport)
	auditEntry.StoreID = opened.config.StoreID
	auditEntry.Global = settings.Global
	auditEntry.Keys = result.Imported
	auditEntry.Count = len(result.Imported)
	auditEntry.File = filepath.Base(path)
	audit.Log(settings.AuditPath(), auditEntry)

	return result, nil
}

// rewriteTemplate atomically replaces path with the templatized lines,
// keeping its permissions and whether it ended with a newline. With global
// set, plain values become global references.
func rewriteTemplate(path string, lines []envtemplate.EnvLine, global bool) error {
	original, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	perm := os.FileMode(0600)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	if global {
		lines = globalizePlains(lines)
	}

	content := envtemplate.Render(envtemplate.Templatize(lines), strings.HasSuffix(string(original), "\n"))
	if err := utils.WriteFileAtomic(path, []byte(content), perm); err != nil {
		return fmt.Errorf("rewriting %s: %w", path, err)
	}
	return nil
}

// globalizePlains returns a copy of lines with each Plain line turned into a
// reference to the global secret it was imported as.
func globalizePlains(lines []envtemplate.EnvLine) []envtemplate.EnvLine {
	out := make([]envtemplate.EnvLine, len(lines))
	for i, line := range lines {
		if p, ok := line.(envtemplate.Plain); ok {
			line = envtemplate.GlobalRef{Key: p.Key, SecretName: envtemplate.SecretNameFor(p.Key)}
		}
		out[i] = line
	}
	return out
}

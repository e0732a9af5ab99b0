package workflows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/PolarWolf314/enject/internal/configs"
	"github.com/PolarWolf314/enject/internal/envtemplate"
	kerrors "github.com/PolarWolf314/enject/internal/errors"
	"github.com/PolarWolf314/enject/internal/secrets"
)

// CheckStatus represents the result status of a health check.
type CheckStatus int

const (
	// CheckPass means the check passed.
	CheckPass CheckStatus = iota
	// CheckWarning means the check found a non-critical issue.
	CheckWarning
	// CheckError means the check found a critical issue.
	CheckError
)

// String returns a string representation of CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "pass"
	case CheckWarning:
		return "warning"
	case CheckError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for CheckStatus.
func (s CheckStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// CheckResult holds the result of a single health check.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// DoctorResult holds the complete result of the doctor workflow.
type DoctorResult struct {
	Checks      []CheckResult `json:"checks"`
	Summary     DoctorSummary `json:"summary"`
	Suggestions []string      `json:"suggestions,omitempty"`
}

// DoctorSummary holds counts of checks by status.
type DoctorSummary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

// DoctorOptions configures the doctor workflow.
type DoctorOptions struct {
	// ProjectRoot is the project to check. If empty, it is discovered from
	// the working directory.
	ProjectRoot string

	// EnvFile is the template to check. Defaults to .env.
	EnvFile string

	// GlobalDir overrides the global store location.
	GlobalDir string
}

// doctorEnv is what the individual checks inspect.
type doctorEnv struct {
	settings  *configs.StoreSettings
	envPath   string
	globalDir string

	// lines is nil when the template is missing or malformed.
	lines []envtemplate.EnvLine
}

// Doctor runs health checks on the project store and template. It never
// needs a password and never reads secret values.
//
// The doctor workflow checks:
//   - Store configuration validity
//   - Store file presence and structure
//   - Store file permissions
//   - Leftover legacy .enveil directory
//   - Template syntax
//   - Legacy ev:// references
//   - Plaintext values that could be imported
//   - Global store availability when the template needs it
func Doctor(ctx context.Context, opts DoctorOptions) (*DoctorResult, error) {
	settings, err := configs.ProjectSettings(opts.ProjectRoot)
	if err != nil {
		return nil, err
	}

	envPath := opts.EnvFile
	if envPath == "" {
		envPath = DefaultEnvFile
	}
	if !filepath.IsAbs(envPath) {
		envPath = filepath.Join(settings.Root, envPath)
	}

	env := &doctorEnv{settings: settings, envPath: envPath, globalDir: opts.GlobalDir}
	if lines, err := envtemplate.ParseFile(envPath); err == nil {
		env.lines = lines
	}

	checks := []func(*doctorEnv) CheckResult{
		checkStoreConfig,
		checkStoreFile,
		checkStorePermissions,
		checkLegacyDirectory,
		checkTemplateSyntax,
		checkLegacyReferences,
		checkPlaintextValues,
		checkGlobalStore,
	}

	var results []CheckResult
	for _, check := range checks {
		results = append(results, check(env))
	}

	summary := calculateDoctorSummary(results)

	// Collect suggestions (deduplicated).
	var suggestions []string
	seen := make(map[string]bool)
	for _, result := range results {
		if result.Suggestion != "" && result.Status != CheckPass && !seen[result.Suggestion] {
			suggestions = append(suggestions, result.Suggestion)
			seen[result.Suggestion] = true
		}
	}

	return &DoctorResult{
		Checks:      results,
		Summary:     summary,
		Suggestions: suggestions,
	}, nil
}

// checkStoreConfig checks that config.toml exists and is valid.
func checkStoreConfig(env *doctorEnv) CheckResult {
	_, err := configs.Read(env.settings.Dir)
	switch {
	case errors.Is(err, kerrors.ErrStoreNotInitialized):
		return CheckResult{
			Name:       "Store configuration",
			Status:     CheckError,
			Message:    "No store found in this project",
			Suggestion: "Run 'enject init' to create a store",
		}
	case err != nil:
		return CheckResult{
			Name:       "Store configuration",
			Status:     CheckError,
			Message:    fmt.Sprintf("config.toml is invalid: %v", err),
			Suggestion: "Restore config.toml from version control or a backup",
		}
	}

	return CheckResult{
		Name:    "Store configuration",
		Status:  CheckPass,
		Message: "config.toml is valid",
	}
}

// checkStoreFile checks that the encrypted store exists and can hold a nonce.
func checkStoreFile(env *doctorEnv) CheckResult {
	info, err := os.Stat(env.settings.StorePath())
	if os.IsNotExist(err) {
		return CheckResult{
			Name:       "Store file",
			Status:     CheckWarning,
			Message:    "Store file not found; the store is empty",
			Suggestion: "Run 'enject set <name>' to add a secret",
		}
	}
	if err != nil {
		return CheckResult{
			Name:       "Store file",
			Status:     CheckError,
			Message:    fmt.Sprintf("Failed to stat store file: %v", err),
			Suggestion: "Check that the store file is accessible",
		}
	}

	if info.Size() < secrets.NonceSize {
		return CheckResult{
			Name:       "Store file",
			Status:     CheckError,
			Message:    fmt.Sprintf("Store file is truncated (%d bytes)", info.Size()),
			Suggestion: "Restore the store file from a backup",
		}
	}

	return CheckResult{
		Name:    "Store file",
		Status:  CheckPass,
		Message: "Store file is present",
	}
}

// checkStorePermissions checks that the store is only readable by its owner.
func checkStorePermissions(env *doctorEnv) CheckResult {
	if runtime.GOOS == "windows" {
		return CheckResult{
			Name:    "Store permissions",
			Status:  CheckPass,
			Message: "Permission check skipped on Windows",
		}
	}

	path := env.settings.StorePath()
	info, err := os.Stat(path)
	if err != nil {
		return CheckResult{
			Name:    "Store permissions",
			Status:  CheckPass,
			Message: "No store file to check",
		}
	}

	mode := info.Mode().Perm()
	if mode&0077 != 0 {
		return CheckResult{
			Name:       "Store permissions",
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Store file has insecure permissions (%04o)", mode),
			Suggestion: fmt.Sprintf("Run 'chmod 600 %s' to fix permissions", path),
		}
	}

	return CheckResult{
		Name:    "Store permissions",
		Status:  CheckPass,
		Message: fmt.Sprintf("Store file has correct permissions (%04o)", mode),
	}
}

// checkLegacyDirectory checks for a store still in the pre-rename directory.
func checkLegacyDirectory(env *doctorEnv) CheckResult {
	if env.settings.Legacy {
		return CheckResult{
			Name:       "Store directory",
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Store is in the legacy %s directory", configs.LegacyDirName),
			Suggestion: "Run 'enject migrate' to move it to .enject",
		}
	}

	return CheckResult{
		Name:    "Store directory",
		Status:  CheckPass,
		Message: fmt.Sprintf("Store uses %s", configs.DirName),
	}
}

// checkTemplateSyntax checks that the template parses.
func checkTemplateSyntax(env *doctorEnv) CheckResult {
	_, err := envtemplate.ParseFile(env.envPath)
	switch {
	case errors.Is(err, kerrors.ErrFileNotFound):
		return CheckResult{
			Name:       "Template",
			Status:     CheckWarning,
			Message:    fmt.Sprintf("%s not found", filepath.Base(env.envPath)),
			Suggestion: "Create a .env with en:// references, or run 'enject import <file>'",
		}
	case err != nil:
		return CheckResult{
			Name:       "Template",
			Status:     CheckError,
			Message:    err.Error(),
			Suggestion: "Fix the line so it reads KEY=VALUE",
		}
	}

	return CheckResult{
		Name:    "Template",
		Status:  CheckPass,
		Message: fmt.Sprintf("%s parses cleanly", filepath.Base(env.envPath)),
	}
}

// checkLegacyReferences checks for ev:// references.
func checkLegacyReferences(env *doctorEnv) CheckResult {
	if n := envtemplate.CountLegacy(env.lines); n > 0 {
		return CheckResult{
			Name:       "Reference syntax",
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Found %d legacy ev:// reference(s)", n),
			Suggestion: "Run 'enject migrate' to rewrite them as en://",
		}
	}

	return CheckResult{
		Name:    "Reference syntax",
		Status:  CheckPass,
		Message: "No legacy references",
	}
}

// checkPlaintextValues checks for literal values that could be moved into the store.
func checkPlaintextValues(env *doctorEnv) CheckResult {
	plain := 0
	for _, line := range env.lines {
		if p, ok := line.(envtemplate.Plain); ok && p.Value != "" {
			plain++
		}
	}

	if plain > 0 {
		return CheckResult{
			Name:       "Plaintext values",
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Found %d literal value(s) in %s", plain, filepath.Base(env.envPath)),
			Suggestion: fmt.Sprintf("Run 'enject import %s' if any of them are secrets", filepath.Base(env.envPath)),
		}
	}

	return CheckResult{
		Name:    "Plaintext values",
		Status:  CheckPass,
		Message: "Template contains no literal values",
	}
}

// checkGlobalStore checks that global references have a global store to resolve against.
func checkGlobalStore(env *doctorEnv) CheckResult {
	_, global := envtemplate.References(env.lines)
	if len(global) == 0 {
		return CheckResult{
			Name:    "Global store",
			Status:  CheckPass,
			Message: "Template does not use the global store",
		}
	}

	settings, err := configs.GlobalSettings(env.globalDir)
	if err != nil {
		return CheckResult{
			Name:       "Global store",
			Status:     CheckError,
			Message:    fmt.Sprintf("Cannot locate global store: %v", err),
			Suggestion: "Set ENJECT_GLOBAL_DIR to the global store directory",
		}
	}

	if _, err := configs.Read(settings.Dir); err != nil {
		return CheckResult{
			Name:       "Global store",
			Status:     CheckError,
			Message:    fmt.Sprintf("Template uses %d global reference(s) but the global store is unavailable", len(global)),
			Suggestion: "Run 'enject init --global' to create the global store",
		}
	}

	return CheckResult{
		Name:    "Global store",
		Status:  CheckPass,
		Message: "Global store is configured",
	}
}

// calculateDoctorSummary calculates the counts of checks by status.
func calculateDoctorSummary(results []CheckResult) DoctorSummary {
	var summary DoctorSummary
	for _, result := range results {
		switch result.Status {
		case CheckPass:
			summary.Passed++
		case CheckWarning:
			summary.Warnings++
		case CheckError:
			summary.Errors++
		}
	}
	return summary
}

// Package workflows provides high-level orchestration for enject commands.
//
// Workflows coordinate the packages below them (configs, secrets,
// envtemplate, runner, audit) to implement complete user-facing features.
// Each workflow handles a single command's business logic, independent of CLI
// concerns like flag parsing, password prompts, spinners, and output
// formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Prompts for passwords and secret values
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Locating the project or global store
//   - Validating prerequisites and input
//   - Performing the core operation
//   - Recording audit trail entries
//
// # Available Workflows
//
// Each command has a corresponding workflow:
//
//   - Init: Creates an empty project or global store
//   - Set: Stores a secret value
//   - Delete: Removes a secret
//   - List: Lists secret names
//   - Run: Resolves a template and runs a command with the result
//   - Import: Moves plaintext values into the store and templatizes the file
//   - Rotate: Re-encrypts a store under a new password
//   - MigrateLegacy: Upgrades .enveil and ev:// to .enject and en://
//   - Log: Reads the audit log
//   - Doctor: Runs health checks
//
// # Secrets
//
// Passwords and values are passed in as secrets.Secret and are owned by the
// caller, which zeroes them afterwards. Workflows lock every store they
// unlock before returning.
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching. Use errors.Is() to check for specific error conditions:
//
//	result, err := workflows.Run(ctx, opts)
//	if errors.Is(err, kerrors.ErrSecretNotFound) {
//	    // Tell the user which reference is missing
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
// Run passes it to the child process, which is killed if it is cancelled.
package workflows

// Package audit provides audit trail logging for enject operations.
//
// Every operation that touches a store (init, set, delete, import, run,
// rotate, migrate) is recorded in that store's audit log, so a user can see
// when secrets were changed or injected and by whom.
//
// # Log Format
//
// The audit log is stored as JSON Lines (one JSON object per line) next to the
// store it describes:
//
//	.enject/audit.jsonl
//
// Each entry contains:
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - Local username and hostname
//   - Operation name and store UUID
//   - Operation-specific details (secret names, counts, file names)
//
// Secret values and passwords are never recorded. For run, only the program
// name is kept, because arguments may contain sensitive data.
//
// # Usage
//
//	entry := audit.LogWithUser(audit.OpSet)
//	entry.Keys = []string{name}
//	audit.Log(settings.AuditPath(), entry)
//
// # Failure Handling
//
// Audit logging is best-effort. If logging fails (permissions, disk full,
// etc.), the operation continues without error.
package audit

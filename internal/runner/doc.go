// Package runner starts the child process that receives resolved secrets.
//
// The resolved variables are layered over the inherited environment, the
// child shares the parent's standard streams, and its exit code is returned
// so the CLI can exit with the same status. Secrets exist only in the child's
// environment; nothing is written to disk.
package runner

// Package utils provides small filesystem, terminal and system helpers for enject.
//
// # Filesystem
//
// FindProjectRoot walks up from the working directory to the nearest directory
// holding a store directory. WriteFileAtomic replaces a file through a synced
// temporary file and a rename, so an interrupted write never leaves a torn file.
//
// # Terminal
//
// ReadPassword reads a password with echo disabled, falling back to the
// controlling TTY when stdin is a pipe. Passwords are returned as byte slices
// so that callers can Wipe them when done.
//
// # System
//
// GetUsername and GetHostname identify the local user for the audit log.
package utils

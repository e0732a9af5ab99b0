// Package envtemplate parses .env templates and resolves their secret references.
//
// A template is an ordinary .env file in which some values are placeholders:
//
//	# project store
//	DATABASE_URL=en://db_url
//	# global store
//	API_TOKEN=en://global/api_token
//	# literal
//	LOG_LEVEL=debug
//
// Comments must sit on their own line. Everything after the first '=' is the
// value, so a trailing "# note" becomes part of the value or secret name.
//
// The ev:// token from earlier releases is accepted everywhere en:// is.
//
// Parse classifies each line as Passthrough, Plain, LocalRef or GlobalRef.
// Resolve turns the lines into a flat environment map using the decrypted
// stores. Templatize is the inverse used by import: every literal becomes a
// reference named after its key.
//
// Everything here is pure; reading files, prompting and rewriting templates on
// disk belong to the callers.
package envtemplate

// Package secrets implements the password-protected encrypted store.
//
// # Key Derivation
//
// DeriveKey stretches the store password with Argon2id using a per-store
// 32-byte salt and the cost parameters recorded in config.toml. The 32-byte
// result is held in a memguard locked buffer and destroyed after a single
// encrypt or decrypt.
//
// # Store File
//
// The store file is the 12-byte AES-GCM nonce followed by the ciphertext of a
// JSON object mapping secret names to values:
//
//	nonce (12) || AES-256-GCM(key, nonce, {"name":"value",...})
//
// There is no header; the KDF parameters and salt live in config.toml. A new
// nonce is drawn for every save and the file is replaced atomically, so a
// crash leaves either the old or the new store.
//
// # Secret Handling
//
// Passwords and values travel as Secret, which redacts itself under fmt and
// encoding and can be zeroed in place. Decrypted plaintext buffers are wiped
// once parsed. Errors name keys and files only, never values.
package secrets

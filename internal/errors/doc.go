// Package errors provides typed error values for enject.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Store errors: store state and configuration (ErrStoreNotInitialized, ErrCorruptStore)
//   - Crypto errors: key derivation and AEAD failures (ErrDecryptionFailed, ErrInvalidKdfParams)
//   - Template errors: parsing and resolution (ErrMalformedTemplateLine, ErrSecretNotFound)
//   - Input errors: user-supplied values (ErrEmptyPassword, ErrPasswordMismatch)
//
// # Usage
//
// Wrap a sentinel with detail when returning it:
//
//	return fmt.Errorf("%w: store file too short to contain a nonce", kerrors.ErrCorruptStore)
//
// Handle errors in the CLI layer:
//
//	if errors.Is(err, kerrors.ErrDecryptionFailed) {
//	    // Ask the user to retry with the right password
//	}
//
// None of these errors ever carry secret values. Detail strings name keys,
// files and line numbers only.
package errors

package crypto

import "errors"

var (
	// ErrInvalidSalt is returned by DeriveKey when the salt has the wrong
	// length. It is the only input validation failure: secret content is
	// never inspected.
	ErrInvalidSalt = errors.New("invalid salt length")

	// ErrAuthenticationFailed is returned by Decrypt on a GCM tag mismatch.
	// It means either a wrong vault key (wrong master secret) or a tampered
	// blob, and must surface to the caller — never be retried with the
	// same key.
	ErrAuthenticationFailed = errors.New("vault authentication failed")

	// ErrUnsupportedVersion is returned by Decrypt when the envelope
	// version tag is unknown. The blob is never best-effort parsed.
	ErrUnsupportedVersion = errors.New("unsupported vault format version")
)

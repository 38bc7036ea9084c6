package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HashCredential computes an HMAC-SHA256 digest of the client-supplied
// login credential under the server's secret hash key and returns it hex
// encoded. The server stores and compares only this value, so a database
// leak exposes neither the credential nor anything derivable toward the
// vault encryption key.
func HashCredential(credential, hashKey string) string {
	h := hmac.New(sha256.New, []byte(hashKey))
	h.Write([]byte(credential))
	return hex.EncodeToString(h.Sum(nil))
}

// CredentialsEqual compares two hex-encoded credential hashes in constant
// time.
func CredentialsEqual(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}

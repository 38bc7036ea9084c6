// Package generator produces random passwords and estimates the strength of
// existing ones. It is a pure client-side helper: nothing here touches key
// material, storage, or the network.
package generator

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

// Character classes a generated password may draw from.
const (
	lowercase = "abcdefghijklmnopqrstuvwxyz"
	uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits    = "0123456789"
	symbols   = "!@#$%^&*()_+-=[]{}|;:,.<>?"

	// ambiguous are characters easy to confuse when read or typed by hand.
	ambiguous = "0Ol1I"
)

// Length bounds accepted by Generate.
const (
	MinLength = 4
	MaxLength = 128

	// DefaultLength matches the generator dialog's slider default.
	DefaultLength = 16
)

// ErrInvalidLength is returned when the requested length is outside
// [MinLength, MaxLength].
var ErrInvalidLength = errors.New("password length out of range")

// Options selects the alphabets a password is drawn from. The zero value
// selects nothing; Generate then falls back to letters and digits.
type Options struct {
	Lowercase bool
	Uppercase bool
	Digits    bool
	Symbols   bool

	// ExcludeAmbiguous drops characters that are easily misread (0/O, 1/l/I)
	// from the selected alphabets.
	ExcludeAmbiguous bool
}

// DefaultOptions enables every character class, the strongest selection for
// a given length.
func DefaultOptions() Options {
	return Options{Lowercase: true, Uppercase: true, Digits: true, Symbols: true}
}

// Generate draws length characters uniformly from the alphabets selected in
// opts using the OS CSPRNG. Every character is drawn independently; no class
// is guaranteed to appear.
func Generate(length int, opts Options) (string, error) {
	if length < MinLength || length > MaxLength {
		return "", ErrInvalidLength
	}

	charset := buildCharset(opts)

	var out strings.Builder
	out.Grow(length)
	max := big.NewInt(int64(len(charset)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out.WriteByte(charset[n.Int64()])
	}
	return out.String(), nil
}

func buildCharset(opts Options) string {
	var charset string
	if opts.Lowercase {
		charset += lowercase
	}
	if opts.Uppercase {
		charset += uppercase
	}
	if opts.Digits {
		charset += digits
	}
	if opts.Symbols {
		charset += symbols
	}
	if charset == "" {
		charset = lowercase + uppercase + digits
	}

	if opts.ExcludeAmbiguous {
		var filtered strings.Builder
		for i := 0; i < len(charset); i++ {
			if !strings.ContainsRune(ambiguous, rune(charset[i])) {
				filtered.WriteByte(charset[i])
			}
		}
		charset = filtered.String()
	}
	return charset
}

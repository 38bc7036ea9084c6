package utils

import "github.com/google/uuid"

// UUIDGenerator produces entry and category identifiers. UUIDv7 keeps ids
// roughly time-ordered; on the rare v7 generation failure it falls back to
// a random v4.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}

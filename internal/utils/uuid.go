package utils

import "github.com/google/uuid"

// UUIDGenerator produces time-ordered UUIDv7 identifiers. Ids generated on
// one device sort by creation time, which keeps event ids roughly ordered in
// the log.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a new UUIDv7, or a random UUIDv4 when the clock source
// fails.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}

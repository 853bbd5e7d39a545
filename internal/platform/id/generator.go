package id

import (
	"github.com/google/uuid"
)

// Generator creates opaque IDs for request correlation.
type Generator interface {
	NewID() (string, error)
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewID returns a random (v4) UUID in its canonical string form.
func (g *UUIDGenerator) NewID() (string, error) {
	v, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// Valid reports whether raw is a well-formed UUID. Callers use it to decide
// whether an inbound X-Request-ID can be trusted as-is.
func Valid(raw string) bool {
	if raw == "" {
		return false
	}
	_, err := uuid.Parse(raw)
	return err == nil
}

package task

import (
	"fmt"

	"github.com/google/uuid"
)

// IDGenerator hands out task ids.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator generates time-ordered UUIDv7 ids.
type UUIDGenerator struct{}

// NewID returns a new UUIDv7 string.
func (UUIDGenerator) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SequenceGenerator returns Prefix followed by 1, 2, 3... Useful wherever ids
// must be predictable.
type SequenceGenerator struct {
	Prefix string
	n      int
}

// NewID returns the next id in the sequence.
func (g *SequenceGenerator) NewID() string {
	g.n++
	return fmt.Sprintf("%s%d", g.Prefix, g.n)
}

// ShortID returns the first 8 characters of id, for display.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

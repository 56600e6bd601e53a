package changelog

import (
	"fmt"
	"time"
)

// IDGenerator mints changeset identifiers from a run-scoped timestamp
// and a sequential counter starting at 1. The timestamp is captured once
// at construction, never per changeset, so IDs within one run share a
// common sortable stem.
//
// IDGenerator is not safe for concurrent use; the converter runs a
// single pass and never needs it to be.
type IDGenerator struct {
	prefix    string
	timestamp string
	seq       int
}

// NewIDGenerator returns a generator stamped with now. The prefix may be
// empty.
func NewIDGenerator(prefix string, now time.Time) *IDGenerator {
	return &IDGenerator{
		prefix:    prefix,
		timestamp: now.Format("20060102150405"),
	}
}

// Next returns the next identifier, e.g. "seed-20240131120000-3".
func (g *IDGenerator) Next() string {
	g.seq++
	if g.prefix == "" {
		return fmt.Sprintf("%s-%d", g.timestamp, g.seq)
	}
	return fmt.Sprintf("%s-%s-%d", g.prefix, g.timestamp, g.seq)
}

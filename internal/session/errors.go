// Package session implements the reorder exercise state machine: a fixed set
// of cards whose content is rearranged by pairwise swaps, evaluated against a
// reference order, and frozen once feedback is shown.
//
// A Session is owned by exactly one caller at a time. Nothing in this package
// locks; adapters that receive concurrent events must serialize them.
package session

import (
	"errors"
	"fmt"

	"github.com/katrinawoods/rsc2/internal/model"
)

// ErrConfiguration reports seed data that cannot form a valid session:
// an empty or misaligned reference order, or missing or duplicate card IDs.
var ErrConfiguration = errors.New("invalid session configuration")

func configError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// ValidateSeed checks that seed can build a session.
func ValidateSeed(seed model.Seed) error {
	if len(seed.InitialOrder) == 0 {
		return configError("initial order is empty")
	}
	if len(seed.InitialOrder) != len(seed.CorrectOrder) {
		return configError("initial order has %d cards but correct order has %d",
			len(seed.InitialOrder), len(seed.CorrectOrder))
	}
	seen := make(map[model.CardID]int, len(seed.InitialOrder))
	for i, c := range seed.InitialOrder {
		if c.ID == "" {
			return configError("card at position %d has no id", i)
		}
		if prev, dup := seen[c.ID]; dup {
			return configError("card id %q used at positions %d and %d", c.ID, prev, i)
		}
		seen[c.ID] = i
	}
	return nil
}

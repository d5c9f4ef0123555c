package loader

import (
	"math/rand/v2"

	"github.com/katrinawoods/rsc2/internal/model"
)

// NewRand returns a generator for Shuffle. A zero seed picks a random one.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Shuffle returns a uniformly permuted copy of cards.
func Shuffle(cards []model.SeedCard, r *rand.Rand) []model.SeedCard {
	out := append([]model.SeedCard(nil), cards...)
	r.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// Presentation returns seed with its initial order shuffled by r. The
// correct order is never touched.
func Presentation(seed model.Seed, r *rand.Rand) model.Seed {
	return model.Seed{
		InitialOrder: Shuffle(seed.InitialOrder, r),
		CorrectOrder: append([]string(nil), seed.CorrectOrder...),
	}
}

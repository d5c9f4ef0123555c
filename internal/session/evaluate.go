package session

import (
	"github.com/katrinawoods/rsc2/internal/model"
	"github.com/katrinawoods/rsc2/internal/normalize"
)

// Result is the outcome of comparing an arrangement with the reference order.
type Result struct {
	Verdicts []model.Verdict `json:"verdicts"`
	AllMatch bool            `json:"all_match"`
}

// Mismatches returns the positions whose verdict is Mismatch.
func (r Result) Mismatches() []int {
	var out []int
	for i, v := range r.Verdicts {
		if v != model.Match {
			out = append(out, i)
		}
	}
	return out
}

// Evaluate compares the normalized content at each position with the
// normalized reference value at the same position. Comparison is exact after
// normalization. It never modifies its inputs.
func Evaluate(cards []model.Card, reference []string) (Result, error) {
	if len(cards) != len(reference) {
		return Result{}, configError("%d cards but %d reference values", len(cards), len(reference))
	}

	res := Result{Verdicts: make([]model.Verdict, len(cards)), AllMatch: true}
	for i, c := range cards {
		if normalize.Equal(c.Content, reference[i]) {
			res.Verdicts[i] = model.Match
			continue
		}
		res.Verdicts[i] = model.Mismatch
		res.AllMatch = false
	}
	return res, nil
}

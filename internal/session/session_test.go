package session

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/katrinawoods/rsc2/internal/model"
)

func scenarioSeed() model.Seed {
	return model.Seed{
		InitialOrder: []model.SeedCard{
			{ID: "1", Content: "B"},
			{ID: "2", Content: "A"},
			{ID: "3", Content: "C"},
		},
		CorrectOrder: []string{"A", "B", "C"},
	}
}

func newTestSession(t *testing.T, seed model.Seed) *Session {
	t.Helper()
	s, err := New(seed, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return s
}

func contents(s *Session) []string {
	var out []string
	for _, c := range s.Cards() {
		out = append(out, c.Content)
	}
	return out
}

func TestScenario_SwapThenCheck(t *testing.T) {
	s := newTestSession(t, scenarioSeed())

	assert.Equal(t, Picked, s.Activate("1"))
	assert.Equal(t, Swapped, s.Activate("2"))
	assert.Equal(t, []string{"A", "B", "C"}, contents(s))

	_, holding := s.Holding()
	assert.False(t, holding)

	res, err := s.Check()
	require.NoError(t, err)
	assert.True(t, res.AllMatch)

	v := s.View()
	assert.True(t, v.FeedbackMode)
	assert.Equal(t, MessageSuccess, v.Message)
	for _, c := range v.Cards {
		assert.Equal(t, model.MarkerMatch, c.Marker)
		assert.False(t, c.Focusable)
	}
}

func TestScenario_CheckWithoutSwap(t *testing.T) {
	s := newTestSession(t, scenarioSeed())

	res, err := s.Check()
	require.NoError(t, err)

	want := []model.Verdict{model.Mismatch, model.Mismatch, model.Match}
	if diff := cmp.Diff(want, res.Verdicts); diff != "" {
		t.Errorf("verdicts mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, res.AllMatch)
	assert.Equal(t, []int{0, 1}, res.Mismatches())
	assert.Equal(t, MessageFailure, s.View().Message)
}

func TestScenario_ReactivateHeldCard(t *testing.T) {
	s := newTestSession(t, scenarioSeed())

	assert.Equal(t, Picked, s.Activate("1"))
	held, holding := s.Holding()
	assert.True(t, holding)
	assert.Equal(t, model.CardID("1"), held)
	assert.True(t, s.View().Cards[0].Selected)

	assert.Equal(t, Released, s.Activate("1"))
	_, holding = s.Holding()
	assert.False(t, holding)
	assert.Equal(t, []string{"B", "A", "C"}, contents(s))
	assert.False(t, s.View().Cards[0].Selected)
}

func TestScenario_ActivateAfterCheck(t *testing.T) {
	s := newTestSession(t, scenarioSeed())
	_, err := s.Check()
	require.NoError(t, err)

	before := s.View()
	for _, id := range []model.CardID{"1", "2", "3", "2", "1"} {
		assert.Equal(t, Ignored, s.Activate(id))
	}
	if diff := cmp.Diff(before, s.View()); diff != "" {
		t.Errorf("view changed after feedback (-before +after):\n%s", diff)
	}
}

func TestFeedbackFreezesHeldSelection(t *testing.T) {
	s := newTestSession(t, scenarioSeed())
	s.Activate("3")
	_, err := s.Check()
	require.NoError(t, err)

	assert.Equal(t, Ignored, s.Activate("1"))
	held, holding := s.Holding()
	assert.True(t, holding)
	assert.Equal(t, model.CardID("3"), held)
	assert.Equal(t, []string{"B", "A", "C"}, contents(s))
}

func TestActivateUnknownCardIsIgnored(t *testing.T) {
	s := newTestSession(t, scenarioSeed())

	assert.Equal(t, Ignored, s.Activate("nope"))
	_, holding := s.Holding()
	assert.False(t, holding)

	s.Activate("1")
	assert.Equal(t, Ignored, s.Activate("nope"))
	held, holding := s.Holding()
	assert.True(t, holding, "unknown partner must not drop the selection")
	assert.Equal(t, model.CardID("1"), held)
	assert.Equal(t, []string{"B", "A", "C"}, contents(s))
}

func TestActivateAt(t *testing.T) {
	s := newTestSession(t, scenarioSeed())

	assert.Equal(t, Picked, s.ActivateAt(0))
	assert.Equal(t, Swapped, s.ActivateAt(1))
	assert.Equal(t, Ignored, s.ActivateAt(3))
	assert.Equal(t, Ignored, s.ActivateAt(-1))
	assert.Equal(t, []string{"A", "B", "C"}, contents(s))
}

func TestSwapKeepsIdentityAndPosition(t *testing.T) {
	s := newTestSession(t, scenarioSeed())
	s.Activate("1")
	s.Activate("3")

	cards := s.Cards()
	assert.Equal(t, model.Card{ID: "1", Content: "C", Position: 0}, cards[0])
	assert.Equal(t, model.Card{ID: "3", Content: "B", Position: 2}, cards[2])
}

func TestCheckIsRepeatable(t *testing.T) {
	s := newTestSession(t, scenarioSeed())

	first, err := s.Check()
	require.NoError(t, err)
	firstView := s.View()

	second, err := s.Check()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, firstView, s.View())
}

func TestEvaluateDoesNotEnterFeedback(t *testing.T) {
	s := newTestSession(t, scenarioSeed())

	_, err := s.Evaluate()
	require.NoError(t, err)
	assert.False(t, s.FeedbackMode())
	assert.Equal(t, Picked, s.Activate("1"))
}

func TestViewLabelsFollowContent(t *testing.T) {
	s := newTestSession(t, model.Seed{
		InitialOrder: []model.SeedCard{{ID: "a", Content: "<i>Second</i>"}, {ID: "b", Content: "First"}},
		CorrectOrder: []string{"First", "<em>Second</em>"},
	})
	s.Activate("a")
	s.Activate("b")

	v := s.View()
	assert.Equal(t, "Reference part: First", v.Cards[0].Label)
	assert.Equal(t, "Second", v.Cards[1].Text)
	assert.True(t, v.Cards[0].Focusable)

	res, err := s.Check()
	require.NoError(t, err)
	assert.True(t, res.AllMatch)
}

func TestNewRejectsBadSeeds(t *testing.T) {
	tests := []struct {
		name string
		seed model.Seed
	}{
		{"empty", model.Seed{}},
		{"length mismatch", model.Seed{
			InitialOrder: []model.SeedCard{{ID: "1", Content: "A"}},
			CorrectOrder: []string{"A", "B"},
		}},
		{"missing id", model.Seed{
			InitialOrder: []model.SeedCard{{ID: "1", Content: "A"}, {Content: "B"}},
			CorrectOrder: []string{"A", "B"},
		}},
		{"duplicate id", model.Seed{
			InitialOrder: []model.SeedCard{{ID: "1", Content: "A"}, {ID: "1", Content: "B"}},
			CorrectOrder: []string{"A", "B"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.seed)
			assert.Nil(t, s)
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestNewCopiesReference(t *testing.T) {
	seed := scenarioSeed()
	s := newTestSession(t, seed)
	seed.CorrectOrder[0] = "Z"

	res, err := s.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, model.Mismatch, res.Verdicts[0])
	assert.Equal(t, model.Mismatch, res.Verdicts[1])

	s.Activate("1")
	s.Activate("2")
	res, err = s.Evaluate()
	require.NoError(t, err)
	assert.True(t, res.AllMatch)
}

package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katrinawoods/rsc2/internal/model"
)

func cardsOf(contents ...string) []model.Card {
	out := make([]model.Card, len(contents))
	for i, c := range contents {
		out[i] = model.Card{ID: model.CardID(string(rune('a' + i))), Content: c, Position: i}
	}
	return out
}

func TestEvaluate_AllMatchIffEveryPositionMatches(t *testing.T) {
	reference := []string{"<p>Author.</p>", " (2020). ", "<i>Title</i>", "Publisher."}
	cards := cardsOf("Author.", "(2020).", "Title", "<span>Publisher.</span>")

	res, err := Evaluate(cards, reference)
	require.NoError(t, err)
	assert.True(t, res.AllMatch)
	assert.Empty(t, res.Mismatches())

	for i := range cards {
		changed := append([]model.Card(nil), cards...)
		changed[i].Content = "something else"

		res, err := Evaluate(changed, reference)
		require.NoError(t, err)
		assert.False(t, res.AllMatch)
		assert.Equal(t, []int{i}, res.Mismatches())
		assert.Equal(t, model.Mismatch, res.Verdicts[i])
	}
}

func TestEvaluate_ExactAfterTrim(t *testing.T) {
	res, err := Evaluate(cardsOf("title", "a  b", "<b>x</b>"), []string{"Title", "a b", " x "})
	require.NoError(t, err)
	assert.Equal(t, []model.Verdict{model.Mismatch, model.Mismatch, model.Match}, res.Verdicts)
}

func TestEvaluate_LineEndingsIgnoreMarkup(t *testing.T) {
	res, err := Evaluate(cardsOf("x\r\n<b>y</b>", "a\x00b"), []string{"x\r\ny", "<i>a</i>b"})
	require.NoError(t, err)
	assert.True(t, res.AllMatch)
}

func TestEvaluate_Idempotent(t *testing.T) {
	cards := cardsOf("B", "A", "C")
	reference := []string{"A", "B", "C"}

	first, err := Evaluate(cards, reference)
	require.NoError(t, err)
	second, err := Evaluate(cards, reference)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, cardsOf("B", "A", "C"), cards)
	assert.Equal(t, []string{"A", "B", "C"}, reference)
}

func TestEvaluate_LengthMismatch(t *testing.T) {
	_, err := Evaluate(cardsOf("A", "B"), []string{"A"})
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = Evaluate(cardsOf("A"), []string{"A", "B"})
	assert.ErrorIs(t, err, ErrConfiguration)
}

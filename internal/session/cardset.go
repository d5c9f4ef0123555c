package session

import "github.com/katrinawoods/rsc2/internal/model"

// CardSet is the ordered collection of cards on display. Its length and the
// identity at each position are fixed at construction.
type CardSet struct {
	cards []model.Card
	index map[model.CardID]int
}

// NewCardSet seeds a card set in the given order.
func NewCardSet(initial []model.SeedCard) (*CardSet, error) {
	cards := make([]model.Card, len(initial))
	index := make(map[model.CardID]int, len(initial))
	for i, c := range initial {
		if c.ID == "" {
			return nil, configError("card at position %d has no id", i)
		}
		if _, dup := index[c.ID]; dup {
			return nil, configError("duplicate card id %q", c.ID)
		}
		cards[i] = model.Card{ID: c.ID, Content: c.Content, Position: i}
		index[c.ID] = i
	}
	return &CardSet{cards: cards, index: index}, nil
}

// Len returns the number of cards.
func (s *CardSet) Len() int { return len(s.cards) }

// Cards returns a snapshot of the cards in display order.
func (s *CardSet) Cards() []model.Card {
	out := make([]model.Card, len(s.cards))
	copy(out, s.cards)
	return out
}

// Card returns the card with the given id.
func (s *CardSet) Card(id model.CardID) (model.Card, bool) {
	i, ok := s.index[id]
	if !ok {
		return model.Card{}, false
	}
	return s.cards[i], true
}

// At returns the card at a display position.
func (s *CardSet) At(pos int) (model.Card, bool) {
	if pos < 0 || pos >= len(s.cards) {
		return model.Card{}, false
	}
	return s.cards[pos], true
}

// Has reports whether id belongs to the set.
func (s *CardSet) Has(id model.CardID) bool {
	_, ok := s.index[id]
	return ok
}

// ExchangeContent swaps the content of cards a and b. IDs and positions stay
// put. Exchanging a card with itself changes nothing. It reports false, and
// changes nothing, if either id is unknown.
func (s *CardSet) ExchangeContent(a, b model.CardID) bool {
	i, ok := s.index[a]
	if !ok {
		return false
	}
	j, ok := s.index[b]
	if !ok {
		return false
	}
	s.cards[i].Content, s.cards[j].Content = s.cards[j].Content, s.cards[i].Content
	return true
}

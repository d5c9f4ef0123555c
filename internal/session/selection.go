package session

import (
	"go.uber.org/zap"

	"github.com/katrinawoods/rsc2/internal/model"
)

// Outcome describes what a single activation did.
type Outcome string

const (
	// Ignored means the event changed nothing: feedback is showing or the
	// card is unknown.
	Ignored Outcome = "ignored"
	// Picked means the card is now held.
	Picked Outcome = "picked"
	// Swapped means the held card and the activated card exchanged content.
	Swapped Outcome = "swapped"
	// Released means the held card was activated again and let go.
	Released Outcome = "released"
)

// gate reports whether interaction is locked.
type gate interface {
	Active() bool
}

// Selection tracks the at-most-one held card and runs the pick/swap protocol.
type Selection struct {
	cards   *CardSet
	locked  gate
	held    model.CardID
	holding bool
	log     *zap.Logger
}

func newSelection(cards *CardSet, locked gate, log *zap.Logger) *Selection {
	return &Selection{cards: cards, locked: locked, log: log}
}

// Activate handles a click, touch release or keyboard activation on card id.
func (c *Selection) Activate(id model.CardID) Outcome {
	if c.locked.Active() || !c.cards.Has(id) {
		c.log.Debug("activation ignored", zap.String("card", string(id)))
		return Ignored
	}

	if !c.holding {
		c.held, c.holding = id, true
		c.log.Debug("card picked", zap.String("card", string(id)))
		return Picked
	}

	held := c.held
	c.cards.ExchangeContent(held, id)
	c.held, c.holding = "", false
	if held == id {
		c.log.Debug("card released", zap.String("card", string(id)))
		return Released
	}
	c.log.Debug("cards swapped", zap.String("held", string(held)), zap.String("card", string(id)))
	return Swapped
}

// Holding returns the held card, if any.
func (c *Selection) Holding() (model.CardID, bool) {
	return c.held, c.holding
}

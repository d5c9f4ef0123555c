// Package model defines the core exercise and card data types.
package model

import "time"

// CardID identifies a card for the lifetime of a session.
type CardID string

// Card is one content item at a fixed position in the display order.
// Swapping moves Content between cards; ID and Position never change.
type Card struct {
	ID       CardID `json:"id"`
	Content  string `json:"content"`
	Position int    `json:"position"`
}

// SeedCard is an entry of the initial order as supplied by a loader.
type SeedCard struct {
	ID      CardID `json:"id"`
	Content string `json:"content"`
}

// Seed is the data a session is built from. InitialOrder is presented as
// given (already shuffled by the caller); CorrectOrder is the answer key.
type Seed struct {
	InitialOrder []SeedCard `json:"initialOrder"`
	CorrectOrder []string   `json:"correctOrder"`
}

// Exercise is a stored seed with addressing metadata.
type Exercise struct {
	ID           string     `json:"id"`
	NS           string     `json:"ns"`
	Key          string     `json:"key"`
	Title        string     `json:"title,omitempty"`
	InitialOrder []SeedCard `json:"initialOrder,omitempty"`
	CorrectOrder []string   `json:"correctOrder,omitempty"`
	Size         int        `json:"size"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Seed returns a copy of the exercise data suitable for seeding a session.
func (e *Exercise) Seed() Seed {
	initial := make([]SeedCard, len(e.InitialOrder))
	copy(initial, e.InitialOrder)
	correct := make([]string, len(e.CorrectOrder))
	copy(correct, e.CorrectOrder)
	return Seed{InitialOrder: initial, CorrectOrder: correct}
}

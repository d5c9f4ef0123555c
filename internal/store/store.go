// Package store provides the exercise storage interface and SQLite implementation.
package store

import (
	"context"
	"errors"

	"github.com/katrinawoods/rsc2/internal/model"
)

// ErrNotFound is returned when no exercise matches a lookup.
var ErrNotFound = errors.New("exercise not found")

// PutParams holds parameters for storing an exercise.
type PutParams struct {
	NS    string
	Key   string
	Title string
	Seed  model.Seed
}

// GetParams identifies an exercise by ID, or by namespace and key.
type GetParams struct {
	ID  string
	NS  string
	Key string
}

// ListParams holds parameters for listing exercises.
type ListParams struct {
	NS    string
	Limit int
}

// RmParams identifies the exercise to delete.
type RmParams struct {
	ID  string
	NS  string
	Key string
}

// Store defines the exercise storage interface.
type Store interface {
	// Put stores an exercise, replacing any exercise with the same ns/key.
	// The seed must be able to build a session.
	Put(ctx context.Context, p PutParams) (*model.Exercise, error)

	// Get retrieves an exercise with its card and answer orders.
	Get(ctx context.Context, p GetParams) (*model.Exercise, error)

	// List lists exercises newest first, without their orders.
	List(ctx context.Context, p ListParams) ([]model.Exercise, error)

	// Rm deletes an exercise.
	Rm(ctx context.Context, p RmParams) error

	// Close closes the store.
	Close() error
}

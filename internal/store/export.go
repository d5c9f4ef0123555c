package store

import (
	"context"

	"github.com/katrinawoods/rsc2/internal/model"
)

// ExportAll returns every exercise with its orders, optionally filtered by namespace.
func (s *SQLiteStore) ExportAll(ctx context.Context, ns string) ([]model.Exercise, error) {
	query := `SELECT id, ns, key, title, size, created_at FROM exercises`
	var args []interface{}
	if ns != "" {
		query += ` WHERE ns = ?`
		args = append(args, ns)
	}
	query += ` ORDER BY ns, key`

	exercises, err := s.queryExercises(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	for i := range exercises {
		if err := s.loadOrders(ctx, &exercises[i]); err != nil {
			return nil, err
		}
	}
	return exercises, nil
}

// Import stores exercises from an export, replacing any with the same ns/key.
func (s *SQLiteStore) Import(ctx context.Context, exercises []model.Exercise) (int, error) {
	imported := 0
	for _, e := range exercises {
		_, err := s.Put(ctx, PutParams{
			NS:    e.NS,
			Key:   e.Key,
			Title: e.Title,
			Seed:  e.Seed(),
		})
		if err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

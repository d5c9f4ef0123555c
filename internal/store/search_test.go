package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katrinawoods/rsc2/internal/model"
)

func TestSearch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Put(ctx, PutParams{NS: "apa", Key: "journal", Title: "Journal article", Seed: citationSeed()})
	require.NoError(t, err)
	_, err = s.Put(ctx, PutParams{NS: "recipes", Key: "bread", Seed: model.Seed{
		InitialOrder: []model.SeedCard{{ID: "1", Content: "Knead"}, {ID: "2", Content: "Mix flour"}},
		CorrectOrder: []string{"Mix flour", "Knead"},
	}})
	require.NoError(t, err)

	tests := []struct {
		name  string
		p     SearchParams
		count int
	}{
		{"by key", SearchParams{Query: "bread"}, 1},
		{"by title", SearchParams{Query: "article"}, 1},
		{"by card content", SearchParams{Query: "Knead"}, 1},
		{"matches both", SearchParams{Query: "i"}, 2},
		{"namespace filter", SearchParams{NS: "apa", Query: "i"}, 1},
		{"no results", SearchParams{Query: "javascript"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Search(ctx, tt.p)
			require.NoError(t, err)
			assert.Len(t, got, tt.count)
		})
	}
}

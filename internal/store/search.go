package store

import (
	"context"
	"strings"

	"github.com/katrinawoods/rsc2/internal/model"
)

// SearchParams holds parameters for searching exercises.
type SearchParams struct {
	NS    string
	Query string
	Limit int
}

// Search finds exercises whose key, title, card content or answer content
// contains the query substring.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]model.Exercise, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	query := "%" + p.Query + "%"
	where := []string{`(e.key LIKE ? OR e.title LIKE ?
		OR EXISTS (SELECT 1 FROM exercise_cards c WHERE c.exercise_id = e.id AND c.content LIKE ?)
		OR EXISTS (SELECT 1 FROM exercise_answers a WHERE a.exercise_id = e.id AND a.content LIKE ?))`}
	args := []interface{}{query, query, query, query}

	if p.NS != "" {
		where = append(where, "e.ns = ?")
		args = append(args, p.NS)
	}

	sql := `SELECT e.id, e.ns, e.key, e.title, e.size, e.created_at
		FROM exercises e
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY e.created_at DESC, e.id DESC
		LIMIT ?`
	args = append(args, limit)

	return s.queryExercises(ctx, sql, args...)
}

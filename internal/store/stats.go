package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath      string           `json:"db_path"`
	DBSizeBytes int64            `json:"db_size_bytes"`
	Exercises   int              `json:"exercises"`
	Cards       int              `json:"cards"`
	Namespaces  []NamespaceStats `json:"namespaces"`
}

// NamespaceStats holds per-namespace counts.
type NamespaceStats struct {
	NS        string `json:"ns"`
	Exercises int    `json:"exercises"`
	Cards     int    `json:"cards"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(size), 0) FROM exercises`).Scan(&st.Exercises, &st.Cards); err != nil {
		return nil, err
	}

	st.Namespaces, _ = s.ListNamespaces(ctx)
	return st, nil
}

// ListNamespaces returns every namespace with its exercise and card counts.
func (s *SQLiteStore) ListNamespaces(ctx context.Context) ([]NamespaceStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ns, COUNT(*), COALESCE(SUM(size), 0)
		FROM exercises GROUP BY ns ORDER BY COUNT(*) DESC, ns`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []NamespaceStats
	for rows.Next() {
		var ns NamespaceStats
		if err := rows.Scan(&ns.NS, &ns.Exercises, &ns.Cards); err != nil {
			return nil, err
		}
		out = append(out, ns)
	}
	return out, rows.Err()
}

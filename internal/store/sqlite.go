package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/katrinawoods/rsc2/internal/model"
	"github.com/katrinawoods/rsc2/internal/session"
)

const defaultNS = "default"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func newID() string {
	return ulid.Make().String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS exercises (
		id          TEXT PRIMARY KEY,
		ns          TEXT NOT NULL,
		key         TEXT NOT NULL,
		title       TEXT,
		size        INTEGER NOT NULL,
		created_at  TEXT NOT NULL,
		UNIQUE (ns, key)
	);
	CREATE INDEX IF NOT EXISTS idx_exercises_created ON exercises(created_at DESC);

	CREATE TABLE IF NOT EXISTS exercise_cards (
		exercise_id TEXT NOT NULL REFERENCES exercises(id) ON DELETE CASCADE,
		seq         INTEGER NOT NULL,
		card_id     TEXT NOT NULL,
		content     TEXT NOT NULL,
		PRIMARY KEY (exercise_id, seq),
		UNIQUE (exercise_id, card_id)
	);

	CREATE TABLE IF NOT EXISTS exercise_answers (
		exercise_id TEXT NOT NULL REFERENCES exercises(id) ON DELETE CASCADE,
		seq         INTEGER NOT NULL,
		content     TEXT NOT NULL,
		PRIMARY KEY (exercise_id, seq)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Put(ctx context.Context, p PutParams) (*model.Exercise, error) {
	ns := p.NS
	if ns == "" {
		ns = defaultNS
	}
	if strings.TrimSpace(p.Key) == "" {
		return nil, fmt.Errorf("key is required")
	}

	seed := model.Seed{
		InitialOrder: make([]model.SeedCard, len(p.Seed.InitialOrder)),
		CorrectOrder: append([]string(nil), p.Seed.CorrectOrder...),
	}
	for i, c := range p.Seed.InitialOrder {
		if c.ID == "" {
			c.ID = model.CardID(newID())
		}
		seed.InitialOrder[i] = c
	}
	if err := session.ValidateSeed(seed); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Replacing keeps the exercise ID stable for anything that refers to it.
	var id string
	err = tx.QueryRowContext(ctx, `SELECT id FROM exercises WHERE ns = ? AND key = ?`, ns, p.Key).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = newID()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO exercises (id, ns, key, title, size, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			id, ns, p.Key, p.Title, len(seed.InitialOrder), now.Format(time.RFC3339))
		if err != nil {
			return nil, fmt.Errorf("insert exercise: %w", err)
		}
	case err != nil:
		return nil, err
	default:
		_, err = tx.ExecContext(ctx,
			`UPDATE exercises SET title = ?, size = ?, created_at = ? WHERE id = ?`,
			p.Title, len(seed.InitialOrder), now.Format(time.RFC3339), id)
		if err != nil {
			return nil, fmt.Errorf("update exercise: %w", err)
		}
		for _, table := range []string{"exercise_cards", "exercise_answers"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE exercise_id = ?`, id); err != nil {
				return nil, fmt.Errorf("clear %s: %w", table, err)
			}
		}
	}

	for i, c := range seed.InitialOrder {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO exercise_cards (exercise_id, seq, card_id, content) VALUES (?, ?, ?, ?)`,
			id, i, string(c.ID), c.Content)
		if err != nil {
			return nil, fmt.Errorf("insert card: %w", err)
		}
	}
	for i, c := range seed.CorrectOrder {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO exercise_answers (exercise_id, seq, content) VALUES (?, ?, ?)`,
			id, i, c)
		if err != nil {
			return nil, fmt.Errorf("insert answer: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &model.Exercise{
		ID:           id,
		NS:           ns,
		Key:          p.Key,
		Title:        p.Title,
		InitialOrder: seed.InitialOrder,
		CorrectOrder: seed.CorrectOrder,
		Size:         len(seed.InitialOrder),
		CreatedAt:    now.Truncate(time.Second),
	}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, p GetParams) (*model.Exercise, error) {
	id, err := s.resolveID(ctx, p.ID, p.NS, p.Key)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, ns, key, title, size, created_at FROM exercises WHERE id = ?`, id)
	e, err := scanExercise(row)
	if err != nil {
		return nil, err
	}
	if err := s.loadOrders(ctx, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *SQLiteStore) loadOrders(ctx context.Context, e *model.Exercise) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT card_id, content FROM exercise_cards WHERE exercise_id = ? ORDER BY seq`, e.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var c model.SeedCard
		if err := rows.Scan(&c.ID, &c.Content); err != nil {
			rows.Close()
			return err
		}
		e.InitialOrder = append(e.InitialOrder, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT content FROM exercise_answers WHERE exercise_id = ? ORDER BY seq`, e.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return err
		}
		e.CorrectOrder = append(e.CorrectOrder, c)
	}
	return rows.Err()
}

func (s *SQLiteStore) List(ctx context.Context, p ListParams) ([]model.Exercise, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, ns, key, title, size, created_at FROM exercises`
	var args []interface{}
	if p.NS != "" {
		query += ` WHERE ns = ?`
		args = append(args, p.NS)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	return s.queryExercises(ctx, query, args...)
}

func (s *SQLiteStore) queryExercises(ctx context.Context, query string, args ...interface{}) ([]model.Exercise, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exercises []model.Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

func (s *SQLiteStore) Rm(ctx context.Context, p RmParams) error {
	id, err := s.resolveID(ctx, p.ID, p.NS, p.Key)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM exercises WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// resolveID finds the exercise ID for an ID or ns/key reference.
func (s *SQLiteStore) resolveID(ctx context.Context, id, ns, key string) (string, error) {
	var err error
	if id != "" {
		err = s.db.QueryRowContext(ctx, `SELECT id FROM exercises WHERE id = ?`, id).Scan(&id)
	} else {
		if ns == "" {
			ns = defaultNS
		}
		err = s.db.QueryRowContext(ctx, `SELECT id FROM exercises WHERE ns = ? AND key = ?`, ns, key).Scan(&id)
	}
	if errors.Is(err, sql.ErrNoRows) {
		if id != "" {
			return "", fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return "", fmt.Errorf("%w: %s/%s", ErrNotFound, ns, key)
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanExercise(row scanner) (model.Exercise, error) {
	var e model.Exercise
	var title sql.NullString
	var createdAt string

	if err := row.Scan(&e.ID, &e.NS, &e.Key, &title, &e.Size, &createdAt); err != nil {
		return e, err
	}
	e.Title = title.String
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return e, nil
}

package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/katalvlaran/aedificium/graph"
	"github.com/katalvlaran/aedificium/walk"
)

// Store is an open archive.
type Store struct {
	db *sql.DB
}

// Open opens or creates the archive at path and migrates its schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("archive: create dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("archive: open: %w", err)
	}
	// Pragmas are per connection; a single connection keeps them in force.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("archive: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("archive: migration: %w", err)
	}

	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			problem     TEXT NOT NULL,
			rooms       INTEGER NOT NULL,
			seed        INTEGER NOT NULL,
			query_count INTEGER NOT NULL DEFAULT 0,
			graph       TEXT,
			correct     INTEGER,
			created_at  TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_problem ON runs(problem, created_at);

		CREATE TABLE IF NOT EXISTS traces (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			idx    INTEGER NOT NULL,
			plan   TEXT NOT NULL,
			labels TEXT NOT NULL,
			magic  TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (run_id, idx)
		);

		CREATE TABLE IF NOT EXISTS words (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			idx    INTEGER NOT NULL,
			plan   TEXT NOT NULL,
			PRIMARY KEY (run_id, idx)
		);
	`
	_, err := s.db.ExecContext(ctx, schema)

	return err
}

// SaveRun stores r and returns its id; an empty r.ID gets a fresh uuid and a
// zero CreatedAt the current time. Saving an existing id replaces the run.
func (s *Store) SaveRun(ctx context.Context, r *Run) (string, error) {
	// 1. Identity and encodings.
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	gj, err := encodeGraph(r.Graph)
	if err != nil {
		return "", err
	}

	// 2. One transaction for the run, its traces and its words.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("archive: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, r.ID); err != nil {
		return "", fmt.Errorf("archive: replace run: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, problem, rooms, seed, query_count, graph, correct, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Problem, r.Rooms, r.Seed, r.QueryCount, gj, nullBool(r.Correct),
		r.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("archive: insert run: %w", err)
	}
	for i, tr := range r.Traces {
		magic := ""
		if i < len(r.Magics) {
			magic = r.Magics[i].String()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO traces (run_id, idx, plan, labels, magic) VALUES (?, ?, ?, ?, ?)`,
			r.ID, i, tr.Plan.String(), labelString(tr.Labels), magic)
		if err != nil {
			return "", fmt.Errorf("archive: insert trace %d: %w", i, err)
		}
	}
	for i, w := range r.Words {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO words (run_id, idx, plan) VALUES (?, ?, ?)`, r.ID, i, w.String())
		if err != nil {
			return "", fmt.Errorf("archive: insert word %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("archive: commit: %w", err)
	}

	return r.ID, nil
}

// SetVerdict records the guessed map and its verdict on run id.
func (s *Store) SetVerdict(ctx context.Context, id string, g *graph.Graph, correct bool) error {
	gj, err := encodeGraph(g)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET graph = ?, correct = ? WHERE id = ?`, gj, correct, id)
	if err != nil {
		return fmt.Errorf("archive: update run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("archive: %s: %w", id, ErrNotFound)
	}

	return nil
}

// LoadRun reads run id with its traces and words.
func (s *Store) LoadRun(ctx context.Context, id string) (*Run, error) {
	// 1. Run row.
	r := &Run{ID: id}
	var (
		gj      sql.NullString
		correct sql.NullBool
		created string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT problem, rooms, seed, query_count, graph, correct, created_at FROM runs WHERE id = ?`, id).
		Scan(&r.Problem, &r.Rooms, &r.Seed, &r.QueryCount, &gj, &correct, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("archive: %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("archive: load run: %w", err)
	}
	if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("archive: %s created_at: %w", id, ErrCorrupt)
	}
	if correct.Valid {
		r.Correct = &correct.Bool
	}
	if gj.Valid {
		r.Graph = new(graph.Graph)
		if err := json.Unmarshal([]byte(gj.String), r.Graph); err != nil {
			return nil, fmt.Errorf("archive: %s graph: %v: %w", id, err, ErrCorrupt)
		}
	}

	// 2. Traces in order.
	rows, err := s.db.QueryContext(ctx,
		`SELECT plan, labels, magic FROM traces WHERE run_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("archive: load traces: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var plan, labels, magic string
		if err := rows.Scan(&plan, &labels, &magic); err != nil {
			return nil, fmt.Errorf("archive: scan trace: %w", err)
		}
		tr, mg, err := decodeTrace(plan, labels, magic)
		if err != nil {
			return nil, fmt.Errorf("archive: %s trace %d: %v: %w", id, len(r.Traces), err, ErrCorrupt)
		}
		r.Traces = append(r.Traces, tr)
		r.Magics = append(r.Magics, mg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("archive: load traces: %w", err)
	}

	// 3. Words in order.
	if r.Words, err = s.loadWords(ctx, id); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *Store) loadWords(ctx context.Context, id string) ([]walk.Plan, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT plan FROM words WHERE run_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("archive: load words: %w", err)
	}
	defer rows.Close()

	var out []walk.Plan
	for rows.Next() {
		var plan string
		if err := rows.Scan(&plan); err != nil {
			return nil, fmt.Errorf("archive: scan word: %w", err)
		}
		w, err := walk.ParsePlan(plan)
		if err != nil {
			return nil, fmt.Errorf("archive: %s word %d: %v: %w", id, len(out), err, ErrCorrupt)
		}
		out = append(out, w)
	}

	return out, rows.Err()
}

// ListRuns returns run summaries, newest first; an empty problem lists all.
func (s *Store) ListRuns(ctx context.Context, problem string) ([]Summary, error) {
	q := `SELECT r.id, r.problem, r.rooms, r.seed, r.query_count, r.correct, r.created_at,
	             (SELECT COUNT(*) FROM traces t WHERE t.run_id = r.id)
	      FROM runs r`
	var args []any
	if problem != "" {
		q += ` WHERE r.problem = ?`
		args = append(args, problem)
	}
	q += ` ORDER BY r.created_at DESC, r.id`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("archive: list runs: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sm      Summary
			correct sql.NullBool
			created string
		)
		if err := rows.Scan(&sm.ID, &sm.Problem, &sm.Rooms, &sm.Seed, &sm.QueryCount,
			&correct, &created, &sm.Traces); err != nil {
			return nil, fmt.Errorf("archive: scan run: %w", err)
		}
		if correct.Valid {
			sm.Correct = &correct.Bool
		}
		if sm.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("archive: %s created_at: %w", sm.ID, ErrCorrupt)
		}
		out = append(out, sm)
	}

	return out, rows.Err()
}

func encodeGraph(g *graph.Graph) (sql.NullString, error) {
	if g == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(g)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("archive: encode graph: %w", err)
	}

	return sql.NullString{String: string(data), Valid: true}, nil
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}

	return sql.NullBool{Bool: *b, Valid: true}
}

// labelString renders labels as digits, the way plans are stored.
func labelString(ls []walk.Label) string {
	var sb strings.Builder
	sb.Grow(len(ls))
	for _, l := range ls {
		sb.WriteByte('0' + byte(l))
	}

	return sb.String()
}

func decodeTrace(plan, labels, magic string) (walk.Trace, walk.Plan, error) {
	p, err := walk.ParsePlan(plan)
	if err != nil {
		return walk.Trace{}, nil, err
	}
	mg, err := walk.ParsePlan(magic)
	if err != nil {
		return walk.Trace{}, nil, err
	}
	raw := make([]int, len(labels))
	for i := 0; i < len(labels); i++ {
		raw[i] = int(labels[i]) - '0'
	}
	tr, err := walk.TraceFromInts(p, raw)

	return tr, mg, err
}

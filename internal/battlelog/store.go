// Package battlelog persists completed battle histories to PostgreSQL, in
// the style of the reference implementation's CSV-to-Postgres import
// tooling: same driver (pgx/v5's pgxpool), same connect-ping-exec shape.
// The core engine never imports this package; only the CLI's battle command
// opts in when a database URL is configured (the ladder runner does not).
package battlelog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Mori-kamiyama/nikopoke/internal/battle"
)

// Record is one persisted battle: its initial state, full turn history, and
// winner, as stored and retrieved.
type Record struct {
	BattleID     string
	CreatedAt    time.Time
	InitialState *battle.State
	Turns        *battle.History
	WinnerID     string
}

// Summary is the lightweight projection returned by ListRecent.
type Summary struct {
	BattleID  string
	CreatedAt time.Time
	WinnerID  string
}

// schema creates the battles table if it does not already exist.
const schema = `
CREATE TABLE IF NOT EXISTS battles (
	battle_id     TEXT PRIMARY KEY,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	initial_state JSONB NOT NULL,
	turns         JSONB NOT NULL,
	winner_id     TEXT NOT NULL
)`

// Store wraps a pgxpool.Pool connected to the battles database.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool against url, pings it, and ensures the battles table
// exists.
func Connect(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("battlelog: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("battlelog: ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("battlelog: ensure schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Store persists one completed battle record, upserting on battle_id.
func (s *Store) Store(ctx context.Context, rec Record) error {
	initial, err := json.Marshal(rec.InitialState)
	if err != nil {
		return fmt.Errorf("battlelog: marshal initial state: %w", err)
	}
	turns, err := json.Marshal(rec.Turns)
	if err != nil {
		return fmt.Errorf("battlelog: marshal turns: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO battles (battle_id, initial_state, turns, winner_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (battle_id) DO UPDATE SET
			initial_state = EXCLUDED.initial_state,
			turns = EXCLUDED.turns,
			winner_id = EXCLUDED.winner_id
	`, rec.BattleID, initial, turns, rec.WinnerID)
	if err != nil {
		return fmt.Errorf("battlelog: store %s: %w", rec.BattleID, err)
	}
	return nil
}

// Load retrieves one battle record by id.
func (s *Store) Load(ctx context.Context, battleID string) (Record, error) {
	var (
		rec          Record
		initialBytes []byte
		turnsBytes   []byte
	)
	row := s.pool.QueryRow(ctx, `
		SELECT battle_id, created_at, initial_state, turns, winner_id
		FROM battles WHERE battle_id = $1
	`, battleID)
	if err := row.Scan(&rec.BattleID, &rec.CreatedAt, &initialBytes, &turnsBytes, &rec.WinnerID); err != nil {
		return Record{}, fmt.Errorf("battlelog: load %s: %w", battleID, err)
	}

	rec.InitialState = &battle.State{}
	if err := json.Unmarshal(initialBytes, rec.InitialState); err != nil {
		return Record{}, fmt.Errorf("battlelog: unmarshal initial state: %w", err)
	}
	rec.Turns = &battle.History{}
	if err := json.Unmarshal(turnsBytes, rec.Turns); err != nil {
		return Record{}, fmt.Errorf("battlelog: unmarshal turns: %w", err)
	}
	return rec, nil
}

// ListRecent returns the limit most recently created battle summaries.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]Summary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT battle_id, created_at, winner_id
		FROM battles ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("battlelog: list recent: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.BattleID, &sum.CreatedAt, &sum.WinnerID); err != nil {
			return nil, fmt.Errorf("battlelog: scan summary: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("battlelog: list recent: %w", err)
	}
	return out, nil
}

// Package persistence provides SQLite storage for the current BeeClust grid
// and run metadata. Only the latest snapshot is kept.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"beeclust/internal/sims/beeclust"
)

// ErrNoSnapshot is returned by LoadSnapshot when nothing has been saved yet.
var ErrNoSnapshot = errors.New("persistence: no snapshot saved")

// Snapshot is a saved grid with enough context to resume the run.
type Snapshot struct {
	RunID   string
	Tick    uint64
	Seed    int64
	Params  beeclust.Params
	Rows    [][]int
	SavedAt time.Time
}

// AgentRecord is one agent row of the saved grid.
type AgentRecord struct {
	Row     int `db:"grid_row"`
	Col     int `db:"grid_col"`
	State   int `db:"state"`
	Cluster int `db:"cluster"`
}

// DB wraps a SQLite connection.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshot (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		params_json TEXT NOT NULL,
		grid_json TEXT NOT NULL,
		saved_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS agents (
		grid_row INTEGER NOT NULL,
		grid_col INTEGER NOT NULL,
		state INTEGER NOT NULL,
		cluster INTEGER NOT NULL,
		PRIMARY KEY (grid_row, grid_col)
	);

	CREATE TABLE IF NOT EXISTS run_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_agents_cluster ON agents(cluster);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type snapshotRow struct {
	RunID      string `db:"run_id"`
	Tick       int64  `db:"tick"`
	Seed       int64  `db:"seed"`
	ParamsJSON string `db:"params_json"`
	GridJSON   string `db:"grid_json"`
	SavedAt    string `db:"saved_at"`
}

// SaveSnapshot replaces the stored snapshot. An empty RunID is filled with a
// fresh UUID; a zero SavedAt is set to the current time. The stored values are
// returned.
func (db *DB) SaveSnapshot(snap Snapshot) (Snapshot, error) {
	if len(snap.Rows) == 0 {
		return snap, fmt.Errorf("save snapshot: empty grid")
	}
	if snap.RunID == "" {
		snap.RunID = uuid.NewString()
	}
	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now().UTC()
	}
	paramsJSON, err := json.Marshal(snap.Params)
	if err != nil {
		return snap, fmt.Errorf("encode params: %w", err)
	}
	gridJSON, err := json.Marshal(snap.Rows)
	if err != nil {
		return snap, fmt.Errorf("encode grid: %w", err)
	}

	_, err = db.conn.Exec(`INSERT OR REPLACE INTO snapshot
		(id, run_id, tick, seed, params_json, grid_json, saved_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)`,
		snap.RunID, int64(snap.Tick), snap.Seed, string(paramsJSON), string(gridJSON),
		snap.SavedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return snap, fmt.Errorf("save snapshot: %w", err)
	}
	return snap, nil
}

// LoadSnapshot returns the stored snapshot or ErrNoSnapshot.
func (db *DB) LoadSnapshot() (Snapshot, error) {
	var row snapshotRow
	err := db.conn.Get(&row, `SELECT run_id, tick, seed, params_json, grid_json, saved_at
		FROM snapshot WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}

	snap := Snapshot{RunID: row.RunID, Tick: uint64(row.Tick), Seed: row.Seed}
	if err := json.Unmarshal([]byte(row.ParamsJSON), &snap.Params); err != nil {
		return Snapshot{}, fmt.Errorf("decode params: %w", err)
	}
	if err := json.Unmarshal([]byte(row.GridJSON), &snap.Rows); err != nil {
		return Snapshot{}, fmt.Errorf("decode grid: %w", err)
	}
	if snap.SavedAt, err = time.Parse(time.RFC3339Nano, row.SavedAt); err != nil {
		return Snapshot{}, fmt.Errorf("decode saved_at: %w", err)
	}
	return snap, nil
}

// HasSnapshot reports whether a snapshot has been saved.
func (db *DB) HasSnapshot() (bool, error) {
	var n int
	if err := db.conn.Get(&n, "SELECT COUNT(*) FROM snapshot"); err != nil {
		return false, err
	}
	return n > 0, nil
}

// SaveAgents writes the agent table (full replace).
func (db *DB) SaveAgents(records []AgentRecord) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM agents"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO agents (grid_row, grid_col, state, cluster) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range records {
		if _, err := stmt.Exec(a.Row, a.Col, a.State, a.Cluster); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Agents returns the saved agents in row-major order.
func (db *DB) Agents() ([]AgentRecord, error) {
	var records []AgentRecord
	err := db.conn.Select(&records, "SELECT grid_row, grid_col, state, cluster FROM agents ORDER BY grid_row, grid_col")
	return records, err
}

// SaveMeta stores a key-value pair in run metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO run_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM run_meta WHERE key = ?", key)
	return value, err
}

// SaveSimulation performs a full save of the simulation: grid snapshot,
// agent table with cluster membership and the last tick in metadata.
func (db *DB) SaveSimulation(runID string, sim *beeclust.Simulation) (Snapshot, error) {
	stats := sim.Stats()
	slog.Info("saving simulation", "run", runID, "tick", stats.Tick, "agents", stats.Agents, "clusters", stats.Clusters)

	snap, err := db.SaveSnapshot(Snapshot{
		RunID:  runID,
		Tick:   sim.Tick(),
		Seed:   sim.Config().Seed,
		Params: sim.Params(),
		Rows:   sim.Grid(),
	})
	if err != nil {
		return snap, err
	}

	var records []AgentRecord
	for id, cluster := range sim.Clusters() {
		for _, p := range cluster {
			records = append(records, AgentRecord{
				Row:     p.Row,
				Col:     p.Col,
				State:   snap.Rows[p.Row][p.Col],
				Cluster: id,
			})
		}
	}
	if err := db.SaveAgents(records); err != nil {
		return snap, fmt.Errorf("save agents: %w", err)
	}
	if err := db.SaveMeta("last_tick", fmt.Sprintf("%d", snap.Tick)); err != nil {
		return snap, fmt.Errorf("save meta: %w", err)
	}
	if err := db.SaveMeta("run_id", snap.RunID); err != nil {
		return snap, fmt.Errorf("save meta: %w", err)
	}

	slog.Info("simulation saved", "run", snap.RunID)
	return snap, nil
}

// Restore rebuilds a simulation from the stored snapshot.
func (db *DB) Restore(opts ...beeclust.Option) (*beeclust.Simulation, Snapshot, error) {
	snap, err := db.LoadSnapshot()
	if err != nil {
		return nil, snap, err
	}
	cfg := beeclust.Config{Seed: snap.Seed, Params: snap.Params}
	opts = append(opts, beeclust.WithTick(snap.Tick))
	sim, err := beeclust.New(snap.Rows, cfg, opts...)
	if err != nil {
		return nil, snap, fmt.Errorf("restore: %w", err)
	}
	return sim, snap, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/model"
	_ "modernc.org/sqlite"
)

const backendSQLite = "sqlite"

// The document lives in a single row; id is pinned to 1.
const schema = `CREATE TABLE IF NOT EXISTS league_state (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	doc        TEXT    NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteStore keeps the league document in a SQLite database.
type SQLiteStore struct {
	sqlDB *sql.DB
}

// OpenSQLite opens (and creates) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrNoStorage
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create league_state table: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (state *model.LeagueState, err error) {
	start := time.Now()
	defer func() { observe(backendSQLite, "load", start, err) }()

	var doc string
	err = s.sqlDB.QueryRowContext(ctx, `SELECT doc FROM league_state WHERE id = 1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NewLeagueState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return decodeState([]byte(doc))
}

func (s *SQLiteStore) Save(ctx context.Context, state *model.LeagueState) (err error) {
	start := time.Now()
	defer func() { observe(backendSQLite, "save", start, err) }()

	data, err := encodeState(state, false)
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO league_state (id, doc, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		string(data), time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	return nil
}

// Close releases the underlying connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

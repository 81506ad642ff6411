package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ZarakiLancelot/NutriSnap/internal/domain"
)

const (
	keyProfile         = "profile"
	keyHistory         = "history"
	keyExerciseHistory = "exercise_history"
	keyWaterLog        = "water_log"
)

const schema = `
CREATE TABLE IF NOT EXISTS user_state (
	user_id    TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (user_id, key)
);`

// SQLiteStore implements Local backed by a single SQLite database.
// State is stored as one JSON document per (user, section) row, which
// keeps writes cheap: logging water rewrites only the water row.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) the local state database at path.
// Use ":memory:" for tests.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// modernc.org/sqlite serializes access per connection; a single
	// connection avoids SQLITE_BUSY on concurrent writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating user_state: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) put(ctx context.Context, userID, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO user_state (user_id, key, value, updated_at) VALUES (?, ?, ?, ?)`,
		userID, key, string(raw), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("upserting %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) get(ctx context.Context, userID, key string, out any) (bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM user_state WHERE user_id = ? AND key = ?`, userID, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}

func (s *SQLiteStore) Load(ctx context.Context, userID string) (*domain.UserData, error) {
	var data domain.UserData

	foundProfile, err := s.get(ctx, userID, keyProfile, &data.Profile)
	if err != nil {
		return nil, err
	}
	foundHistory, err := s.get(ctx, userID, keyHistory, &data.History)
	if err != nil {
		return nil, err
	}
	foundExercise, err := s.get(ctx, userID, keyExerciseHistory, &data.ExerciseHistory)
	if err != nil {
		return nil, err
	}
	foundWater, err := s.get(ctx, userID, keyWaterLog, &data.WaterLog)
	if err != nil {
		return nil, err
	}

	if !foundProfile && !foundHistory && !foundExercise && !foundWater {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return &data, nil
}

func (s *SQLiteStore) PutProfile(ctx context.Context, userID string, profile domain.Profile) error {
	return s.put(ctx, userID, keyProfile, profile)
}

func (s *SQLiteStore) PutHistory(ctx context.Context, userID string, history []domain.HistoryItem) error {
	return s.put(ctx, userID, keyHistory, history)
}

func (s *SQLiteStore) PutExerciseHistory(ctx context.Context, userID string, history []domain.ExerciseLog) error {
	return s.put(ctx, userID, keyExerciseHistory, history)
}

func (s *SQLiteStore) PutWaterLog(ctx context.Context, userID string, log domain.WaterLog) error {
	return s.put(ctx, userID, keyWaterLog, log)
}

func (s *SQLiteStore) Delete(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM user_state WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("deleting user state: %w", err)
	}
	return nil
}

package chipsource

import (
	"context"
	"database/sql"
	"fmt"

	"pokerhall/internal/poker"

	_ "modernc.org/sqlite"
)

// SQLiteSource backs chip reservations with a local balances table, for
// single-process deployments that still want buy-ins checked against a
// persisted balance across restarts.
type SQLiteSource struct {
	db *sql.DB
}

// NewSQLiteSource opens (and migrates) a balances database at path.
func NewSQLiteSource(path string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("chipsource: open sqlite: %w", err)
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS chip_balances (
	player_id TEXT PRIMARY KEY,
	balance   INTEGER NOT NULL DEFAULT 0
)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("chipsource: migrate sqlite: %w", err)
	}
	return &SQLiteSource{db: db}, nil
}

func (s *SQLiteSource) balance(ctx context.Context, player poker.PlayerId) (int64, error) {
	var bal int64
	err := s.db.QueryRowContext(ctx, `SELECT balance FROM chip_balances WHERE player_id = ?`, string(player)).Scan(&bal)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return bal, err
}

// Reserve debits amount from player's balance, failing if insufficient.
func (s *SQLiteSource) Reserve(ctx context.Context, player poker.PlayerId, amount poker.ChipInt) error {
	bal, err := s.balance(ctx, player)
	if err != nil {
		return err
	}
	if bal < int64(amount) {
		return ErrInsufficientBalance
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO chip_balances (player_id, balance) VALUES (?, ?)
ON CONFLICT(player_id) DO UPDATE SET balance = balance - ?`,
		string(player), bal-int64(amount), int64(amount))
	return err
}

// Release credits amount back to player's balance.
func (s *SQLiteSource) Release(ctx context.Context, player poker.PlayerId, amount poker.ChipInt) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO chip_balances (player_id, balance) VALUES (?, ?)
ON CONFLICT(player_id) DO UPDATE SET balance = balance + ?`,
		string(player), int64(amount), int64(amount))
	return err
}

func (s *SQLiteSource) Close() error { return s.db.Close() }

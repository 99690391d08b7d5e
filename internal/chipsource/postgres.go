package chipsource

import (
	"context"
	"database/sql"
	"fmt"

	"pokerhall/internal/poker"

	_ "github.com/lib/pq"
)

// PostgresSource backs chip reservations with a shared balances table,
// for multi-process deployments where several server instances must
// agree on one player's external balance.
type PostgresSource struct {
	db *sql.DB
}

// NewPostgresSource opens a connection against dsn and fails if the
// server cannot be reached. The schema (chip_balances) is expected to
// already exist; it is neither created nor checked here.
func NewPostgresSource(dsn string) (*PostgresSource, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("chipsource: open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("chipsource: ping postgres: %w", err)
	}
	return &PostgresSource{db: db}, nil
}

func (p *PostgresSource) Reserve(ctx context.Context, player poker.PlayerId, amount poker.ChipInt) error {
	res, err := p.db.ExecContext(ctx, `
UPDATE chip_balances SET balance = balance - $1
WHERE player_id = $2 AND balance >= $1`, int64(amount), string(player))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

func (p *PostgresSource) Release(ctx context.Context, player poker.PlayerId, amount poker.ChipInt) error {
	_, err := p.db.ExecContext(ctx, `
INSERT INTO chip_balances (player_id, balance) VALUES ($1, $2)
ON CONFLICT (player_id) DO UPDATE SET balance = chip_balances.balance + $2`,
		string(player), int64(amount))
	return err
}

func (p *PostgresSource) Close() error { return p.db.Close() }

package state

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Keys hold U+0000 separators (composite keys), which Postgres TEXT
// rejects, so the key column is BYTEA.
const pgSchema = `
CREATE TABLE IF NOT EXISTS ledger_state (
    key   BYTEA PRIMARY KEY,
    value BYTEA NOT NULL
)`

// PostgresStore keeps the ledger state in a single flat key/value table.
// One write-set maps to one SQL transaction.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, err
	}

	// Simple protocol avoids prepared-statement clashes behind PgBouncer.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}
	if _, err := pool.Exec(context.Background(), pgSchema); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Get(key string) ([]byte, error) {
	var value []byte
	err := s.pool.QueryRow(context.Background(),
		`SELECT value FROM ledger_state WHERE key = $1`, []byte(key)).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *PostgresStore) Scan(prefix string) (Iterator, error) {
	query := `SELECT key, value FROM ledger_state WHERE key >= $1 ORDER BY key`
	args := []interface{}{[]byte(prefix)}
	if end := PrefixEnd(prefix); end != "" {
		query = `SELECT key, value FROM ledger_state WHERE key >= $1 AND key < $2 ORDER BY key`
		args = append(args, []byte(end))
	}

	rows, err := s.pool.Query(context.Background(), query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []memItem
	for rows.Next() {
		var key, value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		items = append(items, memItem{key: string(key), value: value})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &memIter{items: items, pos: -1}, nil
}

func (s *PostgresStore) Write(batch []Modify) error {
	ctx := context.Background()
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, m := range batch {
		switch data := m.Data.(type) {
		case Put:
			_, err = tx.Exec(ctx,
				`INSERT INTO ledger_state (key, value) VALUES ($1, $2)
				 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
				[]byte(data.Key), data.Value)
		case Delete:
			_, err = tx.Exec(ctx,
				`DELETE FROM ledger_state WHERE key = $1`, []byte(data.Key))
		}
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

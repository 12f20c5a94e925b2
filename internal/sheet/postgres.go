package sheet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the subset of *pgxpool.Pool the store needs.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps the sheet as a table of non-empty cells:
// (row_index, col_index, value) with a primary key on the address.
type PostgresStore struct {
	db    querier
	table string
}

// NewPostgresStore creates a store on an existing connection or pool.
// table may be schema-qualified ("rates.sheet_cells").
func NewPostgresStore(db querier, table string) *PostgresStore {
	return &PostgresStore{
		db:    db,
		table: pgx.Identifier(strings.Split(table, ".")).Sanitize(),
	}
}

// OpenPostgres connects to dsn, makes sure the cell table exists and returns
// the store together with the pool to close.
func OpenPostgres(ctx context.Context, dsn, table string) (*PostgresStore, *pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	cfg.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}

	store := NewPostgresStore(pool, table)
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return store, pool, nil
}

// EnsureSchema creates the cell table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS `+s.table+` (
	row_index integer NOT NULL,
	col_index integer NOT NULL,
	value     text    NOT NULL,
	PRIMARY KEY (row_index, col_index)
)`)
	if err != nil {
		return fmt.Errorf("create %s: %w", s.table, err)
	}
	return nil
}

// ReadCell returns the cell value, or "" when no row exists for it.
func (s *PostgresStore) ReadCell(ctx context.Context, row, col int) (string, error) {
	if err := checkAddress(row, col); err != nil {
		return "", err
	}
	var value string
	err := s.db.QueryRow(ctx,
		`SELECT value FROM `+s.table+` WHERE row_index = $1 AND col_index = $2`,
		row, col,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read cell (%d, %d): %w", row, col, err)
	}
	return value, nil
}

// WriteCell upserts the cell value; "" deletes it.
func (s *PostgresStore) WriteCell(ctx context.Context, row, col int, value string) error {
	if err := checkAddress(row, col); err != nil {
		return err
	}
	var err error
	if value == "" {
		_, err = s.db.Exec(ctx,
			`DELETE FROM `+s.table+` WHERE row_index = $1 AND col_index = $2`,
			row, col,
		)
	} else {
		_, err = s.db.Exec(ctx,
			`INSERT INTO `+s.table+` (row_index, col_index, value) VALUES ($1, $2, $3)
ON CONFLICT (row_index, col_index) DO UPDATE SET value = EXCLUDED.value`,
			row, col, value,
		)
	}
	if err != nil {
		return fmt.Errorf("write cell (%d, %d): %w", row, col, err)
	}
	return nil
}

// LastRow returns the highest row index holding content, or 1.
func (s *PostgresStore) LastRow(ctx context.Context) (int, error) {
	var last int
	err := s.db.QueryRow(ctx,
		`SELECT COALESCE(MAX(row_index), 1) FROM `+s.table+` WHERE value <> ''`,
	).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("last row: %w", err)
	}
	return last, nil
}

var _ Store = (*PostgresStore)(nil)

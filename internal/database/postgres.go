//go:generate go run github.com/golang/mock/mockgen -destination=./mocks/postgres.go -package=mocks . NetworkStatusRepository

// Package database stores the daily network state rows served by statusd.
//
// Rows live in a single PostgreSQL table keyed by time index, one row per
// day. Reads always return the most recent rows in ascending time order.
//
// Example usage:
//
//	repo, err := NewPostgresRepo("host=localhost port=5432 dbname=netstat sslmode=disable", 10)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repo.Close()
//
//	lines, err := repo.LatestStatus(ctx, 30)
package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/1pactus/netstat/internal/models"
)

// NetworkStatusRepository reads and writes daily network state rows.
type NetworkStatusRepository interface {
	// LatestStatus returns the newest days rows ordered by ascending time
	// index. A non-positive days returns every row.
	LatestStatus(ctx context.Context, days int32) ([]models.DataPoint, error)

	// UpsertStatus writes rows in a single transaction, replacing rows with
	// the same time index.
	UpsertStatus(ctx context.Context, lines []models.DataPoint) error

	// Ping checks the connection.
	Ping(ctx context.Context) error

	// Close releases any resources held by the repository.
	Close() error
}

const schema = `
CREATE TABLE IF NOT EXISTS network_global_state (
    time_index         BIGINT PRIMARY KEY,
    stake              BIGINT NOT NULL,
    supply             BIGINT NOT NULL,
    circulating_supply BIGINT NOT NULL,
    txs                BIGINT NOT NULL,
    blocks             BIGINT NOT NULL,
    fee                BIGINT NOT NULL,
    active_validator   BIGINT NOT NULL,
    active_account     BIGINT NOT NULL
)`

// LIMIT NULL means no limit in PostgreSQL.
const latestQuery = `
SELECT time_index, stake, supply, circulating_supply, txs, blocks, fee,
       active_validator, active_account
FROM (
    SELECT * FROM network_global_state
    ORDER BY time_index DESC
    LIMIT $1
) recent
ORDER BY time_index ASC`

const upsertQuery = `
INSERT INTO network_global_state (
    time_index, stake, supply, circulating_supply, txs, blocks, fee,
    active_validator, active_account
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (time_index) DO UPDATE SET
    stake = EXCLUDED.stake,
    supply = EXCLUDED.supply,
    circulating_supply = EXCLUDED.circulating_supply,
    txs = EXCLUDED.txs,
    blocks = EXCLUDED.blocks,
    fee = EXCLUDED.fee,
    active_validator = EXCLUDED.active_validator,
    active_account = EXCLUDED.active_account`

// PostgresRepo implements NetworkStatusRepository on lib/pq.
type PostgresRepo struct {
	db *sql.DB
}

// NewPostgresRepo opens a pool of at most maxConns connections and verifies
// connectivity. maxConns <= 0 leaves the pool unbounded.
func NewPostgresRepo(connStr string, maxConns int) (*PostgresRepo, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
		db.SetMaxIdleConns(maxConns)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return &PostgresRepo{db: db}, nil
}

// Migrate creates the state table when it does not exist.
func (s *PostgresRepo) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *PostgresRepo) LatestStatus(ctx context.Context, days int32) ([]models.DataPoint, error) {
	limit := sql.NullInt64{Int64: int64(days), Valid: days > 0}

	rows, err := s.db.QueryContext(ctx, latestQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query network state: %w", err)
	}
	defer rows.Close()

	results := []models.DataPoint{}
	for rows.Next() {
		var (
			timeIndex int64
			p         models.DataPoint
		)
		if err := rows.Scan(
			&timeIndex, &p.Stake, &p.Supply, &p.CirculatingSupply, &p.Txs,
			&p.Blocks, &p.Fee, &p.ActiveValidator, &p.ActiveAccount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan network state: %w", err)
		}
		p.TimeIndex = uint32(timeIndex)
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read network state: %w", err)
	}

	return results, nil
}

// UpsertStatus is atomic: either every row is written or none.
func (s *PostgresRepo) UpsertStatus(ctx context.Context, lines []models.DataPoint) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // rollback if not committed

	stmt, err := tx.PrepareContext(ctx, upsertQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range lines {
		if _, err := stmt.ExecContext(ctx,
			int64(p.TimeIndex), p.Stake, p.Supply, p.CirculatingSupply, p.Txs,
			p.Blocks, p.Fee, p.ActiveValidator, p.ActiveAccount,
		); err != nil {
			return fmt.Errorf("failed to upsert time index %d: %w", p.TimeIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *PostgresRepo) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresRepo) Close() error {
	return s.db.Close()
}

// Compile-time interface implementation check
var _ NetworkStatusRepository = (*PostgresRepo)(nil)

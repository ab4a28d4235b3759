package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"sipeta/models"
	"sipeta/utils"
)

const insertBatchSize = 50

// PostgresStore persists cleaned listings to PostgreSQL and loads them back.
// Business groups are not stored; they are derived again on every load.
type PostgresStore struct {
	db     *sql.DB
	logger *utils.Logger
}

// NewPostgresStore opens a connection, waits for the server with retries,
// runs schema migrations and returns a ready-to-use store.
func NewPostgresStore(ctx context.Context, dsn string, maxRetries int, logger *utils.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{MaxAttempts: maxRetries, BaseDelay: 2 * time.Second, Logger: logger}
	if err := retry.DoContext(ctx, "postgres-ping", db.PingContext); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	ps := &PostgresStore{db: db, logger: logger}
	if err := ps.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

// schemaDDL creates the listings table. rating is a float column so values
// read back are exactly what the cleaner produced; the ALTER upgrades tables
// created with the older NUMERIC(4,2) column.
const schemaDDL = `
	CREATE TABLE IF NOT EXISTS umkm_listings (
		id          SERIAL PRIMARY KEY,
		name        TEXT             NOT NULL DEFAULT '',
		region      TEXT             NOT NULL DEFAULT '',
		category    TEXT             NOT NULL DEFAULT '',
		rating      DOUBLE PRECISION NOT NULL DEFAULT 0,
		lat         DOUBLE PRECISION NULL,
		lng         DOUBLE PRECISION NULL,
		created_at  TIMESTAMPTZ      NOT NULL DEFAULT NOW()
	);

	ALTER TABLE umkm_listings ALTER COLUMN rating TYPE DOUBLE PRECISION;

	CREATE INDEX IF NOT EXISTS idx_umkm_listings_region   ON umkm_listings(region);
	CREATE INDEX IF NOT EXISTS idx_umkm_listings_category ON umkm_listings(category);
`

func (ps *PostgresStore) migrate(ctx context.Context) error {
	_, err := ps.db.ExecContext(ctx, schemaDDL)
	return err
}

// Write replaces the table contents with listings inside one transaction.
func (ps *PostgresStore) Write(listings []models.Listing) error {
	return ps.WriteContext(context.Background(), listings)
}

// WriteContext is Write with cancellation.
func (ps *PostgresStore) WriteContext(ctx context.Context, listings []models.Listing) error {
	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM umkm_listings"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	for i := 0; i < len(listings); i += insertBatchSize {
		end := i + insertBatchSize
		if end > len(listings) {
			end = len(listings)
		}
		query, args := buildInsertBatch(listings[i:end])
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("postgres: insert rows %d-%d: %w", i+1, end, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	if ps.logger != nil {
		ps.logger.Info("[postgres] Stored %d listings in umkm_listings", len(listings))
	}
	return nil
}

func buildInsertBatch(batch []models.Listing) (string, []interface{}) {
	const cols = 6
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, l := range batch {
		base := idx * cols
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6))
		valueArgs = append(valueArgs,
			l.Name, l.Region, l.Category, l.Rating, nullFloat(l.Lat), nullFloat(l.Lng))
	}

	query := fmt.Sprintf(`
		INSERT INTO umkm_listings (name, region, category, rating, lat, lng)
		VALUES %s
	`, strings.Join(valueStrings, ","))
	return query, valueArgs
}

// FetchAll retrieves all stored listings in insertion order.
func (ps *PostgresStore) FetchAll(ctx context.Context) ([]models.Listing, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT id, name, region, category, rating, lat, lng
		FROM umkm_listings
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		var (
			l        models.Listing
			lat, lng sql.NullFloat64
		)
		if err := rows.Scan(&l.ID, &l.Name, &l.Region, &l.Category, &l.Rating, &lat, &lng); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		if lat.Valid {
			l.Lat = &lat.Float64
		}
		if lng.Valid {
			l.Lng = &lng.Float64
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

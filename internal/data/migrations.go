package data

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adilezz/botbourse/pkg/logger"
)

// schema is applied in order; every statement is idempotent so migrate can
// run on every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS instruments (
		symbol        VARCHAR(10) PRIMARY KEY,
		name          VARCHAR(100) NOT NULL,
		sector        VARCHAR(50) NOT NULL DEFAULT '',
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		quality_score INTEGER NOT NULL DEFAULT 50,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS quotes (
		id     BIGSERIAL PRIMARY KEY,
		symbol VARCHAR(10) NOT NULL REFERENCES instruments(symbol),
		date   DATE NOT NULL,
		open   NUMERIC(12, 2),
		high   NUMERIC(12, 2),
		low    NUMERIC(12, 2),
		close  NUMERIC(12, 2) NOT NULL,
		volume NUMERIC(18, 2) NOT NULL DEFAULT 0,
		UNIQUE (symbol, date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_quotes_symbol_date ON quotes (symbol, date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_quotes_date ON quotes (date)`,

	`CREATE TABLE IF NOT EXISTS corporate_actions (
		id          BIGSERIAL PRIMARY KEY,
		symbol      VARCHAR(10) NOT NULL REFERENCES instruments(symbol),
		fiscal_year INTEGER NOT NULL,
		amount      NUMERIC(10, 2) NOT NULL,
		ex_date     DATE,
		type        VARCHAR(20) NOT NULL DEFAULT 'Ordinary',
		status      VARCHAR(20) NOT NULL DEFAULT 'Proposed',
		UNIQUE (symbol, fiscal_year, type)
	)`,

	`CREATE TABLE IF NOT EXISTS transactions (
		id           BIGSERIAL PRIMARY KEY,
		executed_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		symbol       VARCHAR(10) NOT NULL REFERENCES instruments(symbol),
		type         VARCHAR(20) NOT NULL,
		quantity     INTEGER NOT NULL DEFAULT 0,
		price        NUMERIC(12, 2) NOT NULL DEFAULT 0,
		fees         NUMERIC(12, 2) NOT NULL DEFAULT 0,
		total_amount NUMERIC(14, 2) NOT NULL,
		notes        TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS pipeline_runs (
		id           BIGSERIAL PRIMARY KEY,
		started_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		finished_at  TIMESTAMPTZ,
		window_from  DATE,
		window_to    DATE,
		rows_inserted INTEGER NOT NULL DEFAULT 0,
		symbols_ok    INTEGER NOT NULL DEFAULT 0,
		symbols_failed INTEGER NOT NULL DEFAULT 0,
		status       VARCHAR(20) NOT NULL DEFAULT 'RUNNING',
		error        TEXT NOT NULL DEFAULT ''
	)`,
}

// knownDividends bootstraps the yield rule before any scraped corporate
// action exists. Amounts are the last published ordinary dividend in MAD.
var knownDividends = []struct {
	Symbol string
	Year   int
	Amount float64
}{
	{"IAM", 2023, 2.19},
	{"BCP", 2023, 9.5},
	{"ATW", 2023, 15.5},
	{"CMA", 2023, 55.0},
	{"LHM", 2023, 66.0},
	{"MSA", 2023, 8.5},
	{"CSR", 2023, 8.5},
	{"TQM", 2023, 38.0},
}

// Migrate applies the schema. Safe to call on every startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}
	log.WithField("statements", len(schema)).Info("Database schema applied")
	return nil
}

// SeedDividends inserts the bootstrap dividend rows. Existing rows win:
// a scraped or manually corrected amount is never overwritten by the seed.
func SeedDividends(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) error {
	const query = `
		INSERT INTO corporate_actions (symbol, fiscal_year, amount, status)
		VALUES ($1, $2, $3, 'Paid')
		ON CONFLICT (symbol, fiscal_year, type) DO NOTHING
	`

	seeded := 0
	for _, d := range knownDividends {
		tag, err := pool.Exec(ctx, query, d.Symbol, d.Year, d.Amount)
		if err != nil {
			// the instrument may not be synced yet, skip rather than fail
			log.WithField("symbol", d.Symbol).WithError(err).Warn("Dividend seed skipped")
			continue
		}
		seeded += int(tag.RowsAffected())
	}

	log.WithFields(map[string]interface{}{
		"seeded": seeded,
		"total":  len(knownDividends),
	}).Info("Dividend seed complete")
	return nil
}

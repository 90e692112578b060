package data

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adilezz/botbourse/internal/contracts"
)

// InstrumentRepository implements contracts.InstrumentStore on Postgres.
type InstrumentRepository struct {
	pool *pgxpool.Pool
}

func NewInstrumentRepository(pool *pgxpool.Pool) *InstrumentRepository {
	return &InstrumentRepository{pool: pool}
}

// ListActive returns all tradeable instruments with their latest known
// dividend, ordered by symbol.
func (r *InstrumentRepository) ListActive(ctx context.Context) ([]contracts.Instrument, error) {
	query := `
		SELECT i.symbol, i.name, i.sector, i.is_active, i.quality_score, i.created_at,
		       COALESCE(d.amount, 0)
		FROM instruments i
		LEFT JOIN LATERAL (
			SELECT amount
			FROM corporate_actions
			WHERE symbol = i.symbol AND type = 'Ordinary'
			ORDER BY fiscal_year DESC
			LIMIT 1
		) d ON TRUE
		WHERE i.is_active
		ORDER BY i.symbol ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active instruments: %w", err)
	}
	defer rows.Close()

	var instruments []contracts.Instrument
	for rows.Next() {
		var ins contracts.Instrument
		if err := rows.Scan(&ins.Symbol, &ins.Name, &ins.Sector, &ins.Active,
			&ins.QualityScore, &ins.CreatedAt, &ins.LastDividend); err != nil {
			return nil, fmt.Errorf("scan instrument: %w", err)
		}
		instruments = append(instruments, ins)
	}
	return instruments, rows.Err()
}

// Upsert registers an instrument or refreshes its name. Everything else
// (sector, quality score, active flag) is left alone on conflict.
func (r *InstrumentRepository) Upsert(ctx context.Context, symbol, name string) error {
	query := `
		INSERT INTO instruments (symbol, name)
		VALUES ($1, $2)
		ON CONFLICT (symbol) DO UPDATE SET name = EXCLUDED.name
	`

	if _, err := r.pool.Exec(ctx, query, symbol, name); err != nil {
		return fmt.Errorf("upsert instrument %s: %w", symbol, err)
	}
	return nil
}

// Deactivate marks an instrument as no longer tradeable. Its quote history
// stays in place.
func (r *InstrumentRepository) Deactivate(ctx context.Context, symbol string) error {
	query := `UPDATE instruments SET is_active = FALSE WHERE symbol = $1`

	if _, err := r.pool.Exec(ctx, query, symbol); err != nil {
		return fmt.Errorf("deactivate instrument %s: %w", symbol, err)
	}
	return nil
}

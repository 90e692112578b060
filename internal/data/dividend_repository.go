package data

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DividendRepository reads and records per-share dividend payouts from the
// corporate_actions table.
type DividendRepository struct {
	pool *pgxpool.Pool
}

func NewDividendRepository(pool *pgxpool.Pool) *DividendRepository {
	return &DividendRepository{pool: pool}
}

// LastDividends maps each symbol to its most recent ordinary dividend
// amount. Symbols with no recorded payout are absent from the map.
func (r *DividendRepository) LastDividends(ctx context.Context) (map[string]float64, error) {
	query := `
		SELECT DISTINCT ON (symbol) symbol, amount
		FROM corporate_actions
		WHERE type = 'Ordinary'
		ORDER BY symbol, fiscal_year DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query last dividends: %w", err)
	}
	defer rows.Close()

	dividends := make(map[string]float64)
	for rows.Next() {
		var symbol string
		var amount float64
		if err := rows.Scan(&symbol, &amount); err != nil {
			return nil, fmt.Errorf("scan dividend: %w", err)
		}
		dividends[symbol] = amount
	}
	return dividends, rows.Err()
}

// Record stores or updates one fiscal-year payout for a symbol.
func (r *DividendRepository) Record(ctx context.Context, symbol string, fiscalYear int, amount float64) error {
	query := `
		INSERT INTO corporate_actions (symbol, fiscal_year, amount, status)
		VALUES ($1, $2, $3, 'Paid')
		ON CONFLICT (symbol, fiscal_year, type) DO UPDATE SET
			amount = EXCLUDED.amount,
			status = EXCLUDED.status
	`

	if _, err := r.pool.Exec(ctx, query, symbol, fiscalYear, amount); err != nil {
		return fmt.Errorf("record dividend %s/%d: %w", symbol, fiscalYear, err)
	}
	return nil
}

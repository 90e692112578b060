package data

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adilezz/botbourse/internal/contracts"
)

// Holding is the aggregated position for one symbol, derived from the
// transaction journal. Positions are never stored directly.
type Holding struct {
	Symbol   string
	Quantity int
	AvgPrice float64
	Invested float64
}

// Transaction is one journal entry. Type is BUY, SELL, DIVIDEND or DEPOSIT.
type Transaction struct {
	ID          int64
	ExecutedAt  time.Time
	Symbol      string
	Type        string
	Quantity    int
	Price       float64
	Fees        float64
	TotalAmount float64
	Notes       string
}

// PortfolioRepository implements contracts.ExposureSource on top of the
// transaction journal.
type PortfolioRepository struct {
	pool   *pgxpool.Pool
	quotes *QuoteRepository
}

func NewPortfolioRepository(pool *pgxpool.Pool, quotes *QuoteRepository) *PortfolioRepository {
	return &PortfolioRepository{pool: pool, quotes: quotes}
}

// RecordTransaction appends one entry to the journal.
func (r *PortfolioRepository) RecordTransaction(ctx context.Context, tx Transaction) error {
	query := `
		INSERT INTO transactions (symbol, type, quantity, price, fees, total_amount, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if _, err := r.pool.Exec(ctx, query,
		tx.Symbol, tx.Type, tx.Quantity, tx.Price, tx.Fees, tx.TotalAmount, tx.Notes); err != nil {
		return fmt.Errorf("record transaction %s %s: %w", tx.Type, tx.Symbol, err)
	}
	return nil
}

// Holdings derives current positions from the journal: buys add shares,
// sells remove them. Symbols with zero remaining shares are dropped.
func (r *PortfolioRepository) Holdings(ctx context.Context) ([]Holding, error) {
	query := `
		SELECT symbol,
		       SUM(CASE WHEN type = 'BUY' THEN quantity
		                WHEN type = 'SELL' THEN -quantity
		                ELSE 0 END) AS quantity,
		       SUM(CASE WHEN type = 'BUY' THEN total_amount
		                WHEN type = 'SELL' THEN -total_amount
		                ELSE 0 END) AS invested
		FROM transactions
		WHERE type IN ('BUY', 'SELL')
		GROUP BY symbol
		HAVING SUM(CASE WHEN type = 'BUY' THEN quantity
		                WHEN type = 'SELL' THEN -quantity
		                ELSE 0 END) > 0
		ORDER BY symbol ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query holdings: %w", err)
	}
	defer rows.Close()

	var holdings []Holding
	for rows.Next() {
		var h Holding
		if err := rows.Scan(&h.Symbol, &h.Quantity, &h.Invested); err != nil {
			return nil, fmt.Errorf("scan holding: %w", err)
		}
		if h.Quantity > 0 {
			h.AvgPrice = h.Invested / float64(h.Quantity)
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

// Exposure values current holdings at their latest stored close and
// returns the total plus a per-symbol breakdown.
func (r *PortfolioRepository) Exposure(ctx context.Context) (float64, map[string]float64, error) {
	holdings, err := r.Holdings(ctx)
	if err != nil {
		return 0, nil, err
	}

	bySymbol := make(map[string]float64, len(holdings))
	var total float64
	for _, h := range holdings {
		series, err := r.quotes.SeriesFor(ctx, h.Symbol, 1)
		if err != nil {
			return 0, nil, fmt.Errorf("price holding %s: %w", h.Symbol, err)
		}

		price := h.AvgPrice
		if len(series) > 0 {
			price = series[len(series)-1].Close
		}

		value := price * float64(h.Quantity)
		bySymbol[h.Symbol] = value
		total += value
	}
	return total, bySymbol, nil
}

var _ contracts.ExposureSource = (*PortfolioRepository)(nil)

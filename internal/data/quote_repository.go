package data

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adilezz/botbourse/internal/contracts"
)

// QuoteRepository implements contracts.QuoteStore on Postgres. The
// (symbol, date) unique constraint makes the whole sync pipeline
// idempotent: re-running a window never duplicates rows.
type QuoteRepository struct {
	pool *pgxpool.Pool
}

func NewQuoteRepository(pool *pgxpool.Pool) *QuoteRepository {
	return &QuoteRepository{pool: pool}
}

// LatestDate returns the most recent trade date across all instruments.
// ok is false on an empty store, which triggers the bootstrap window.
func (r *QuoteRepository) LatestDate(ctx context.Context) (time.Time, bool, error) {
	query := `SELECT MAX(date) FROM quotes`

	var latest *time.Time
	if err := r.pool.QueryRow(ctx, query).Scan(&latest); err != nil {
		return time.Time{}, false, fmt.Errorf("query latest quote date: %w", err)
	}
	if latest == nil {
		return time.Time{}, false, nil
	}
	return *latest, true, nil
}

// InsertIfAbsent writes one quote unless its (symbol, date) pair already
// exists. A duplicate is a success-no-op: inserted=false, err=nil.
// Stored rows are never updated through this path; see CorrectClose.
func (r *QuoteRepository) InsertIfAbsent(ctx context.Context, q contracts.Quote) (bool, error) {
	query := `
		INSERT INTO quotes (symbol, date, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (symbol, date) DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query,
		q.Symbol, q.Date, q.Open, q.High, q.Low, q.Close, q.Volume)
	if err != nil {
		return false, fmt.Errorf("insert quote %s@%s: %w",
			q.Symbol, q.Date.Format("2006-01-02"), err)
	}
	return tag.RowsAffected() > 0, nil
}

// SeriesFor returns the chronological close/volume series for one symbol.
// When limit > 0 only the most recent limit sessions are returned, still
// in ascending date order.
func (r *QuoteRepository) SeriesFor(ctx context.Context, symbol string, limit int) ([]contracts.Quote, error) {
	query := `
		SELECT symbol, date, open, high, low, close, volume
		FROM quotes
		WHERE symbol = $1
		ORDER BY date DESC
	`
	args := []interface{}{symbol}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query series for %s: %w", symbol, err)
	}
	defer rows.Close()

	var series []contracts.Quote
	for rows.Next() {
		var q contracts.Quote
		if err := rows.Scan(&q.Symbol, &q.Date, &q.Open, &q.High, &q.Low, &q.Close, &q.Volume); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		series = append(series, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// fetched newest-first for the LIMIT, flip back to chronological
	for i, j := 0, len(series)-1; i < j; i, j = i+1, j-1 {
		series[i], series[j] = series[j], series[i]
	}
	return series, nil
}

// LatestSessionQuotes maps symbol to (close, volume) for one session date.
func (r *QuoteRepository) LatestSessionQuotes(ctx context.Context, date time.Time) (map[string]contracts.SessionQuote, error) {
	query := `SELECT symbol, close, volume FROM quotes WHERE date = $1`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("query session quotes for %s: %w", date.Format("2006-01-02"), err)
	}
	defer rows.Close()

	session := make(map[string]contracts.SessionQuote)
	for rows.Next() {
		var symbol string
		var sq contracts.SessionQuote
		if err := rows.Scan(&symbol, &sq.Close, &sq.Volume); err != nil {
			return nil, fmt.Errorf("scan session quote: %w", err)
		}
		session[symbol] = sq
	}
	return session, rows.Err()
}

// CorrectClose replaces the close of one existing quote. This is the only
// mutation path for stored rows and exists for upstream restatements.
func (r *QuoteRepository) CorrectClose(ctx context.Context, symbol string, date time.Time, close float64) error {
	query := `UPDATE quotes SET close = $3 WHERE symbol = $1 AND date = $2`

	tag, err := r.pool.Exec(ctx, query, symbol, date, close)
	if err != nil {
		return fmt.Errorf("correct close %s@%s: %w", symbol, date.Format("2006-01-02"), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("correct close %s@%s: no such quote", symbol, date.Format("2006-01-02"))
	}
	return nil
}

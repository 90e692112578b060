package data

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adilezz/botbourse/internal/contracts"
	"github.com/adilezz/botbourse/pkg/logger"
)

// testPool connects to the database named by TEST_DATABASE_URL and applies
// the schema. Tests are skipped in short mode or when no URL is set.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(context.Background(), pool, logger.NewNop()))
	return pool
}

func cleanTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`TRUNCATE pipeline_runs, transactions, corporate_actions, quotes, instruments CASCADE`)
	require.NoError(t, err)
}

func TestQuoteRepository_InsertIfAbsent(t *testing.T) {
	pool := testPool(t)
	cleanTables(t, pool)
	ctx := context.Background()

	instruments := NewInstrumentRepository(pool)
	quotes := NewQuoteRepository(pool)

	require.NoError(t, instruments.Upsert(ctx, "IAM", "Itissalat Al Maghrib"))

	q := contracts.Quote{
		Symbol: "IAM",
		Date:   time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC),
		Open:   92.0, High: 94.0, Low: 91.5, Close: 93.2, Volume: 120000,
	}

	inserted, err := quotes.InsertIfAbsent(ctx, q)
	require.NoError(t, err)
	assert.True(t, inserted)

	// same (symbol, date) again is a success-no-op
	q.Close = 999.0
	inserted, err = quotes.InsertIfAbsent(ctx, q)
	require.NoError(t, err)
	assert.False(t, inserted)

	series, err := quotes.SeriesFor(ctx, "IAM", 0)
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.InDelta(t, 93.2, series[0].Close, 1e-9, "duplicate insert must not overwrite")
}

func TestQuoteRepository_LatestDateAndCorrection(t *testing.T) {
	pool := testPool(t)
	cleanTables(t, pool)
	ctx := context.Background()

	instruments := NewInstrumentRepository(pool)
	quotes := NewQuoteRepository(pool)

	_, ok, err := quotes.LatestDate(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "empty store has no latest date")

	require.NoError(t, instruments.Upsert(ctx, "ATW", "Attijariwafa Bank"))
	for day := 25; day <= 27; day++ {
		date := time.Date(2026, 8, day, 0, 0, 0, 0, time.UTC)
		_, err := quotes.InsertIfAbsent(ctx, contracts.Quote{
			Symbol: "ATW", Date: date, Close: 500 + float64(day), Volume: 1000,
		})
		require.NoError(t, err)
	}

	latest, ok, err := quotes.LatestDate(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC), latest.UTC())

	// explicit correction path updates close, nothing else
	date := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	require.NoError(t, quotes.CorrectClose(ctx, "ATW", date, 510.5))

	series, err := quotes.SeriesFor(ctx, "ATW", 2)
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.InDelta(t, 510.5, series[0].Close, 1e-9)
	assert.InDelta(t, 527.0, series[1].Close, 1e-9)

	err = quotes.CorrectClose(ctx, "ATW", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 1.0)
	assert.Error(t, err, "correcting a missing quote fails loudly")
}

func TestQuoteRepository_LatestSessionQuotes(t *testing.T) {
	pool := testPool(t)
	cleanTables(t, pool)
	ctx := context.Background()

	instruments := NewInstrumentRepository(pool)
	quotes := NewQuoteRepository(pool)

	session := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
	for _, row := range []struct {
		symbol string
		close  float64
		volume float64
	}{
		{"IAM", 93.2, 120000},
		{"ATW", 527.0, 45000},
	} {
		require.NoError(t, instruments.Upsert(ctx, row.symbol, row.symbol))
		_, err := quotes.InsertIfAbsent(ctx, contracts.Quote{
			Symbol: row.symbol, Date: session, Close: row.close, Volume: row.volume,
		})
		require.NoError(t, err)
	}
	// a quote from another session must not leak in
	_, err := quotes.InsertIfAbsent(ctx, contracts.Quote{
		Symbol: "IAM", Date: session.AddDate(0, 0, -1), Close: 90.0, Volume: 99999,
	})
	require.NoError(t, err)

	bySymbol, err := quotes.LatestSessionQuotes(ctx, session)
	require.NoError(t, err)
	require.Len(t, bySymbol, 2)

	assert.InDelta(t, 93.2, bySymbol["IAM"].Close, 1e-9)
	assert.InDelta(t, 45000.0, bySymbol["ATW"].Volume, 1e-9)
}

func TestInstrumentRepository_Deactivate(t *testing.T) {
	pool := testPool(t)
	cleanTables(t, pool)
	ctx := context.Background()

	instruments := NewInstrumentRepository(pool)
	require.NoError(t, instruments.Upsert(ctx, "SNA", "Société Nationale"))
	require.NoError(t, instruments.Upsert(ctx, "IAM", "Itissalat Al Maghrib"))

	require.NoError(t, instruments.Deactivate(ctx, "SNA"))

	active, err := instruments.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "IAM", active[0].Symbol)
}

func TestDividendRepository_LastDividends(t *testing.T) {
	pool := testPool(t)
	cleanTables(t, pool)
	ctx := context.Background()

	instruments := NewInstrumentRepository(pool)
	dividends := NewDividendRepository(pool)

	require.NoError(t, instruments.Upsert(ctx, "IAM", "Itissalat Al Maghrib"))
	require.NoError(t, dividends.Record(ctx, "IAM", 2023, 2.19))
	require.NoError(t, dividends.Record(ctx, "IAM", 2024, 2.45))

	last, err := dividends.LastDividends(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 2.45, last["IAM"], 1e-9, "most recent fiscal year wins")
}

func TestPortfolioRepository_Exposure(t *testing.T) {
	pool := testPool(t)
	cleanTables(t, pool)
	ctx := context.Background()

	instruments := NewInstrumentRepository(pool)
	quotes := NewQuoteRepository(pool)
	portfolio := NewPortfolioRepository(pool, quotes)

	require.NoError(t, instruments.Upsert(ctx, "BCP", "Banque Populaire"))
	_, err := quotes.InsertIfAbsent(ctx, contracts.Quote{
		Symbol: "BCP",
		Date:   time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC),
		Close:  300.0, Volume: 5000,
	})
	require.NoError(t, err)

	require.NoError(t, portfolio.RecordTransaction(ctx, Transaction{
		Symbol: "BCP", Type: "BUY", Quantity: 10, Price: 280, TotalAmount: 2800,
	}))
	require.NoError(t, portfolio.RecordTransaction(ctx, Transaction{
		Symbol: "BCP", Type: "SELL", Quantity: 4, Price: 290, TotalAmount: 1160,
	}))

	total, bySymbol, err := portfolio.Exposure(ctx)
	require.NoError(t, err)

	// 6 remaining shares at the latest close of 300
	assert.InDelta(t, 1800.0, total, 1e-9)
	assert.InDelta(t, 1800.0, bySymbol["BCP"], 1e-9)
}

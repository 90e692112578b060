package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adilezz/botbourse/internal/contracts"
	"github.com/adilezz/botbourse/internal/strategy"
	"github.com/adilezz/botbourse/internal/sync"
	"github.com/adilezz/botbourse/pkg/logger"
)

type fakeSyncer struct {
	result *sync.Result
	err    error
}

func (s *fakeSyncer) Run(_ context.Context, _ time.Time) (*sync.Result, error) {
	return s.result, s.err
}

type fakeInstruments struct {
	list []contracts.Instrument
}

func (f *fakeInstruments) ListActive(_ context.Context) ([]contracts.Instrument, error) {
	return f.list, nil
}
func (f *fakeInstruments) Upsert(_ context.Context, _, _ string) error  { return nil }
func (f *fakeInstruments) Deactivate(_ context.Context, _ string) error { return nil }

type fakeQuotes struct {
	series map[string][]contracts.Quote
}

func (f *fakeQuotes) LatestDate(_ context.Context) (time.Time, bool, error) {
	return time.Time{}, false, nil
}
func (f *fakeQuotes) InsertIfAbsent(_ context.Context, _ contracts.Quote) (bool, error) {
	return false, nil
}
func (f *fakeQuotes) SeriesFor(_ context.Context, symbol string, _ int) ([]contracts.Quote, error) {
	return f.series[symbol], nil
}
func (f *fakeQuotes) LatestSessionQuotes(_ context.Context, _ time.Time) (map[string]contracts.SessionQuote, error) {
	return nil, nil
}
func (f *fakeQuotes) CorrectClose(_ context.Context, _ string, _ time.Time, _ float64) error {
	return nil
}

type fakeDividends struct {
	payouts map[string]float64
}

func (f *fakeDividends) LastDividends(_ context.Context) (map[string]float64, error) {
	return f.payouts, nil
}

type fakeExposure struct {
	total    float64
	bySymbol map[string]float64
}

func (f *fakeExposure) Exposure(_ context.Context) (float64, map[string]float64, error) {
	return f.total, f.bySymbol, nil
}

type fakeNotifier struct {
	sent []string
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, text)
	return nil
}

// risingSeries builds n sessions climbing from start to end with a small
// zigzag, so the trend is up but RSI stays in neutral territory. Liquid
// enough to pass the default turnover gate.
func risingSeries(symbol string, n int, start, end float64) []contracts.Quote {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	increment := (end - start) / float64(n-1)
	wiggle := 4 * increment

	series := make([]contracts.Quote, n)
	for i := range series {
		close := start + increment*float64(i)
		if i%2 == 1 {
			close += wiggle
		}
		series[i] = contracts.Quote{
			Symbol: symbol,
			Date:   base.AddDate(0, 0, i),
			Close:  close,
			Volume: 50_000,
		}
	}
	return series
}

func newTestRunner(notifier *fakeNotifier, syncer Syncer, exposure contracts.ExposureSource) *Runner {
	return NewRunner(Deps{
		Strategy: strategy.Default(),
		Syncer:   syncer,
		Instruments: &fakeInstruments{list: []contracts.Instrument{
			{Symbol: "IAM", Name: "Itissalat Al Maghrib", Active: true},
			{Symbol: "ATW", Name: "Attijariwafa Bank", Active: true},
		}},
		Quotes: &fakeQuotes{series: map[string][]contracts.Quote{
			"IAM": risingSeries("IAM", 250, 80, 100),
			"ATW": risingSeries("ATW", 250, 400, 500),
		}},
		Dividends: &fakeDividends{payouts: map[string]float64{"IAM": 5.0}},
		Exposure:  exposure,
		Notifier:  notifier,
		Logger:    logger.NewNop(),
	})
}

func friday() time.Time {
	return time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
}

func TestRun_FullCycleSendsWeeklyReport(t *testing.T) {
	notifier := &fakeNotifier{}
	runner := newTestRunner(notifier, &fakeSyncer{result: &sync.Result{RowsInserted: 42}}, nil)

	run, err := runner.Run(context.Background(), friday())
	require.NoError(t, err)

	assert.Equal(t, contracts.ReportWeekly, run.Kind)
	assert.Equal(t, 42, run.RowsInserted)

	// both instruments trend up and IAM carries a 5% yield
	require.NotEmpty(t, run.Opportunities)
	assert.Equal(t, "IAM", run.Opportunities[0].Symbol)
	assert.NotEmpty(t, run.Allocations)

	require.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0], "RAPPORT WEEKLY")
	assert.Contains(t, notifier.sent[0], "IAM")
}

func TestRun_QuietDailySendsNothing(t *testing.T) {
	notifier := &fakeNotifier{}
	runner := NewRunner(Deps{
		Strategy:    strategy.Default(),
		Syncer:      &fakeSyncer{result: &sync.Result{}},
		Instruments: &fakeInstruments{},
		Quotes:      &fakeQuotes{},
		Dividends:   &fakeDividends{},
		Notifier:    notifier,
		Logger:      logger.NewNop(),
	})

	// a plain Wednesday with no instruments at all
	run, err := runner.Run(context.Background(), time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, contracts.ReportDaily, run.Kind)
	assert.Empty(t, notifier.sent)
}

func TestRun_SyncFailureNotifiesAndAborts(t *testing.T) {
	notifier := &fakeNotifier{}
	runner := newTestRunner(notifier, &fakeSyncer{err: errors.New("exchange unreachable")}, nil)

	_, err := runner.Run(context.Background(), friday())
	require.Error(t, err)

	require.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0], "ERREUR SYNCHRONISATION")
	assert.Contains(t, notifier.sent[0], "exchange unreachable")
}

func TestRun_ExposureCapSuppressesOpportunity(t *testing.T) {
	notifier := &fakeNotifier{}
	// IAM already dominates the portfolio
	exposure := &fakeExposure{
		total:    20_000,
		bySymbol: map[string]float64{"IAM": 19_000},
	}
	runner := newTestRunner(notifier, &fakeSyncer{result: &sync.Result{}}, exposure)

	run, err := runner.Run(context.Background(), friday())
	require.NoError(t, err)

	for _, opp := range run.Opportunities {
		assert.NotEqual(t, "IAM", opp.Symbol, "capped symbol must not be recommended")
	}
}

func TestAnalyze_ReportKindFollowsCalendar(t *testing.T) {
	runner := newTestRunner(&fakeNotifier{}, &fakeSyncer{result: &sync.Result{}}, nil)

	monthEnd := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	run, err := runner.Analyze(context.Background(), monthEnd)
	require.NoError(t, err)
	assert.Equal(t, contracts.ReportMonthly, run.Kind)

	out := runner.formatter.FormatRun(*run)
	assert.Contains(t, out, "Bilan Mensuel")
}

func TestRun_DeliveryFailureIsAnError(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("telegram 502")}
	runner := newTestRunner(notifier, &fakeSyncer{result: &sync.Result{}}, nil)

	_, err := runner.Run(context.Background(), friday())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "deliver report"))
}

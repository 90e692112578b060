package sync

import (
	"context"
	"time"

	"github.com/adilezz/botbourse/internal/contracts"
)

// Window is the inclusive date range a sync run must fetch.
type Window struct {
	From time.Time
	To   time.Time
}

// Empty reports whether the store is already current, meaning there is
// nothing to fetch.
func (w Window) Empty() bool {
	return w.From.After(w.To)
}

// Days returns the calendar length of the window, 0 when empty.
func (w Window) Days() int {
	if w.Empty() {
		return 0
	}
	return int(w.To.Sub(w.From).Hours()/24) + 1
}

// ComputeWindow derives the fetch range from the latest stored date: the
// day after it through today. An empty store triggers a bootstrap window
// of bootstrapDays back from today. The window can come out empty when
// the store already holds today's session; callers treat that as a
// successful no-op run.
func ComputeWindow(ctx context.Context, store contracts.QuoteStore, today time.Time, bootstrapDays int) (Window, error) {
	today = truncateDay(today)

	latest, ok, err := store.LatestDate(ctx)
	if err != nil {
		return Window{}, err
	}
	if !ok {
		return Window{From: today.AddDate(0, 0, -bootstrapDays), To: today}, nil
	}

	return Window{From: truncateDay(latest).AddDate(0, 0, 1), To: today}, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

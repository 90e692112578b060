package contracts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKindForDate(t *testing.T) {
	tests := []struct {
		name string
		day  time.Time
		want ReportKind
	}{
		{"regular weekday", time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), ReportDaily}, // Wednesday
		{"friday", time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC), ReportWeekly},
		{"last day of month", time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), ReportMonthly},
		{"last day of month on friday", time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC), ReportMonthly},
		{"february end", time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), ReportMonthly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindForDate(tt.day))
		})
	}
}

func TestIndicatorSnapshot_Changes(t *testing.T) {
	s := &IndicatorSnapshot{Close: 110, PrevClose: 100, WeekClose: 120}

	day, ok := s.DayChange()
	assert.True(t, ok)
	assert.InDelta(t, 0.10, day, 1e-9)

	week, ok := s.WeekChange()
	assert.True(t, ok)
	assert.InDelta(t, -1.0/12.0, week, 1e-9)

	empty := &IndicatorSnapshot{Close: 110}
	_, ok = empty.DayChange()
	assert.False(t, ok)
	_, ok = empty.WeekChange()
	assert.False(t, ok)
}

func TestIndicatorSnapshot_AvgTurnover20(t *testing.T) {
	vol := 15000.0
	s := &IndicatorSnapshot{Close: 120, AvgVolume20: &vol}

	turnover, ok := s.AvgTurnover20()
	assert.True(t, ok)
	assert.InDelta(t, 1_800_000, turnover, 1e-6)

	s.AvgVolume20 = nil
	_, ok = s.AvgTurnover20()
	assert.False(t, ok)
}

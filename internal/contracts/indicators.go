package contracts

import "time"

// IndicatorSnapshot holds the derived technical figures for one instrument
// as of one date. It is recomputed on every analysis run and never stored.
// A nil field means the indicator is undefined because the series is
// shorter than its window; undefined is never reported as zero.
type IndicatorSnapshot struct {
	Symbol string
	AsOf   time.Time

	Close       float64
	PrevClose   float64
	WeekClose   float64 // close 5 sessions back, 0 if unavailable

	RSI14       *float64
	SMA20       *float64
	SMA50       *float64
	SMA200      *float64
	AvgVolume20 *float64
	Volatility  *float64 // annualized, stddev of daily returns x sqrt(252)
	CAGR        *float64 // compound annual growth rate over CAGRYears
	CAGRYears   int
}

// AvgTurnover20 returns the 20-session average turnover in currency units,
// or false when average volume is undefined.
func (s *IndicatorSnapshot) AvgTurnover20() (float64, bool) {
	if s.AvgVolume20 == nil {
		return 0, false
	}
	return *s.AvgVolume20 * s.Close, true
}

// DayChange returns the day-over-day close change as a fraction, or false
// when no previous session is known.
func (s *IndicatorSnapshot) DayChange() (float64, bool) {
	if s.PrevClose == 0 {
		return 0, false
	}
	return (s.Close - s.PrevClose) / s.PrevClose, true
}

// WeekChange returns the week-over-week close change as a fraction, or
// false when no session a week back is known.
func (s *IndicatorSnapshot) WeekChange() (float64, bool) {
	if s.WeekClose == 0 {
		return 0, false
	}
	return (s.Close - s.WeekClose) / s.WeekClose, true
}

package contracts

import "time"

// Opportunity is one ranked buy candidate produced by a scoring run.
// Transient: rebuilt on every run, never persisted.
type Opportunity struct {
	Symbol      string
	Name        string
	Close       float64
	Score       int
	Yield       float64 // dividend / close, as a percentage
	Reasons     []string
	TargetPrice float64
}

// RiskAlert flags an instrument whose recent decline crossed a crash
// threshold, independent of its score.
type RiskAlert struct {
	Symbol        string
	Name          string
	DayChangePct  float64 // day-over-day, percent
	WeekChangePct float64 // week-over-week, percent
}

// Allocation is the share purchase suggested for one opportunity under the
// configured budget split. Derived and stateless.
type Allocation struct {
	Symbol string
	Price  float64
	Shares int
	Cost   float64
}

// RunReport aggregates one full pipeline run for the report layer.
type RunReport struct {
	Date          time.Time
	Kind          ReportKind
	RowsInserted  int
	Opportunities []Opportunity
	Allocations   []Allocation
	Risks         []RiskAlert
	Budget        float64
	PortfolioValue float64
}

// ReportKind is the cadence of a report.
type ReportKind string

const (
	ReportDaily   ReportKind = "DAILY"
	ReportWeekly  ReportKind = "WEEKLY"
	ReportMonthly ReportKind = "MONTHLY"
)

// KindForDate returns the report cadence for a given calendar day:
// MONTHLY on the last day of a month, WEEKLY on Fridays, DAILY otherwise.
func KindForDate(day time.Time) ReportKind {
	if day.AddDate(0, 0, 1).Month() != day.Month() {
		return ReportMonthly
	}
	if day.Weekday() == time.Friday {
		return ReportWeekly
	}
	return ReportDaily
}

package contracts

import "time"

// Quote is one end-of-day session record for an instrument. At most one
// quote exists per (symbol, date); once written a quote is immutable except
// through the explicit correction path on the store.
type Quote struct {
	Symbol string
	Date   time.Time
	Open   float64 // 0 when the source did not publish the field
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// SessionQuote is the (close, volume) pair of one symbol on one session,
// used for same-day liquidity screening.
type SessionQuote struct {
	Close  float64
	Volume float64
}

// Turnover returns close x volume in currency units, the liquidity proxy.
func (q SessionQuote) Turnover() float64 {
	return q.Close * q.Volume
}

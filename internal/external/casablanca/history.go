package casablanca

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/adilezz/botbourse/internal/contracts"
	"github.com/adilezz/botbourse/pkg/numparse"
)

// historyRow mirrors one session in the exchange's history endpoint.
// The feed uses French field names and locale-formatted numbers, so every
// numeric field arrives as a string.
type historyRow struct {
	Seance string `json:"seance"`
	Open   string `json:"ouverture"`
	High   string `json:"plus_haut"`
	Low    string `json:"plus_bas"`
	Close  string `json:"cours_cloture"`
	Volume string `json:"volume"`
}

// FetchHistory fetches daily quotes for one symbol within [from, to].
// Rows outside the window, with an unparseable date, or with a zero close
// are dropped; the result is sorted by date ascending.
func (c *Client) FetchHistory(ctx context.Context, symbol string, from, to time.Time) ([]contracts.Quote, error) {
	url := fmt.Sprintf("%s/api/bourse/instruments/%s/history?from=%s&to=%s",
		c.baseURL, symbol, from.Format("2006-01-02"), to.Format("2006-01-02"))

	body, err := c.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", symbol, err)
	}

	quotes, err := parseHistory(body, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("parse history for %s: %w", symbol, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(quotes),
	}).Debug("Fetched quote history")
	return quotes, nil
}

// parseHistory decodes the history payload. JSON is tried first; a regex
// scan over the raw body is the fallback for the older HTML-wrapped feed.
func parseHistory(body, symbol string, from, to time.Time) ([]contracts.Quote, error) {
	body = strings.TrimSpace(body)

	var rows []historyRow
	if err := json.Unmarshal([]byte(body), &rows); err == nil {
		return quotesFromRows(rows, symbol, from, to), nil
	}

	// some responses wrap the array in a result envelope
	var envelope struct {
		Result []historyRow `json:"result"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err == nil && len(envelope.Result) > 0 {
		return quotesFromRows(envelope.Result, symbol, from, to), nil
	}

	return parseHistoryRegex(body, symbol, from, to)
}

func quotesFromRows(rows []historyRow, symbol string, from, to time.Time) []contracts.Quote {
	var quotes []contracts.Quote
	for _, row := range rows {
		date, err := parseSessionDate(row.Seance)
		if err != nil {
			continue
		}
		if date.Before(from) || date.After(to) {
			continue
		}

		q := contracts.Quote{
			Symbol: symbol,
			Date:   date,
			Open:   numparse.Parse(row.Open),
			High:   numparse.Parse(row.High),
			Low:    numparse.Parse(row.Low),
			Close:  numparse.Parse(row.Close),
			Volume: numparse.Parse(row.Volume),
		}
		if q.Close == 0 {
			continue
		}
		quotes = append(quotes, q)
	}

	sort.Slice(quotes, func(i, j int) bool { return quotes[i].Date.Before(quotes[j].Date) })
	return quotes
}

// sessionRowPattern matches "date;open;high;low;close;volume" lines in the
// legacy semicolon-delimited feed.
var sessionRowPattern = regexp.MustCompile(
	`(\d{2}/\d{2}/\d{4});([^;]*);([^;]*);([^;]*);([^;]*);([^;\s]*)`)

// parseHistoryRegex is the fallback for the semicolon-delimited format.
func parseHistoryRegex(body, symbol string, from, to time.Time) ([]contracts.Quote, error) {
	matches := sessionRowPattern.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no session rows recognized in payload")
	}

	rows := make([]historyRow, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, historyRow{
			Seance: m[1], Open: m[2], High: m[3], Low: m[4], Close: m[5], Volume: m[6],
		})
	}
	return quotesFromRows(rows, symbol, from, to), nil
}

// parseSessionDate accepts the two date formats the exchange has used.
func parseSessionDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized session date %q", s)
}

package casablanca

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/adilezz/botbourse/internal/contracts"
)

// ListAvailable scrapes the equity market page and returns every listed
// instrument. Filtering (symbol length, blacklist) is the caller's job.
func (c *Client) ListAvailable(ctx context.Context) ([]contracts.Listing, error) {
	url := fmt.Sprintf("%s/en/live-market/marche-actions", c.baseURL)

	body, err := c.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch equity market page: %w", err)
	}

	listings, err := parseListingsHTML(body)
	if err != nil {
		return nil, err
	}

	c.logger.WithField("count", len(listings)).Debug("Fetched instrument listings")
	return listings, nil
}

// parseListingsHTML extracts (symbol, name) pairs from the market table.
// Rows without a plausible ticker cell are skipped.
func parseListingsHTML(body string) ([]contracts.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse market page HTML: %w", err)
	}

	var listings []contracts.Listing
	seen := make(map[string]bool)

	doc.Find("table tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		// first cell holds the instrument name with a link, the ticker is
		// carried in the row's data attribute or the second cell
		symbol := strings.TrimSpace(row.AttrOr("data-ticker", ""))
		if symbol == "" {
			symbol = strings.TrimSpace(cells.Eq(1).Text())
		}
		name := strings.TrimSpace(cells.Eq(0).Text())

		symbol = strings.ToUpper(symbol)
		if symbol == "" || name == "" || seen[symbol] {
			return
		}
		if !isTicker(symbol) {
			return
		}

		seen[symbol] = true
		listings = append(listings, contracts.Listing{Symbol: symbol, Name: name})
	})

	if len(listings) == 0 {
		return nil, fmt.Errorf("no instruments found in market page")
	}
	return listings, nil
}

// isTicker reports whether s looks like an exchange ticker: short, upper
// case letters only.
func isTicker(s string) bool {
	if len(s) < 2 || len(s) > 6 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

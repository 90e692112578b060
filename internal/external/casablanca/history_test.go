package casablanca

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func window(t *testing.T) (time.Time, time.Time) {
	t.Helper()
	return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
}

func TestParseHistory_JSON(t *testing.T) {
	from, to := window(t)
	body := `[
		{"seance":"2026-08-26","ouverture":"92,50","plus_haut":"94,00","plus_bas":"91,80","cours_cloture":"93,20","volume":"1 250 000"},
		{"seance":"2026-08-27","ouverture":"93,20","plus_haut":"93,90","plus_bas":"92,70","cours_cloture":"93,50","volume":"980 400"}
	]`

	quotes, err := parseHistory(body, "IAM", from, to)
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	assert.Equal(t, "IAM", quotes[0].Symbol)
	assert.Equal(t, time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), quotes[0].Date)
	assert.InDelta(t, 93.2, quotes[0].Close, 1e-9)
	assert.InDelta(t, 1250000, quotes[0].Volume, 1e-9)
	assert.True(t, quotes[0].Date.Before(quotes[1].Date))
}

func TestParseHistory_Envelope(t *testing.T) {
	from, to := window(t)
	body := `{"result":[{"seance":"2026-08-27","ouverture":"500","plus_haut":"505","plus_bas":"498","cours_cloture":"502,75","volume":"12 000"}]}`

	quotes, err := parseHistory(body, "ATW", from, to)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.InDelta(t, 502.75, quotes[0].Close, 1e-9)
}

func TestParseHistory_RegexFallback(t *testing.T) {
	from, to := window(t)
	body := `<html><body>
		26/08/2026;92,50;94,00;91,80;93,20;1250000
		27/08/2026;93,20;93,90;92,70;93,50;980400
	</body></html>`

	quotes, err := parseHistory(body, "IAM", from, to)
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.InDelta(t, 93.5, quotes[1].Close, 1e-9)
}

func TestParseHistory_DropsBadRows(t *testing.T) {
	from, to := window(t)
	body := `[
		{"seance":"2026-08-26","cours_cloture":"93,20","volume":"100"},
		{"seance":"not a date","cours_cloture":"50","volume":"100"},
		{"seance":"2026-08-27","cours_cloture":"--","volume":"100"},
		{"seance":"2026-07-01","cours_cloture":"80","volume":"100"}
	]`

	quotes, err := parseHistory(body, "IAM", from, to)
	require.NoError(t, err)

	// only the first row survives: bad date, zero close after
	// normalization and out-of-window rows are all dropped
	require.Len(t, quotes, 1)
	assert.Equal(t, time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), quotes[0].Date)
}

func TestParseHistory_Unrecognized(t *testing.T) {
	from, to := window(t)
	_, err := parseHistory("<html>maintenance</html>", "IAM", from, to)
	assert.Error(t, err)
}

func TestParseListingsHTML(t *testing.T) {
	body := `<html><body><table><tbody>
		<tr data-ticker="IAM"><td>Itissalat Al Maghrib</td><td>IAM</td></tr>
		<tr><td>Attijariwafa Bank</td><td>ATW</td></tr>
		<tr><td>Attijariwafa Bank</td><td>ATW</td></tr>
		<tr><td>Some index row</td><td>MASI 12 345</td></tr>
		<tr><td></td><td>BCP</td></tr>
	</tbody></table></body></html>`

	listings, err := parseListingsHTML(body)
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, "IAM", listings[0].Symbol)
	assert.Equal(t, "ATW", listings[1].Symbol)
	assert.Equal(t, "Attijariwafa Bank", listings[1].Name)
}

func TestParseListingsHTML_Empty(t *testing.T) {
	_, err := parseListingsHTML("<html><body></body></html>")
	assert.Error(t, err)
}

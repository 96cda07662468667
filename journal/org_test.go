package journal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradematch/match"
)

func TestFormatTripOrg(t *testing.T) {
	t.Parallel()

	result := FormatTripOrg(sampleTrip())

	assert.Contains(t, result, "** Trade: 小型臺指 2024-01-02 (01234567)")
	assert.Contains(t, result, ":PROPERTIES:")
	assert.Contains(t, result, ":FILL_ID: 0123456789abcdef")
	assert.Contains(t, result, ":CONTRACT: 小型臺指")
	assert.Contains(t, result, ":QUANTITY: 2")
	assert.Contains(t, result, ":OPEN_PRICE: 17650")
	assert.Contains(t, result, ":CLOSE_PRICE: 17702")
	assert.Contains(t, result, ":OPEN_TIME: 2024-01-02 08:46:01")
	assert.Contains(t, result, ":CLOSE_TIME: 2024-01-02 13:44:59")
	assert.Contains(t, result, ":HELD: 4h58m58s")
	assert.Contains(t, result, ":NET_PNL: -1234")
	assert.True(t, strings.HasSuffix(result, ":END:\n"))
}

func TestFormatTripOrgShortID(t *testing.T) {
	t.Parallel()

	trip := sampleTrip()
	trip.FillID = "short"
	assert.Contains(t, FormatTripOrg(trip), "(short)")
}

func TestFormatTripsOrg(t *testing.T) {
	t.Parallel()

	a := sampleTrip()
	b := sampleTrip()
	b.Contract = "TXF"

	out := FormatTripsOrg([]match.RoundTrip{a, b})
	assert.Equal(t, 2, strings.Count(out, "** Trade:"))
	assert.Contains(t, out, ":END:\n\n** Trade: TXF")

	assert.Empty(t, FormatTripsOrg(nil))
}

func TestOrgJournal(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trips.org")
	j, err := NewOrg(path)
	require.NoError(t, err)
	require.NoError(t, RecordAll(j, []match.RoundTrip{sampleTrip(), sampleTrip()}))
	require.NoError(t, j.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "* Round trips\n"))
	assert.Equal(t, 2, strings.Count(string(data), ":PROPERTIES:"))
}

func TestFormatReportOrg(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)
	out, err := FormatReportOrg(match.Report{
		RunID:         "01HX",
		Window:        5,
		Started:       start,
		Finished:      start.Add(1500 * time.Millisecond),
		Trades:        10,
		Fills:         40,
		Joined:        9,
		JoinMisses:    1,
		Resolved:      8,
		ResolveMisses: 1,
		Emitted:       8,
		FirstClose:    start,
		NetPnL:        4200,
	})
	require.NoError(t, err)

	assert.Contains(t, out, "* MERGE: 01HX")
	assert.Contains(t, out, ":WINDOW:      5")
	assert.Contains(t, out, ":ELAPSED:     1.5s")
	assert.Contains(t, out, ":FIRST_CLOSE: 2024-01-03 09:00:00")
	assert.Contains(t, out, ":LAST_CLOSE:  -")
	assert.Contains(t, out, "| No close fill          | 1 |")
	assert.Contains(t, out, "| Written                | 8 |")
	assert.Contains(t, out, "Match rate: *80.0%*")
	assert.Contains(t, out, "Net P/L of written trades: *4200*")
}

func TestFormatReportOrgNoTrades(t *testing.T) {
	t.Parallel()

	out, err := FormatReportOrg(match.Report{})
	require.NoError(t, err)
	assert.Contains(t, out, "(run-id?)")
	assert.Contains(t, out, "Match rate: *0.0%*")
}

package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeParser(t *testing.T) {
	t.Parallel()

	p := NewTimeParser(time.UTC)
	want := time.Date(2023, 1, 1, 9, 5, 0, 0, time.UTC)

	for _, in := range []string{
		"2023/01/01 09:05:00",
		"2023/1/1 9:05:00",
		"2023-01-01 09:05:00",
		"2023-01-01T09:05:00Z",
		"2023-01-01T09:05:00",
		"2023/01/01 09:05",
	} {
		got, err := p.Parse(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s -> %s", in, got)
	}

	d, err := p.Parse("2023-01-01")
	require.NoError(t, err)
	assert.True(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).Equal(d))
}

func TestTimeParserFractionalSeconds(t *testing.T) {
	t.Parallel()

	p := NewTimeParser(time.UTC)
	got, err := p.Parse("2023-01-01 09:05:00.250")
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, time.Duration(got.Nanosecond()))
}

func TestTimeParserErrors(t *testing.T) {
	t.Parallel()

	p := NewTimeParser(nil)
	assert.Equal(t, time.Local, p.Location)

	_, err := p.Parse("")
	assert.Error(t, err)

	_, err = p.Parse("yesterday")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "yesterday")
}

func TestTimeParserExtraLayoutsFirst(t *testing.T) {
	t.Parallel()

	p := NewTimeParser(time.UTC, "02.01.2006 15:04")
	got, err := p.Parse("03.02.2024 10:30")
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 2, 3, 10, 30, 0, 0, time.UTC).Equal(got))
}

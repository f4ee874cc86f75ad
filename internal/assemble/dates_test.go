package assemble

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDateFeedFormat(t *testing.T) {
	got, err := NormalizeDate("03/19/2020", "01/02/2006")
	require.NoError(t, err)
	assert.Equal(t, "2020-03-19", got)
}

func TestNormalizeDateTabularFormats(t *testing.T) {
	layouts := []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05Z"}

	got, err := NormalizeDate("2020-03-19 00:00:00", layouts...)
	require.NoError(t, err)
	assert.Equal(t, "2020-03-19", got)

	got, err = NormalizeDate("2020-03-24T00:00:00Z", layouts...)
	require.NoError(t, err)
	assert.Equal(t, "2020-03-24", got)
}

func TestNormalizeDateMalformed(t *testing.T) {
	for _, raw := range []string{"", "19/03/2020", "next tuesday", "2020-03-19"} {
		_, err := NormalizeDate(raw, "01/02/2006")
		assert.ErrorIs(t, err, ErrMalformedDate, "raw=%q", raw)
	}
}

func TestNormalizeDateOutputShape(t *testing.T) {
	iso := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	inputs := []string{"01/01/2020", "12/31/2024", "03/19/2020"}
	for _, raw := range inputs {
		got, err := NormalizeDate(raw, "01/02/2006")
		require.NoError(t, err)
		assert.Regexp(t, iso, got)
	}
}

package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupMonth(t *testing.T) {
	tests := []struct {
		token string
		want  time.Month
		ok    bool
	}{
		{"jan", time.January, true},
		{"JANUARY", time.January, true},
		{"Sept", time.September, true},
		{"sep", time.September, true},
		{"dec", time.December, true},
		{"ma", 0, false},
		{"janu", time.January, true},
		{"januaryy", 0, false},
		{"q1", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := LookupMonth(tt.token)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandYear(t *testing.T) {
	y, err := ExpandYear("25")
	require.NoError(t, err)
	assert.Equal(t, 2025, y)

	y, err = ExpandYear("1999")
	require.NoError(t, err)
	assert.Equal(t, 1999, y)

	_, err = ExpandYear("225")
	assert.Error(t, err)
}

func TestCanonicalPeriod(t *testing.T) {
	got, ok := CanonicalPeriod("mar. 2024")
	assert.True(t, ok)
	assert.Equal(t, "Mar-24", got)

	_, ok = CanonicalPeriod("2024")
	assert.False(t, ok)
	_, ok = CanonicalPeriod("Foo-24")
	assert.False(t, ok)
}

func TestPrecedingPeriod(t *testing.T) {
	assert.Equal(t, "Dec-23", PrecedingPeriod(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Feb-24", PrecedingPeriod(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)))
}

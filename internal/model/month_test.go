package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2024-05")
	require.NoError(t, err)
	assert.Equal(t, 2024, m.Year)
	assert.Equal(t, time.May, m.Month)
	assert.Equal(t, "2024-05", m.String())

	_, err = ParseMonth("2024-13")
	assert.Error(t, err)
	_, err = ParseMonth("May 2024")
	assert.Error(t, err)
}

func TestMonthContains(t *testing.T) {
	may := Month{Year: 2024, Month: time.May}

	assert.True(t, may.Contains(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, may.Contains(time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, may.Contains(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, may.Contains(time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)))

	// The zero month means no restriction at all.
	var none Month
	assert.True(t, none.IsZero())
	assert.True(t, none.Contains(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", none.String())
}

func TestMonthNavigation(t *testing.T) {
	jan := Month{Year: 2024, Month: time.January}

	assert.Equal(t, Month{Year: 2023, Month: time.December}, jan.Prev())
	assert.Equal(t, Month{Year: 2024, Month: time.February}, jan.Next())

	dec := Month{Year: 2024, Month: time.December}
	assert.Equal(t, Month{Year: 2025, Month: time.January}, dec.Next())
}

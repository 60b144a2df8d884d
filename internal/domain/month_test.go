package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2025-01")
	require.NoError(t, err)
	assert.Equal(t, Month{Year: 2025, Month: time.January}, m)

	_, err = ParseMonth("2025-13")
	assert.Error(t, err)

	_, err = ParseMonth("January 2025")
	assert.Error(t, err)
}

func TestMonth_Date(t *testing.T) {
	m := Month{Year: 2025, Month: time.March}
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), m.Date())
}

func TestMonth_Formats(t *testing.T) {
	m := Month{Year: 2025, Month: time.March}
	assert.Equal(t, "2025-03", m.String())
	assert.Equal(t, "Mar 2025", m.Label())
}

func TestMonth_Next(t *testing.T) {
	assert.Equal(t, Month{Year: 2025, Month: time.February}, Month{Year: 2025, Month: time.January}.Next())
	// Year rollover
	assert.Equal(t, Month{Year: 2026, Month: time.January}, Month{Year: 2025, Month: time.December}.Next())
}

func TestMonth_Before(t *testing.T) {
	jan := Month{Year: 2025, Month: time.January}
	feb := Month{Year: 2025, Month: time.February}
	dec24 := Month{Year: 2024, Month: time.December}

	assert.True(t, jan.Before(feb))
	assert.True(t, dec24.Before(jan))
	assert.False(t, feb.Before(jan))
	assert.False(t, jan.Before(jan))
}

func TestMonthOf(t *testing.T) {
	assert.Equal(t, Month{Year: 2025, Month: time.July}, MonthOf(2025, time.July))
}

func TestMonthFromTime(t *testing.T) {
	ts := time.Date(2025, 7, 19, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, Month{Year: 2025, Month: time.July}, MonthFromTime(ts))
}

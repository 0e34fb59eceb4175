package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		input   string
		wantErr error
	}{
		{"00:00", nil},
		{"09:30", nil},
		{"23:59", nil},
		{"24:00", nil}, // эксклюзивная граница конца дня
		{"24:01", ErrTimeOutOfRange},
		{"25:00", ErrTimeOutOfRange},
		{"12:60", ErrTimeOutOfRange},
		{"9:30", ErrInvalidTimeString},
		{"09.30", ErrInvalidTimeString},
		{"", ErrInvalidTimeString},
		{"aa:bb", ErrInvalidTimeString},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ts, err := NewTimeStringFromString(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, ts.String())
		})
	}
}

func TestMinutes(t *testing.T) {
	ts, err := NewTimeStringFromString("10:45")
	require.NoError(t, err)

	mins, err := ts.Minutes()
	require.NoError(t, err)
	assert.Equal(t, 645, mins)

	endOfDay, err := NewTimeStringFromString("24:00")
	require.NoError(t, err)
	mins, err = endOfDay.Minutes()
	require.NoError(t, err)
	assert.Equal(t, 1440, mins)
}

func TestAddMinutes(t *testing.T) {
	ts, err := NewTimeStringFromString("09:00")
	require.NoError(t, err)

	shifted, err := ts.AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, "10:30", shifted.String())

	// Выход за пределы суток
	_, err = ts.AddMinutes(16 * 60)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)
}

func TestComparisons(t *testing.T) {
	morning, _ := NewTimeStringFromString("09:00")
	evening, _ := NewTimeStringFromString("18:00")

	assert.True(t, morning.IsBefore(evening))
	assert.False(t, evening.IsBefore(morning))
	assert.True(t, evening.IsAfter(morning))
	assert.False(t, morning.IsBefore(morning))
}

func TestJSONRoundTrip(t *testing.T) {
	ts, err := NewTimeStringFromString("14:30")
	require.NoError(t, err)

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"14:30"`, string(data))

	var parsed TimeString
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, ts, parsed)

	assert.Error(t, json.Unmarshal([]byte(`"25:00"`), &parsed))
}

func TestScan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("10:00:00")) // Postgres TIME приходит с секундами
	assert.Equal(t, "10:00", ts.String())

	require.NoError(t, ts.Scan([]byte("11:15")))
	assert.Equal(t, "11:15", ts.String())

	require.NoError(t, ts.Scan(time.Date(2026, 3, 2, 8, 45, 0, 0, time.UTC)))
	assert.Equal(t, "08:45", ts.String())

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func interval(startHour, startMin, endHour, endMin int) Interval {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return Interval{
		Start: day.Add(time.Duration(startHour)*time.Hour + time.Duration(startMin)*time.Minute),
		End:   day.Add(time.Duration(endHour)*time.Hour + time.Duration(endMin)*time.Minute),
	}
}

func TestIntervalOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    Interval
		b    Interval
		want bool
	}{
		{"identical", interval(10, 0, 11, 0), interval(10, 0, 11, 0), true},
		{"partial overlap", interval(10, 0, 11, 0), interval(10, 30, 11, 30), true},
		{"contained", interval(9, 0, 17, 0), interval(10, 0, 10, 30), true},
		{"back to back is not a conflict", interval(10, 0, 11, 0), interval(11, 0, 12, 0), false},
		{"back to back reversed", interval(11, 0, 12, 0), interval(10, 0, 11, 0), false},
		{"disjoint", interval(8, 0, 9, 0), interval(12, 0, 13, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a), "overlap must be symmetric")
		})
	}
}

func TestIntervalContains(t *testing.T) {
	open := interval(9, 0, 17, 0)

	assert.True(t, open.Contains(interval(9, 0, 9, 30)))
	assert.True(t, open.Contains(interval(16, 30, 17, 0)))
	assert.True(t, open.Contains(open))
	assert.False(t, open.Contains(interval(8, 30, 9, 30)))
	assert.False(t, open.Contains(interval(16, 45, 17, 15)))
}

func TestSubtractAll(t *testing.T) {
	open := interval(9, 0, 17, 0)

	t.Run("no busy intervals", func(t *testing.T) {
		free := SubtractAll(open, nil)
		require.Len(t, free, 1)
		assert.Equal(t, open, free[0])
	})

	t.Run("single busy block splits the day", func(t *testing.T) {
		free := SubtractAll(open, []Interval{interval(10, 0, 10, 30)})
		require.Len(t, free, 2)
		assert.Equal(t, interval(9, 0, 10, 0), free[0])
		assert.Equal(t, interval(10, 30, 17, 0), free[1])
	})

	t.Run("busy block at the open boundary", func(t *testing.T) {
		free := SubtractAll(open, []Interval{interval(9, 0, 10, 0)})
		require.Len(t, free, 1)
		assert.Equal(t, interval(10, 0, 17, 0), free[0])
	})

	t.Run("unsorted overlapping busy blocks", func(t *testing.T) {
		busy := []Interval{
			interval(14, 0, 15, 0),
			interval(10, 0, 11, 0),
			interval(10, 30, 11, 30),
		}
		free := SubtractAll(open, busy)
		require.Len(t, free, 3)
		assert.Equal(t, interval(9, 0, 10, 0), free[0])
		assert.Equal(t, interval(11, 30, 14, 0), free[1])
		assert.Equal(t, interval(15, 0, 17, 0), free[2])
	})

	t.Run("busy covers the whole open interval", func(t *testing.T) {
		free := SubtractAll(open, []Interval{interval(8, 0, 18, 0)})
		assert.Empty(t, free)
	})

	t.Run("busy outside the open interval is ignored", func(t *testing.T) {
		free := SubtractAll(open, []Interval{interval(18, 0, 19, 0), interval(7, 0, 8, 0)})
		require.Len(t, free, 1)
		assert.Equal(t, open, free[0])
	})
}

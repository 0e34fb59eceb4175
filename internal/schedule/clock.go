package schedule

import (
	"fmt"
	"sync"
	"time"

	"github.com/clinicbot-ai/scheduling-service/internal/domain"
	"github.com/clinicbot-ai/scheduling-service/pkg/types"
)

// Clock converts between a clinic's local wall-clock time and absolute
// instants. All stored instants are zone-independent (UTC); all calendar data
// is wall-clock relative to the clinic's configured zone.
type Clock struct {
	loc *time.Location
}

var (
	clockCacheMu sync.Mutex
	clockCache   = map[string]*Clock{}
)

// ClockFor returns a Clock for the given IANA timezone name. Clocks are
// cached per zone; loading an unknown zone fails with ErrUnknownTimezone.
func ClockFor(tz string) (*Clock, error) {
	clockCacheMu.Lock()
	defer clockCacheMu.Unlock()

	if c, ok := clockCache[tz]; ok {
		return c, nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimezone, tz)
	}

	c := &Clock{loc: loc}
	clockCache[tz] = c
	return c, nil
}

// Location returns the underlying time.Location
func (c *Clock) Location() *time.Location {
	return c.loc
}

// foldDeltas covers the DST shift sizes that occur in practice (most zones
// shift a full hour, a few shift 30 minutes)
var foldDeltas = []time.Duration{
	-time.Hour, -30 * time.Minute, 30 * time.Minute, time.Hour,
}

// ToAbsolute maps a wall-clock time on the given calendar date to an absolute
// instant in the clock's zone.
//
// A local time skipped by a spring-forward transition fails with
// ErrAmbiguousLocalTime. A local time that occurs twice during a fall-back
// transition resolves to the earlier instant deterministically.
func (c *Clock) ToAbsolute(date time.Time, local types.TimeString) (time.Time, error) {
	mins, err := local.Minutes()
	if err != nil {
		return time.Time{}, err
	}

	year, month, day := date.Date()

	// "24:00" is an exclusive end-of-day boundary: midnight of the next day
	t := time.Date(year, month, day+mins/(24*60), (mins/60)%24, mins%60, 0, 0, c.loc)

	if !c.sameWall(t, year, month, day, mins) {
		// time.Date normalized a nonexistent local time to a different wall
		// clock: the requested time falls into a spring-forward gap
		return time.Time{}, fmt.Errorf("%w: %s %s in %s",
			ErrAmbiguousLocalTime, date.Format(domain.DateFormat), local, c.loc)
	}

	// During a fold two instants share the same wall clock; probe the
	// plausible shifts and keep the earliest matching instant
	earliest := t
	for _, delta := range foldDeltas {
		alt := t.Add(delta)
		if c.sameWall(alt, year, month, day, mins) && alt.Before(earliest) {
			earliest = alt
		}
	}

	return earliest, nil
}

// ToLocal projects an absolute instant onto the clinic's wall clock
func (c *Clock) ToLocal(instant time.Time) (date string, tod types.TimeString) {
	local := instant.In(c.loc)
	return local.Format(domain.DateFormat), types.NewTimeString(local)
}

// sameWall reports whether t, viewed in the clock's zone, shows exactly the
// requested calendar date and minutes-since-midnight
func (c *Clock) sameWall(t time.Time, year int, month time.Month, day int, mins int) bool {
	local := t.In(c.loc)
	y, m, d := local.Date()

	wantY, wantM, wantD := year, month, day
	wantMins := mins
	if mins == 24*60 {
		// normalize the 24:00 boundary onto the next day for comparison
		next := time.Date(year, month, day+1, 0, 0, 0, 0, time.UTC)
		wantY, wantM, wantD = next.Date()
		wantMins = 0
	}

	return y == wantY && m == wantM && d == wantD &&
		local.Hour()*60+local.Minute() == wantMins
}

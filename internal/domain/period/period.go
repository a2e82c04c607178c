package period

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidPeriod = errors.New("invalid period")

// Period is a closed calendar-month interval [Start, End].
type Period struct {
	Start time.Time
	End   time.Time
	Month int
	Year  int
}

// Derive builds the calendar month for the given month/year. A missing part is taken
// from now, so (nil, nil) is the current month. Bounds are in now's location.
func Derive(month, year *int, now time.Time) (Period, error) {
	m := int(now.Month())
	y := now.Year()

	if month != nil {
		if *month < 1 || *month > 12 {
			return Period{}, fmt.Errorf("%w: month must be between 1 and 12, got %d", ErrInvalidPeriod, *month)
		}
		m = *month
	}
	if year != nil {
		if *year <= 0 {
			return Period{}, fmt.Errorf("%w: year must be positive, got %d", ErrInvalidPeriod, *year)
		}
		y = *year
	}

	return Of(y, time.Month(m), now.Location()), nil
}

// Of returns the calendar month of year/month in loc without validation.
func Of(year int, month time.Month, loc *time.Location) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0).Add(-time.Millisecond)
	return Period{
		Start: start,
		End:   end,
		Month: int(month),
		Year:  year,
	}
}

func (p Period) Days() int {
	return p.End.Day()
}

// Date returns midnight of the given 1-based day of the period.
func (p Period) Date(day int) time.Time {
	return p.Start.AddDate(0, 0, day-1)
}

func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Label formats the period as YYYY-MM.
func (p Period) Label() string {
	return p.Start.Format("2006-01")
}

type Clock func() time.Time

// ClockIn reports the wall clock in loc, so derived periods follow the configured zone.
func ClockIn(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return func() time.Time {
		return time.Now().In(loc)
	}
}

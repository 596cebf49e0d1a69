// Package zones holds ZoneFinder implementations that do not need the
// PostGIS store.
package zones

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
	_ "time/tzdata"

	"github.com/naturalist-tools/inat-tz/services/api/lookup"
)

// FormatOffset renders an offset in seconds east of UTC as ±HH:MM.
func FormatOffset(seconds int) string {
	sign := '+'
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	return fmt.Sprintf("%c%02d:%02d", sign, seconds/3600, seconds%3600/60)
}

// standardOffset returns the zone's offset outside daylight saving time,
// taken as the smaller of its January and July offsets in year.
func standardOffset(loc *time.Location, year int) int {
	_, jan := time.Date(year, time.January, 1, 12, 0, 0, 0, loc).Zone()
	_, jul := time.Date(year, time.July, 1, 12, 0, 0, 0, loc).Zone()
	return min(jan, jul)
}

// recordFor builds a record for an IANA name. The downstream submission API
// accepts IANA names, so inatid mirrors ianaid.
func recordFor(name string, now time.Time) (*lookup.TimeZoneRecord, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load zone %q: %w", name, err)
	}
	return &lookup.TimeZoneRecord{
		IANAID:    name,
		INatID:    name,
		UTCOffset: FormatOffset(standardOffset(loc, now.Year())),
	}, nil
}

func classify(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return lookup.Unavailable(err)
	}
	return err
}

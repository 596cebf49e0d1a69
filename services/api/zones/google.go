package zones

import (
	"context"
	"time"

	"googlemaps.github.io/maps"

	"github.com/naturalist-tools/inat-tz/services/api/lookup"
)

type timezoneAPI interface {
	Timezone(ctx context.Context, r *maps.TimezoneRequest) (*maps.TimezoneResult, error)
}

// GoogleFinder resolves zones with the Google Maps Time Zone API.
type GoogleFinder struct {
	client timezoneAPI
	now    func() time.Time
}

// NewGoogleFinder creates a GoogleFinder for apiKey.
func NewGoogleFinder(apiKey string) (*GoogleFinder, error) {
	c, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GoogleFinder{client: c, now: time.Now}, nil
}

// FindZoneContaining queries the API for (lon, lat). The raw offset returned
// by the API already excludes daylight saving time.
func (g *GoogleFinder) FindZoneContaining(ctx context.Context, lon, lat float64) (*lookup.TimeZoneRecord, error) {
	res, err := g.client.Timezone(ctx, &maps.TimezoneRequest{
		Location:  &maps.LatLng{Lat: lat, Lng: lon},
		Timestamp: g.now(),
	})
	if err != nil {
		return nil, classify(err)
	}
	// The client reports ZERO_RESULTS as success with an empty result.
	if res == nil || res.TimeZoneID == "" {
		return nil, lookup.ErrZoneNotFound
	}

	return &lookup.TimeZoneRecord{
		IANAID:    res.TimeZoneID,
		INatID:    res.TimeZoneID,
		UTCOffset: FormatOffset(res.RawOffset),
	}, nil
}

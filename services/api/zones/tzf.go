package zones

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ringsaturn/tzf"

	"github.com/naturalist-tools/inat-tz/services/api/lookup"
)

// nameFinder is the part of tzf.F the finder uses.
type nameFinder interface {
	GetTimezoneName(lng float64, lat float64) string
}

// PolygonFinder resolves zones from the polygon set bundled with tzf.
type PolygonFinder struct {
	finder nameFinder
	now    func() time.Time
}

// NewPolygonFinder loads the default tzf polygon set. Loading takes a few
// hundred milliseconds and tens of megabytes, so build it once per process.
func NewPolygonFinder() (*PolygonFinder, error) {
	f, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("init tzf finder: %w", err)
	}
	return &PolygonFinder{finder: f, now: time.Now}, nil
}

// FindZoneContaining returns the land zone containing (lon, lat). The
// nautical Etc/GMT zones tzf reports over open water count as no match.
func (p *PolygonFinder) FindZoneContaining(_ context.Context, lon, lat float64) (*lookup.TimeZoneRecord, error) {
	name := p.finder.GetTimezoneName(lon, lat)
	if name == "" || strings.HasPrefix(name, "Etc/") {
		return nil, lookup.ErrZoneNotFound
	}
	return recordFor(name, p.now())
}

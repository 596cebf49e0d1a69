// Package exifmeta turns the embedded metadata of a photo into the
// timestamp and position fields of an observation.
package exifmeta

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/naturalist-tools/inat-tz/services/libs/logging"
	"github.com/naturalist-tools/inat-tz/services/uploader/internal/coord"
)

const (
	DefaultCoordPrecision = 4
	DefaultAltPrecision   = 0

	exifDateLayout = "2006:01:02 15:04:05"
	isoDateLayout  = "2006-01-02T15:04:05"
)

// Field names reported in ObservationMetadata.Missing.
const (
	FieldTimestamp = "timestamp"
	FieldLongitude = "longitude"
	FieldLatitude  = "latitude"
	FieldAltitude  = "altitude"
)

// ErrFileNotFound is returned when the image path is not a readable file.
var ErrFileNotFound = errors.New("file not found")

// ObservationMetadata is the normalized metadata of a single image.
type ObservationMetadata struct {
	Timestamp string   `json:"timestamp,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Altitude  *float64 `json:"altitude,omitempty"`
	Missing   []string `json:"missing,omitempty"`
}

// HasPosition reports whether both coordinates were decoded.
func (m ObservationMetadata) HasPosition() bool {
	return m.Longitude != nil && m.Latitude != nil
}

// Extractor reads images and normalizes their metadata.
type Extractor struct {
	logger         *zap.Logger
	coordPrecision int
	altPrecision   int
	decode         Decoder
}

// Option customizes an Extractor.
type Option func(*Extractor)

// WithDecoder replaces the EXIF decoder.
func WithDecoder(d Decoder) Option {
	return func(e *Extractor) { e.decode = d }
}

// NewExtractor builds an Extractor rounding coordinates and altitude to the
// given number of decimal places.
func NewExtractor(logger *zap.Logger, coordPrecision, altPrecision int, opts ...Option) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Extractor{
		logger:         logger,
		coordPrecision: coordPrecision,
		altPrecision:   altPrecision,
		decode:         DecodeEXIF,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractObservationMetadata extracts metadata for path with a one-off
// Extractor. A nil logger falls back to the shared JSON logger on stderr.
func ExtractObservationMetadata(logger *zap.Logger, path string, coordPrecision, altPrecision int) (ObservationMetadata, error) {
	if logger == nil {
		l, err := logging.NewLogger("exifmeta")
		if err != nil {
			return ObservationMetadata{}, fmt.Errorf("logger error: %w", err)
		}
		logger = l
	}
	return NewExtractor(logger, coordPrecision, altPrecision).Extract(path)
}

// Extract reads path and returns its observation metadata. Only an
// unreadable path is fatal; unusable fields are logged and left empty.
func (e *Extractor) Extract(path string) (ObservationMetadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return ObservationMetadata{}, fmt.Errorf("%w: %s: %v", ErrFileNotFound, path, err)
	}
	if !info.Mode().IsRegular() {
		return ObservationMetadata{}, fmt.Errorf("%w: %s is not a regular file", ErrFileNotFound, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return ObservationMetadata{}, fmt.Errorf("%w: %s: %v", ErrFileNotFound, path, err)
	}
	defer f.Close()

	var meta ObservationMetadata
	log := e.logger.With(zap.String("file", path))

	tags, err := e.decode(f)
	if err != nil {
		log.Warn("no readable metadata in image", zap.Error(err))
		meta.Missing = []string{FieldTimestamp, FieldLongitude, FieldLatitude, FieldAltitude}
		return meta, nil
	}

	if ts, err := e.timestamp(tags); err != nil {
		meta.soft(log, FieldTimestamp, err)
	} else {
		meta.Timestamp = ts
	}

	if lon, err := e.position(tags, coord.Longitude); err != nil {
		meta.soft(log, FieldLongitude, err)
	} else {
		meta.Longitude = &lon
	}

	if lat, err := e.position(tags, coord.Latitude); err != nil {
		meta.soft(log, FieldLatitude, err)
	} else {
		meta.Latitude = &lat
	}

	if alt, err := e.altitude(tags); err != nil {
		meta.soft(log, FieldAltitude, err)
	} else {
		meta.Altitude = &alt
	}

	return meta, nil
}

func (m *ObservationMetadata) soft(log *zap.Logger, field string, err error) {
	if errors.Is(err, ErrMissingField) {
		log.Warn("metadata field missing", zap.String("field", field))
	} else {
		log.Warn("metadata field unusable", zap.String("field", field), zap.Error(err))
	}
	m.Missing = append(m.Missing, field)
}

func (e *Extractor) timestamp(tags Tags) (string, error) {
	raw, err := tags.CaptureTimestamp()
	if err != nil {
		return "", err
	}
	return NormalizeTimestamp(raw)
}

// NormalizeTimestamp converts an EXIF "YYYY:MM:DD HH:MM:SS" capture time into
// "YYYY-MM-DDTHH:MM:SS". No zone is attached: the camera clock is local.
func NormalizeTimestamp(raw string) (string, error) {
	t, err := time.Parse(exifDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: capture time %q", ErrMalformedField, raw)
	}
	return t.Format(isoDateLayout), nil
}

func (e *Extractor) position(tags Tags, axis coord.Axis) (float64, error) {
	triplet, err := tags.GPSTriplet(axis)
	if err != nil {
		return 0, err
	}
	deg, err := triplet.Deg.Float()
	if err != nil {
		return 0, err
	}
	minutes, err := triplet.Min.Float()
	if err != nil {
		return 0, err
	}
	seconds, err := triplet.Sec.Float()
	if err != nil {
		return 0, err
	}
	return coord.ToDecimal(axis, deg, minutes, seconds, triplet.Ref, e.coordPrecision)
}

func (e *Extractor) altitude(tags Tags) (float64, error) {
	raw, ref, err := tags.Altitude()
	if err != nil {
		return 0, err
	}
	v, err := raw.Float()
	if err != nil {
		return 0, err
	}
	return coord.Altitude(v, ref, e.altPrecision)
}

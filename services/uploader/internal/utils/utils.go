package utils

import (
	"fmt"

	"github.com/naturalist-tools/inat-tz/services/uploader/internal/exifmeta"
	"github.com/naturalist-tools/inat-tz/services/uploader/internal/models"
	"github.com/naturalist-tools/inat-tz/services/uploader/internal/tzclient"
)

// FailedReport describes an image that could not be read at all.
func FailedReport(file string, err error) models.Report {
	return models.Report{File: file, Error: err.Error()}
}

// BuildReport combines extracted metadata with an optional lookup outcome.
func BuildReport(file string, meta exifmeta.ObservationMetadata, env *tzclient.Envelope, lookupErr error) models.Report {
	report := models.Report{File: file, Metadata: &meta}
	switch {
	case lookupErr != nil:
		report.TimeZoneError = lookupErr.Error()
	case env == nil:
	case env.OK():
		report.TimeZone = env.Result
	default:
		report.TimeZoneError = fmt.Sprintf("%s: %s", env.Code, env.Message)
	}
	return report
}

// PositionString prints the decoded position for logging.
func PositionString(meta exifmeta.ObservationMetadata) string {
	if !meta.HasPosition() {
		return "none"
	}
	s := fmt.Sprintf("%.6g,%.6g", *meta.Longitude, *meta.Latitude)
	if meta.Altitude != nil {
		s += fmt.Sprintf(" alt=%gm", *meta.Altitude)
	}
	return s
}

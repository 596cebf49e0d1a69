package models

import (
	"github.com/naturalist-tools/inat-tz/services/uploader/internal/exifmeta"
	"github.com/naturalist-tools/inat-tz/services/uploader/internal/tzclient"
)

// Report is the line printed for each processed image.
type Report struct {
	File     string                        `json:"file"`
	Metadata *exifmeta.ObservationMetadata `json:"metadata,omitempty"`
	TimeZone *tzclient.TimeZone            `json:"time_zone,omitempty"`
	// TimeZoneError carries the lookup service message when no zone was resolved.
	TimeZoneError string `json:"time_zone_error,omitempty"`
	Error         string `json:"error,omitempty"`
}

package exifmeta

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/naturalist-tools/inat-tz/services/uploader/internal/coord"
)

var (
	// ErrMissingField marks a metadata field that is absent from the image.
	ErrMissingField = errors.New("metadata field missing")
	// ErrMalformedField marks a metadata field that is present but unusable.
	ErrMalformedField = errors.New("metadata field malformed")
)

// Rational is an EXIF unsigned rational kept as its numerator/denominator pair.
type Rational struct {
	Num int64
	Den int64
}

// Float evaluates the rational arithmetically.
func (r Rational) Float() (float64, error) {
	if r.Den == 0 {
		return 0, fmt.Errorf("%w: zero denominator in %d/%d", ErrMalformedField, r.Num, r.Den)
	}
	return float64(r.Num) / float64(r.Den), nil
}

// GPSTriplet is a degrees/minutes/seconds coordinate with its hemisphere letter.
type GPSTriplet struct {
	Deg Rational
	Min Rational
	Sec Rational
	Ref string
}

// Tags is the subset of embedded image metadata the extractor reads.
// Absent fields are reported with an error wrapping ErrMissingField.
type Tags interface {
	CaptureTimestamp() (string, error)
	GPSTriplet(axis coord.Axis) (GPSTriplet, error)
	// Altitude returns the raw altitude and its reference flag as an octal digit string.
	Altitude() (Rational, string, error)
}

// Decoder parses the metadata block of an image stream.
type Decoder func(r io.Reader) (Tags, error)

// DecodeEXIF is the goexif-backed Decoder.
func DecodeEXIF(r io.Reader) (Tags, error) {
	x, err := exif.Decode(r)
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return nil, fmt.Errorf("decode exif: %w", err)
	}
	return exifTags{x: x}, nil
}

type exifTags struct {
	x *exif.Exif
}

func (t exifTags) get(name exif.FieldName) (*tiff.Tag, error) {
	tag, err := t.x.Get(name)
	if err != nil {
		if exif.IsTagNotPresentError(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, name)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedField, name, err)
	}
	return tag, nil
}

func (t exifTags) CaptureTimestamp() (string, error) {
	tag, err := t.get(exif.DateTimeOriginal)
	if err != nil {
		return "", err
	}
	s, err := tag.StringVal()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrMalformedField, exif.DateTimeOriginal, err)
	}
	return strings.TrimRight(s, "\x00 "), nil
}

func (t exifTags) GPSTriplet(axis coord.Axis) (GPSTriplet, error) {
	valueField, refField := exif.GPSLongitude, exif.GPSLongitudeRef
	if axis == coord.Latitude {
		valueField, refField = exif.GPSLatitude, exif.GPSLatitudeRef
	}

	tag, err := t.get(valueField)
	if err != nil {
		return GPSTriplet{}, err
	}
	if tag.Count < 3 {
		return GPSTriplet{}, fmt.Errorf("%w: %s has %d components", ErrMalformedField, valueField, tag.Count)
	}

	var parts [3]Rational
	for i := range parts {
		num, den, err := tag.Rat2(i)
		if err != nil {
			return GPSTriplet{}, fmt.Errorf("%w: %s[%d]: %v", ErrMalformedField, valueField, i, err)
		}
		parts[i] = Rational{Num: num, Den: den}
	}

	triplet := GPSTriplet{Deg: parts[0], Min: parts[1], Sec: parts[2]}
	if refTag, err := t.get(refField); err == nil {
		if ref, err := refTag.StringVal(); err == nil {
			triplet.Ref = strings.TrimRight(ref, "\x00 ")
		}
	}
	return triplet, nil
}

func (t exifTags) Altitude() (Rational, string, error) {
	tag, err := t.get(exif.GPSAltitude)
	if err != nil {
		return Rational{}, "", err
	}
	num, den, err := tag.Rat2(0)
	if err != nil {
		return Rational{}, "", fmt.Errorf("%w: %s: %v", ErrMalformedField, exif.GPSAltitude, err)
	}

	ref := ""
	if refTag, err := t.get(exif.GPSAltitudeRef); err == nil {
		if v, err := refTag.Int(0); err == nil {
			ref = strconv.FormatInt(int64(v), 8)
		}
	}
	return Rational{Num: num, Den: den}, ref, nil
}

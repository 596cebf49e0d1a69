package exifmeta_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/naturalist-tools/inat-tz/services/uploader/internal/coord"
	"github.com/naturalist-tools/inat-tz/services/uploader/internal/exifmeta"
)

// TIFF field types and tags used by the fixtures.
const (
	typeByte     = 1
	typeASCII    = 2
	typeLong     = 4
	typeRational = 5

	tagExifIFD          = 0x8769
	tagGPSIFD           = 0x8825
	tagDateTimeOriginal = 0x9003
	tagGPSLatitudeRef   = 0x0001
	tagGPSLatitude      = 0x0002
	tagGPSLongitudeRef  = 0x0003
	tagGPSLongitude     = 0x0004
	tagGPSAltitudeRef   = 0x0005
	tagGPSAltitude      = 0x0006
)

var le = binary.LittleEndian

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

func asciiEntry(tag uint16, s string) ifdEntry {
	b := append([]byte(s), 0)
	return ifdEntry{tag: tag, typ: typeASCII, count: uint32(len(b)), data: b}
}

func rationalEntry(tag uint16, pairs ...[2]uint32) ifdEntry {
	var b []byte
	for _, p := range pairs {
		b = le.AppendUint32(b, p[0])
		b = le.AppendUint32(b, p[1])
	}
	return ifdEntry{tag: tag, typ: typeRational, count: uint32(len(pairs)), data: b}
}

func byteEntry(tag uint16, v byte) ifdEntry {
	return ifdEntry{tag: tag, typ: typeByte, count: 1, data: []byte{v}}
}

func longEntry(tag uint16, v uint32) ifdEntry {
	return ifdEntry{tag: tag, typ: typeLong, count: 1, data: le.AppendUint32(nil, v)}
}

func ifdSize(entries []ifdEntry) int {
	n := 2 + 12*len(entries) + 4
	for _, e := range entries {
		if len(e.data) > 4 {
			n += len(e.data)
		}
	}
	return n
}

// appendIFD writes a directory followed by its out-of-line values.
func appendIFD(out []byte, entries []ifdEntry) []byte {
	dataOff := len(out) + 2 + 12*len(entries) + 4
	var data []byte
	out = le.AppendUint16(out, uint16(len(entries)))
	for _, e := range entries {
		out = le.AppendUint16(out, e.tag)
		out = le.AppendUint16(out, e.typ)
		out = le.AppendUint32(out, e.count)
		if len(e.data) > 4 {
			out = le.AppendUint32(out, uint32(dataOff+len(data)))
			data = append(data, e.data...)
			continue
		}
		var inline [4]byte
		copy(inline[:], e.data)
		out = append(out, inline[:]...)
	}
	out = le.AppendUint32(out, 0)
	return append(out, data...)
}

// buildTIFF lays out a little-endian TIFF: IFD0 pointing at an Exif IFD and a GPS IFD.
func buildTIFF(exifDir, gpsDir []ifdEntry) []byte {
	const headerSize = 8
	ifd0Size := ifdSize(make([]ifdEntry, 2))
	exifOff := headerSize + ifd0Size
	gpsOff := exifOff + ifdSize(exifDir)

	out := []byte{'I', 'I', 42, 0, headerSize, 0, 0, 0}
	out = appendIFD(out, []ifdEntry{
		longEntry(tagExifIFD, uint32(exifOff)),
		longEntry(tagGPSIFD, uint32(gpsOff)),
	})
	out = appendIFD(out, exifDir)
	return appendIFD(out, gpsDir)
}

func gpsDir(altRef byte) []ifdEntry {
	return []ifdEntry{
		asciiEntry(tagGPSLatitudeRef, "S"),
		rationalEntry(tagGPSLatitude, [2]uint32{4, 1}, [2]uint32{30, 1}, [2]uint32{0, 1}),
		{tag: tagGPSLongitudeRef, typ: typeASCII, count: 4, data: []byte("W\x00\x00\x00")},
		rationalEntry(tagGPSLongitude, [2]uint32{37, 1}, [2]uint32{46, 1}, [2]uint32{2964, 100}),
		byteEntry(tagGPSAltitudeRef, altRef),
		rationalEntry(tagGPSAltitude, [2]uint32{15260, 100}),
	}
}

func captureDir() []ifdEntry {
	return []ifdEntry{asciiEntry(tagDateTimeOriginal, "2019:05:01 12:30:05")}
}

func writeTIFF(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photo.tif")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestDecodeEXIF_ReadsTags(t *testing.T) {
	tags, err := exifmeta.DecodeEXIF(bytes.NewReader(buildTIFF(captureDir(), gpsDir(1))))
	require.NoError(t, err)

	ts, err := tags.CaptureTimestamp()
	require.NoError(t, err)
	assert.Equal(t, "2019:05:01 12:30:05", ts)

	lat, err := tags.GPSTriplet(coord.Latitude)
	require.NoError(t, err)
	assert.Equal(t, exifmeta.GPSTriplet{
		Deg: exifmeta.Rational{Num: 4, Den: 1},
		Min: exifmeta.Rational{Num: 30, Den: 1},
		Sec: exifmeta.Rational{Num: 0, Den: 1},
		Ref: "S",
	}, lat)

	lon, err := tags.GPSTriplet(coord.Longitude)
	require.NoError(t, err)
	assert.Equal(t, "W", lon.Ref)
	assert.Equal(t, exifmeta.Rational{Num: 2964, Den: 100}, lon.Sec)

	alt, ref, err := tags.Altitude()
	require.NoError(t, err)
	assert.Equal(t, exifmeta.Rational{Num: 15260, Den: 100}, alt)
	assert.Equal(t, "1", ref)
}

func TestExtract_TIFFFixture(t *testing.T) {
	for _, tc := range []struct {
		name   string
		altRef byte
		want   float64
	}{
		{name: "above sea level", altRef: 0, want: 153},
		{name: "below sea level", altRef: 1, want: -153},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTIFF(t, buildTIFF(captureDir(), gpsDir(tc.altRef)))

			meta, err := exifmeta.NewExtractor(zap.NewNop(), 4, 0).Extract(path)
			require.NoError(t, err)

			assert.Equal(t, "2019-05-01T12:30:05", meta.Timestamp)
			require.NotNil(t, meta.Longitude)
			require.NotNil(t, meta.Latitude)
			require.NotNil(t, meta.Altitude)
			assert.Equal(t, -37.7749, *meta.Longitude)
			assert.Equal(t, -4.5, *meta.Latitude)
			assert.Equal(t, tc.want, *meta.Altitude)
			assert.Empty(t, meta.Missing)
		})
	}
}

func TestExtract_TIFFShortTriplet(t *testing.T) {
	gps := gpsDir(0)
	gps[1] = rationalEntry(tagGPSLatitude, [2]uint32{4, 1}, [2]uint32{30, 1})
	path := writeTIFF(t, buildTIFF(captureDir(), gps))

	meta, err := exifmeta.NewExtractor(zap.NewNop(), 4, 0).Extract(path)
	require.NoError(t, err)

	assert.Nil(t, meta.Latitude)
	require.NotNil(t, meta.Longitude)
	assert.Equal(t, -37.7749, *meta.Longitude)
	assert.Equal(t, []string{exifmeta.FieldLatitude}, meta.Missing)
}

func TestExtract_TIFFWithoutAltitude(t *testing.T) {
	gps := gpsDir(0)[:4]
	path := writeTIFF(t, buildTIFF(captureDir(), gps))

	meta, err := exifmeta.NewExtractor(zap.NewNop(), 4, 0).Extract(path)
	require.NoError(t, err)

	assert.Nil(t, meta.Altitude)
	assert.True(t, meta.HasPosition())
	assert.Equal(t, []string{exifmeta.FieldAltitude}, meta.Missing)
}

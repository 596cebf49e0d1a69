package coord_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naturalist-tools/inat-tz/services/uploader/internal/coord"
)

func TestToDecimal_HalfDegree(t *testing.T) {
	v, err := coord.ToDecimal(coord.Latitude, 4, 30, 0, "N", 4)
	require.NoError(t, err)
	assert.Equal(t, 4.5, v)
}

func TestToDecimal_HemisphereSign(t *testing.T) {
	cases := []struct {
		axis coord.Axis
		ref  string
		neg  bool
	}{
		{coord.Latitude, "N", false},
		{coord.Latitude, "S", true},
		{coord.Longitude, "E", false},
		{coord.Longitude, "W", true},
		{coord.Longitude, "w", true},
		{coord.Latitude, "", false},
	}
	for _, tc := range cases {
		for _, dms := range [][3]float64{{0, 0, 0}, {12, 5, 33.7}, {55, 59, 59.99}} {
			v, err := coord.ToDecimal(tc.axis, dms[0], dms[1], dms[2], tc.ref, 4)
			require.NoError(t, err)
			if tc.neg {
				assert.LessOrEqual(t, v, 0.0, "ref %q", tc.ref)
			} else {
				assert.GreaterOrEqual(t, v, 0.0, "ref %q", tc.ref)
			}
		}
	}
}

func TestToDecimal_RoundsAfterSign(t *testing.T) {
	// 37°46'29.64"W = 37.7749
	v, err := coord.ToDecimal(coord.Longitude, 37, 46, 29.64, "W", 4)
	require.NoError(t, err)
	assert.Equal(t, -37.7749, v)

	v, err = coord.ToDecimal(coord.Longitude, 37, 46, 29.64, "W", 1)
	require.NoError(t, err)
	assert.Equal(t, -37.8, v)
}

func TestToDecimal_WrongHemisphereForAxis(t *testing.T) {
	_, err := coord.ToDecimal(coord.Latitude, 10, 0, 0, "W", 4)
	assert.ErrorIs(t, err, coord.ErrHemisphere)

	_, err = coord.ToDecimal(coord.Longitude, 10, 0, 0, "X", 4)
	assert.ErrorIs(t, err, coord.ErrHemisphere)
}

func TestToDecimal_OutOfRange(t *testing.T) {
	_, err := coord.ToDecimal(coord.Latitude, 91, 0, 0, "N", 4)
	var rangeErr *coord.RangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, coord.Latitude, rangeErr.Axis)

	_, err = coord.ToDecimal(coord.Longitude, 180, 0, 1, "W", 4)
	assert.ErrorAs(t, err, &rangeErr)

	_, err = coord.ToDecimal(coord.Longitude, 180, 0, 0, "W", 4)
	assert.NoError(t, err)
}

func TestToDecimal_RejectsBadComponents(t *testing.T) {
	var rangeErr *coord.RangeError

	_, err := coord.ToDecimal(coord.Latitude, -4, 30, 0, "N", 4)
	assert.ErrorAs(t, err, &rangeErr)

	_, err = coord.ToDecimal(coord.Latitude, math.NaN(), 0, 0, "N", 4)
	assert.ErrorAs(t, err, &rangeErr)

	_, err = coord.ToDecimal(coord.Longitude, 1, math.Inf(1), 0, "E", 4)
	assert.ErrorAs(t, err, &rangeErr)
}

func TestAltitude_ReferenceFlag(t *testing.T) {
	v, err := coord.Altitude(152.6, "1", 0)
	require.NoError(t, err)
	assert.Equal(t, -153.0, v)

	v, err = coord.Altitude(152.4, "0", 0)
	require.NoError(t, err)
	assert.Equal(t, 152.0, v)

	v, err = coord.Altitude(12.346, "", 2)
	require.NoError(t, err)
	assert.Equal(t, 12.35, v)

	// octal "01" still decodes to 1
	v, err = coord.Altitude(3, "01", 0)
	require.NoError(t, err)
	assert.Equal(t, -3.0, v)
}

func TestAltitude_InvalidFlag(t *testing.T) {
	_, err := coord.Altitude(10, "8", 0)
	assert.ErrorIs(t, err, coord.ErrAltitudeRef)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 1.2346, coord.Round(1.23456, 4))
	assert.Equal(t, -1.2346, coord.Round(-1.23456, 4))
	assert.Equal(t, 3.0, coord.Round(2.5, 0))
	assert.Equal(t, -3.0, coord.Round(-2.5, 0))
}

// Package lookup resolves a coordinate pair to the time zone that contains
// it, behind an access-token check.
package lookup

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Response messages are part of the wire contract.
const (
	MsgMissingParameter = "at least one parameter of the request (lon, lat, token) is missing"
	MsgInvalidToken     = "access token is invalid"
	MsgInvalidPoint     = "longitude and latitude in the request are not valid decimal degrees"
	MsgOutOfZone        = "longitude and latitude in the request is out of any time zone"
	MsgZoneDefined      = "time zone is defined"
)

var (
	// ErrTokenNotFound is returned by a TokenStore with no record for the token.
	ErrTokenNotFound = errors.New("token not found")
	// ErrZoneNotFound is returned by a ZoneFinder when no polygon contains the point.
	ErrZoneNotFound = errors.New("point is outside every time zone")
	// ErrStoreUnavailable matches failures to reach a backing store.
	ErrStoreUnavailable = errors.New("backing store unavailable")
)

// UnavailableError is a failure to reach a backing store. Its message is the
// underlying connection error, and it matches ErrStoreUnavailable.
type UnavailableError struct {
	Err error
}

// Unavailable wraps err as an UnavailableError.
func Unavailable(err error) error {
	return &UnavailableError{Err: err}
}

func (e *UnavailableError) Error() string { return e.Err.Error() }

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool { return target == ErrStoreUnavailable }

// TimeZoneRecord describes the zone containing a queried point.
type TimeZoneRecord struct {
	IANAID    string `json:"ianaid"`
	INatID    string `json:"inatid"`
	UTCOffset string `json:"utc_offset"`
}

// TokenStore returns the stored status of an access token.
type TokenStore interface {
	TokenStatus(ctx context.Context, token string) (string, error)
}

// ZoneFinder returns the zone whose polygon contains (lon, lat).
type ZoneFinder interface {
	FindZoneContaining(ctx context.Context, lon, lat float64) (*TimeZoneRecord, error)
}

// Request carries the raw query parameters; nil means the parameter was absent.
type Request struct {
	Lon   *string
	Lat   *string
	Token *string
}

// Response is the envelope returned for every lookup.
type Response struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Result  *TimeZoneRecord `json:"result,omitempty"`
}

// Status returns the HTTP status carried in Code.
func (r Response) Status() int {
	code, err := strconv.Atoi(r.Code)
	if err != nil {
		return http.StatusInternalServerError
	}
	return code
}

func respond(status int, message string) Response {
	return Response{Code: strconv.Itoa(status), Message: message}
}

// Service validates requests and runs the spatial query.
type Service struct {
	gate   *Gate
	zones  ZoneFinder
	logger *zap.Logger
}

// NewService wires a Service.
func NewService(gate *Gate, zones ZoneFinder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gate: gate, zones: zones, logger: logger}
}

// Lookup answers a single request. Every outcome, including store faults,
// is expressed as a Response.
func (s *Service) Lookup(ctx context.Context, req Request) Response {
	if req.Lon == nil || req.Lat == nil || req.Token == nil {
		return respond(http.StatusBadRequest, MsgMissingParameter)
	}

	ok, err := s.gate.Authorize(ctx, *req.Token)
	if err != nil {
		s.logger.Error("token store unavailable", zap.Error(err))
		return respond(http.StatusInternalServerError, err.Error())
	}
	if !ok {
		return respond(http.StatusUnauthorized, MsgInvalidToken)
	}

	lon, lat, ok := parsePoint(*req.Lon, *req.Lat)
	if !ok {
		return respond(http.StatusBadRequest, MsgInvalidPoint)
	}

	zone, err := s.zones.FindZoneContaining(ctx, lon, lat)
	switch {
	case errors.Is(err, ErrZoneNotFound), err == nil && zone == nil:
		return respond(http.StatusBadRequest, MsgOutOfZone)
	case err != nil:
		s.logger.Error("zone query failed", zap.Float64("lon", lon), zap.Float64("lat", lat), zap.Error(err))
		return respond(http.StatusInternalServerError, err.Error())
	}

	resp := respond(http.StatusOK, MsgZoneDefined)
	resp.Result = zone
	return resp
}

func parsePoint(rawLon, rawLat string) (float64, float64, bool) {
	lon, err := strconv.ParseFloat(strings.TrimSpace(rawLon), 64)
	if err != nil || math.IsNaN(lon) || math.Abs(lon) > 180 {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(rawLat), 64)
	if err != nil || math.IsNaN(lat) || math.Abs(lat) > 90 {
		return 0, 0, false
	}
	return lon, lat, true
}

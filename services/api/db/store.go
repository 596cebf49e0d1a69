package db

import (
	"context"
	"errors"
	"net"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/naturalist-tools/inat-tz/services/api/lookup"
)

// Store wraps database access helpers.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by a pgx pool. Connections are opened lazily,
// so an unreachable server surfaces on the first query.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

const tokenStatusSQL = `
    SELECT status
    FROM tokens
    WHERE token = $1
`

// TokenStatus returns the stored status of token.
func (s *Store) TokenStatus(ctx context.Context, token string) (string, error) {
	var status string
	if err := s.pool.QueryRow(ctx, tokenStatusSQL, token).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", lookup.ErrTokenNotFound
		}
		return "", classify(err)
	}
	return status, nil
}

const zoneContainingSQL = `
    SELECT ianaid, inatid, utc_offset
    FROM time_zones
    WHERE ST_Within(ST_SetSRID(ST_MakePoint($1, $2), 4326), geom)
    LIMIT 1
`

// FindZoneContaining runs the point-in-polygon query for (lon, lat).
func (s *Store) FindZoneContaining(ctx context.Context, lon, lat float64) (*lookup.TimeZoneRecord, error) {
	var rec lookup.TimeZoneRecord
	if err := s.pool.QueryRow(ctx, zoneContainingSQL, lon, lat).Scan(
		&rec.IANAID,
		&rec.INatID,
		&rec.UTCOffset,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, lookup.ErrZoneNotFound
		}
		return nil, classify(err)
	}
	return &rec, nil
}

// classify marks connectivity failures with lookup.ErrStoreUnavailable.
func classify(err error) error {
	if isUnavailable(err) {
		return lookup.Unavailable(err)
	}
	return err
}

func isUnavailable(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err)
}

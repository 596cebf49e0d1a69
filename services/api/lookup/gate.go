package lookup

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// StatusValid is the only token status that authorizes a query.
const StatusValid = "valid"

// Gate authorizes access tokens against a TokenStore.
type Gate struct {
	store  TokenStore
	logger *zap.Logger
}

// NewGate builds a Gate.
func NewGate(store TokenStore, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{store: store, logger: logger}
}

// Authorize reports whether token may run a query. A missing record, a
// status other than "valid" and ordinary store errors all deny access; only
// ErrStoreUnavailable is returned as an error.
func (g *Gate) Authorize(ctx context.Context, token string) (bool, error) {
	status, err := g.store.TokenStatus(ctx, token)
	switch {
	case err == nil:
		return status == StatusValid, nil
	case errors.Is(err, ErrStoreUnavailable):
		return false, err
	case errors.Is(err, ErrTokenNotFound):
		return false, nil
	default:
		g.logger.Warn("token lookup failed", zap.Error(err))
		return false, nil
	}
}

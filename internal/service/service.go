// Package service contains the business logic.
//
// It sits between the handler and repository layers. Every operation
// runs one repository call, encodes the result as JSON and optionally
// keeps the encoded payload in the response cache. Failed queries are
// converted into *errs.HTTPError carrying the operation's message.
package service

import (
	"context"
	"errors"

	"github.com/deppfellow/hydro-gateway/internal/cache"
	"github.com/deppfellow/hydro-gateway/internal/sqlerr"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Cache stores encoded payloads. Get returns cache.ErrMiss for an absent key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// readThrough returns the payload under key, or runs load, encodes its
// result and stores it. A nil c disables caching. Cache failures are
// logged and never returned; load failures are never cached.
func readThrough(ctx context.Context, c Cache, logger *zerolog.Logger, key, message string, load func(context.Context) (any, error)) (json.RawMessage, error) {
	if c != nil {
		payload, err := c.Get(ctx, key)
		switch {
		case err == nil:
			return payload, nil
		case !errors.Is(err, cache.ErrMiss):
			logger.Warn().Err(err).Str("key", key).Msg("cache read failed, querying database")
		}
	}

	result, err := load(ctx)
	if err != nil {
		return nil, sqlerr.HandleQueryError(err, message)
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, sqlerr.HandleQueryError(err, message)
	}

	if c != nil {
		if err := c.Set(ctx, key, payload); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}

	return payload, nil
}

package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/orderdesk/order-system/internal/core/domain"
	"github.com/orderdesk/order-system/internal/core/ports"
)

// IdentityResolver maps a verified token subject to a Principal. The cache
// is consulted first; a miss falls through to the credential store and the
// projection is written back with the cache's TTL. A role change at the
// store is therefore observed at most one TTL period late.
type IdentityResolver struct {
	cache  ports.IdentityCache
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewIdentityResolver(cache ports.IdentityCache, repo ports.UserRepository, logger zerolog.Logger) *IdentityResolver {
	return &IdentityResolver{cache: cache, repo: repo, logger: logger}
}

func (r *IdentityResolver) Resolve(ctx context.Context, id string) (*domain.Principal, error) {
	p, err := r.cache.Get(ctx, id)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		// A cache outage degrades to store lookups; it must not fail auth.
		r.logger.Warn().Err(err).Str("user_id", id).Msg("identity cache unavailable")
	}

	user, err := r.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrStaleIdentity
		}
		return nil, err
	}

	p = &domain.Principal{ID: user.ID, Email: user.Email, Role: user.Role}
	if err := r.cache.Set(ctx, p); err != nil {
		r.logger.Warn().Err(err).Str("user_id", id).Msg("identity cache write failed")
	}
	return p, nil
}

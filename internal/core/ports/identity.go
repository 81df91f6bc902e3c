package ports

import (
	"context"

	"github.com/orderdesk/order-system/internal/core/domain"
)

// IdentityCache stores identity projections keyed by user id with a TTL.
// Entries are immutable whole-value replacements; last write wins. Get
// returns domain.ErrCacheMiss when the key is absent or expired.
type IdentityCache interface {
	Get(ctx context.Context, id string) (*domain.Principal, error)
	Set(ctx context.Context, principal *domain.Principal) error
}

// IdentityResolver turns a token subject id into a Principal, consulting the
// cache first and falling through to the credential store on a miss. A
// subject that no longer exists resolves to domain.ErrStaleIdentity.
type IdentityResolver interface {
	Resolve(ctx context.Context, id string) (*domain.Principal, error)
}

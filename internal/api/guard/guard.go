// Package guard implements the capability gate every protected operation
// passes through: token extraction, verification, identity resolution and
// role enforcement. Routes declare their requirement explicitly in the
// router's registration table; there is no annotation or reflection lookup.
package guard

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/orderdesk/order-system/internal/api/metrics"
	"github.com/orderdesk/order-system/internal/core/domain"
	"github.com/orderdesk/order-system/internal/core/ports"
)

// Requirement is an operation's declared access level.
type Requirement struct {
	public bool
	roles  []string
}

// Public allows everyone. A credential, when present, is still resolved and
// attached opportunistically, but failures are ignored.
func Public() Requirement { return Requirement{public: true} }

// Authenticated requires a verified identity, any role.
func Authenticated() Requirement { return Requirement{} }

// RequireRoles requires a verified identity holding one of the given roles.
func RequireRoles(roles ...string) Requirement { return Requirement{roles: roles} }

// Guard evaluates requirements against requests. One instance serves both
// the HTTP middleware path and the socket handshake path.
type Guard struct {
	tokens   ports.TokenService
	resolver ports.IdentityResolver
	logger   zerolog.Logger
}

func New(tokens ports.TokenService, resolver ports.IdentityResolver, logger zerolog.Logger) *Guard {
	return &Guard{tokens: tokens, resolver: resolver, logger: logger}
}

// Require returns an echo middleware enforcing the requirement. Denials map
// to 401 (missing, invalid, expired credential or stale identity) or 403
// (role). Every denial is terminal; the handler never runs.
func (g *Guard) Require(req Requirement) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, err := g.authenticate(c.Request())
			if err != nil {
				if req.public {
					return next(c)
				}
				g.deny(c, err)
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			if !req.allows(principal.Role) {
				metrics.GuardDenialsTotal.WithLabelValues("insufficient_role", "http").Inc()
				g.logger.Warn().
					Str("user_id", principal.ID).
					Str("role", principal.Role).
					Str("path", c.Path()).
					Msg("role denied")
				return echo.NewHTTPError(http.StatusForbidden, domain.ErrInsufficientRole.Error())
			}

			bind(c, principal)
			return next(c)
		}
	}
}

// Handshake runs the full pipeline once for a socket upgrade request. The
// returned principal is bound to the connection for its entire lifetime;
// messages on the connection only get resource-specific checks.
func (g *Guard) Handshake(r *http.Request) (*domain.Principal, error) {
	token, err := TokenFromHandshake(r)
	if err != nil {
		metrics.GuardDenialsTotal.WithLabelValues(denialReason(err), "ws").Inc()
		return nil, err
	}

	claims, err := g.tokens.VerifyAccess(token)
	if err != nil {
		metrics.GuardDenialsTotal.WithLabelValues(denialReason(err), "ws").Inc()
		return nil, err
	}

	principal, err := g.resolver.Resolve(r.Context(), claims.UserID)
	if err != nil {
		metrics.GuardDenialsTotal.WithLabelValues(denialReason(err), "ws").Inc()
		return nil, err
	}
	return principal, nil
}

func (g *Guard) authenticate(r *http.Request) (*domain.Principal, error) {
	token, err := TokenFromRequest(r)
	if err != nil {
		return nil, err
	}

	claims, err := g.tokens.VerifyAccess(token)
	if err != nil {
		return nil, err
	}

	return g.resolver.Resolve(r.Context(), claims.UserID)
}

func (g *Guard) deny(c echo.Context, err error) {
	metrics.GuardDenialsTotal.WithLabelValues(denialReason(err), "http").Inc()
	g.logger.Warn().
		Err(err).
		Str("path", c.Path()).
		Msg("unauthorized access attempt")
}

func (r Requirement) allows(role string) bool {
	if len(r.roles) == 0 {
		return true
	}
	for _, allowed := range r.roles {
		if allowed == role {
			return true
		}
	}
	return false
}

func denialReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		return "missing_credential"
	case errors.Is(err, domain.ErrExpiredToken):
		return "expired_token"
	case errors.Is(err, domain.ErrStaleIdentity):
		return "stale_identity"
	case errors.Is(err, domain.ErrInsufficientRole):
		return "insufficient_role"
	default:
		return "invalid_token"
	}
}

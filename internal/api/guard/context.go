package guard

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/orderdesk/order-system/internal/core/domain"
)

// principalKey is the context key the guard binds the resolved identity
// under. Handlers read it back through CurrentUser only.
const principalKey = "guard.principal"

func bind(c echo.Context, p *domain.Principal) {
	c.Set(principalKey, p)
}

// CurrentUser returns the principal bound by the guard. A missing principal
// on a protected route means the middleware did not run; fail with 401
// rather than proceeding unauthenticated.
func CurrentUser(c echo.Context) (*domain.Principal, error) {
	p, ok := c.Get(principalKey).(*domain.Principal)
	if !ok || p == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication context")
	}
	return p, nil
}

// OptionalUser returns the bound principal or nil on public routes where no
// credential was presented.
func OptionalUser(c echo.Context) *domain.Principal {
	p, _ := c.Get(principalKey).(*domain.Principal)
	return p
}

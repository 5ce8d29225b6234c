package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vbforge/product-catalog/internal/api/middleware"
	"github.com/vbforge/product-catalog/internal/core/domain"
)

// ctxIdentity extracts the identity attached by the authentication
// middleware. Handlers behind the access table never see an absent
// identity; the check is a fast fail for misregistered routes.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	return identity, nil
}

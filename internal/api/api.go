// Package api implements the REST surface under /api: auth, products,
// purchase/out-of-stock/custom requests, phone verification and the
// notification config.
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tiendaapp/tiendastore/internal/domain"
	"github.com/tiendaapp/tiendastore/internal/notify"
	"github.com/tiendaapp/tiendastore/internal/webserver"
)

var notifier *notify.Service

// Register wires every API route into the web server.
func Register(svc *notify.Service) {
	notifier = svc
	registerAuthRoutes()
	registerProductRoutes()
	registerRequestRoutes()
	registerVerifyRoutes()
	registerConfigRoutes()
	registerUserRoutes()
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// fail renders the error envelope the storefront expects: a single
// human-readable detail string.
func fail(c echo.Context, status int, detail string) error {
	return c.JSON(status, echo.Map{"detail": detail})
}

func requireUser(c echo.Context) (*domain.User, error) {
	user := webserver.GetCurrentUser(c)
	if user == nil {
		return nil, fail(c, http.StatusUnauthorized, "No autenticado")
	}
	return user, nil
}

func requireAdmin(c echo.Context) (*domain.User, error) {
	user, err := requireUser(c)
	if user == nil {
		return nil, err
	}
	if user.Role != domain.RoleAdmin {
		return nil, fail(c, http.StatusForbidden, "No tienes permisos de administrador")
	}
	return user, nil
}

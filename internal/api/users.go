package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tiendaapp/tiendastore/internal/domain"
	"github.com/tiendaapp/tiendastore/internal/webserver"
)

func registerUserRoutes() {
	webserver.ApiPOST("/users/admin/:id", promoteAdmin)
}

// promoteAdmin grants the admin role to an existing user.
func promoteAdmin(c echo.Context) error {
	if admin, err := requireAdmin(c); admin == nil {
		return err
	}

	db := webserver.GetDB(c)
	var user domain.User
	if err := db.Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
		return fail(c, http.StatusNotFound, "Usuario no encontrado")
	}

	user.Role = domain.RoleAdmin
	if err := db.Save(&user).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error al actualizar usuario")
	}
	return ok(c, user)
}

package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tiendaapp/tiendastore/internal/domain"
	"github.com/tiendaapp/tiendastore/internal/webserver"
)

type configPayload struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func registerConfigRoutes() {
	webserver.ApiGET("/config", getConfig)
	webserver.ApiPUT("/config", updateConfig)
}

func getConfig(c echo.Context) error {
	if admin, err := requireAdmin(c); admin == nil {
		return err
	}

	var cfg domain.NotifyConfig
	if err := webserver.GetDB(c).First(&cfg).Error; err != nil {
		return ok(c, echo.Map{"email": "", "phone": ""})
	}
	return ok(c, cfg)
}

// updateConfig overwrites the singleton notification config.
func updateConfig(c echo.Context) error {
	if admin, err := requireAdmin(c); admin == nil {
		return err
	}

	var payload configPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Configuración inválida")
	}

	db := webserver.GetDB(c)
	var cfg domain.NotifyConfig
	if err := db.First(&cfg).Error; err != nil {
		cfg = domain.NotifyConfig{}
	}
	cfg.Email = payload.Email
	cfg.Phone = payload.Phone
	cfg.UpdatedAt = time.Now()
	if err := db.Save(&cfg).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error al guardar configuración")
	}
	return ok(c, cfg)
}

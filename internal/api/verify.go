package api

import (
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tiendaapp/tiendastore/internal/domain"
	"github.com/tiendaapp/tiendastore/internal/webserver"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type phonePayload struct {
	Phone string `json:"phone" validate:"required"`
}

type codePayload struct {
	Phone string `json:"phone" validate:"required"`
	Code  string `json:"code" validate:"required"`
}

func registerVerifyRoutes() {
	webserver.ApiPOST("/requests/verify-phone", verifyPhone)
	webserver.ApiPOST("/requests/validate-code", validateCode)
}

// verifyPhone starts the one-time code challenge. Phones that already
// passed a challenge short-circuit: the caller may submit immediately.
// The code is returned in the response (mock channel) and logged, mirroring
// the mocked WhatsApp delivery.
func verifyPhone(c echo.Context) error {
	var payload phonePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Teléfono requerido")
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Teléfono requerido")
	}

	db := webserver.GetDB(c)

	var verified domain.VerifiedPhone
	if err := db.Where("phone = ?", payload.Phone).First(&verified).Error; err == nil {
		return ok(c, echo.Map{"already_verified": true, "message": "Teléfono ya verificado"})
	}

	code := fmt.Sprintf("%06d", 100000+rand.Intn(900000))

	pending := domain.PendingVerification{
		Phone:     payload.Phone,
		Code:      code,
		CreatedAt: time.Now(),
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone"}},
		UpdateAll: true,
	}).Create(&pending).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error al enviar código")
	}

	if notifier != nil {
		notifier.SendVerificationCode(payload.Phone, code)
	}

	return ok(c, echo.Map{"message": "Código enviado", "mock_code": code})
}

// validateCode checks the submitted code. A wrong code is a plain 400; the
// pending record stays so the caller may retry.
func validateCode(c echo.Context) error {
	var payload codePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Código requerido")
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Código requerido")
	}

	db := webserver.GetDB(c)

	var pending domain.PendingVerification
	err := db.Where("phone = ?", payload.Phone).First(&pending).Error
	if err != nil || pending.Code != payload.Code {
		return fail(c, http.StatusBadRequest, "Código inválido")
	}

	now := time.Now()
	verified := domain.VerifiedPhone{Phone: payload.Phone, VerifiedAt: now, LastUsed: now}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "phone"}},
			UpdateAll: true,
		}).Create(&verified).Error; err != nil {
			return err
		}
		return tx.Where("phone = ?", payload.Phone).
			Delete(&domain.PendingVerification{}).Error
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Error al verificar teléfono")
	}

	return ok(c, echo.Map{"verified": true})
}

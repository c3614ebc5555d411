package api

import (
	"net/http"
	"time"

	"github.com/guonaihong/gout"
	"github.com/labstack/echo/v4"
	"github.com/tiendaapp/tiendastore/internal/domain"
	"github.com/tiendaapp/tiendastore/internal/webserver"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HeaderSessionID carries the one-time token handed back by the external
// identity provider after the login redirect.
const HeaderSessionID = "X-Session-ID"

type providerSession struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Picture      string `json:"picture"`
	SessionToken string `json:"session_token"`
}

func registerAuthRoutes() {
	webserver.ApiPOST("/auth/session", createSession)
	webserver.ApiGET("/auth/me", getMe)
	webserver.ApiPOST("/auth/logout", logout)
}

// createSession exchanges a one-time session id for a cookie session. The
// provider validates the id and returns the user's identity plus the
// long-lived session token.
func createSession(c echo.Context) error {
	sessionID := c.Request().Header.Get(HeaderSessionID)
	if sessionID == "" {
		return fail(c, http.StatusBadRequest, "Session ID requerido")
	}

	cfg := webserver.AppCtx().Config().Web

	var data providerSession
	var code int
	err := gout.GET(cfg.AuthURL).
		SetHeader(gout.H{HeaderSessionID: sessionID}).
		BindJSON(&data).
		Code(&code).
		Do()
	if err != nil || code != http.StatusOK {
		zap.L().Warn("session exchange failed", zap.Int("status", code), zap.Error(err))
		return fail(c, http.StatusUnauthorized, "Session ID inválido")
	}

	db := webserver.GetDB(c)

	var user domain.User
	err = db.Where("email = ?", data.Email).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		user = domain.User{
			ID:        data.ID,
			Email:     data.Email,
			Name:      data.Name,
			Picture:   data.Picture,
			Role:      domain.RoleUser,
			CreatedAt: time.Now(),
		}
		if err := db.Create(&user).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "Error al crear usuario")
		}
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "Error al validar sesión")
	}

	days := cfg.SessionDays
	if days <= 0 {
		days = 7
	}
	session := domain.UserSession{
		UserId:       user.ID,
		SessionToken: data.SessionToken,
		ExpiresAt:    time.Now().Add(time.Duration(days) * 24 * time.Hour),
		CreatedAt:    time.Now(),
	}
	if err := db.Create(&session).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error al crear sesión")
	}

	c.SetCookie(&http.Cookie{
		Name:     webserver.SessionCookieName,
		Value:    data.SessionToken,
		Path:     "/",
		MaxAge:   days * 24 * 3600,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})

	return ok(c, echo.Map{"user": user, "session_token": data.SessionToken})
}

func getMe(c echo.Context) error {
	user, err := requireUser(c)
	if user == nil {
		return err
	}
	return ok(c, user)
}

func logout(c echo.Context) error {
	if cookie, err := c.Cookie(webserver.SessionCookieName); err == nil {
		webserver.GetDB(c).
			Where("session_token = ?", cookie.Value).
			Delete(&domain.UserSession{})
	}
	c.SetCookie(&http.Cookie{
		Name:     webserver.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return ok(c, echo.Map{"message": "Sesión cerrada"})
}

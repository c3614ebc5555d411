package webserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/tiendaapp/tiendastore/internal/app"
	"github.com/tiendaapp/tiendastore/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SessionCookieName is the HttpOnly cookie carrying the provider-issued
// session token.
const SessionCookieName = "session_token"

const currentUserKey = "current_user"

var server *WebServer

type WebServer struct {
	appctx app.AppContext
	root   *echo.Echo
	api    *echo.Group
}

type webValidator struct {
	validate *validator.Validate
}

func (v *webValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// Init builds the echo instance with recovery, request logging, validation
// and the session middleware. All API routes are grouped under /api.
func Init(appctx app.AppContext) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &webValidator{validate: validator.New()}

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowCredentials: true,
	}))
	e.Use(requestLogger())

	server = &WebServer{appctx: appctx, root: e}
	server.api = e.Group("/api", server.sessionMiddleware)
	return server
}

// Instance returns the active web server.
func Instance() *WebServer {
	return server
}

func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

func Listen() error {
	cfg := server.appctx.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.S().Infof("web server listening on %s", addr)
	return server.root.Start(addr)
}

func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			zap.L().Debug("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("elapsed", time.Since(start)))
			return err
		}
	}
}

// sessionMiddleware resolves the current user from the session cookie or a
// bearer token. Missing or invalid sessions fall through as guest; route
// handlers decide whether authentication is required.
func (s *WebServer) sessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := ""
		if cookie, err := c.Cookie(SessionCookieName); err == nil {
			token = cookie.Value
		}
		if token == "" {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			const prefix = "Bearer "
			if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
				token = auth[len(prefix):]
			}
		}
		if token != "" {
			if user := s.resolveSession(token); user != nil {
				c.Set(currentUserKey, user)
			}
		}
		return next(c)
	}
}

func (s *WebServer) resolveSession(token string) *domain.User {
	db := s.appctx.DB()
	var session domain.UserSession
	if err := db.Where("session_token = ?", token).First(&session).Error; err != nil {
		return nil
	}
	if session.ExpiresAt.Before(time.Now()) {
		db.Delete(&session)
		return nil
	}
	var user domain.User
	if err := db.Where("id = ?", session.UserId).First(&user).Error; err != nil {
		return nil
	}
	return &user
}

// GetCurrentUser returns the session user, or nil for guests.
func GetCurrentUser(c echo.Context) *domain.User {
	if user, ok := c.Get(currentUserKey).(*domain.User); ok {
		return user
	}
	return nil
}

// GetDB returns the application database handle for a request.
func GetDB(c echo.Context) *gorm.DB {
	return server.appctx.DB()
}

// AppCtx exposes the application context to route handlers.
func AppCtx() app.AppContext {
	return server.appctx
}

func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tiendaapp/tiendastore/internal/domain"
	"github.com/tiendaapp/tiendastore/internal/webserver"
)

func TestCreateSessionViaProvider(t *testing.T) {
	env := newTestEnv(t)

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(HeaderSessionID) != "valid-one-time-id" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(providerSession{
			ID:           "prov-1",
			Email:        "ana@example.com",
			Name:         "Ana",
			SessionToken: "long-lived-token",
		})
	}))
	defer provider.Close()
	env.cfg.Web.AuthURL = provider.URL

	req := httptest.NewRequest(http.MethodPost, "/api/auth/session", nil)
	req.Header.Set(HeaderSessionID, "valid-one-time-id")
	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var reply struct {
		User         domain.User `json:"user"`
		SessionToken string      `json:"session_token"`
	}
	env.decode(t, rec, &reply)
	assert.Equal(t, "ana@example.com", reply.User.Email)
	assert.Equal(t, domain.RoleUser, reply.User.Role)
	assert.Equal(t, "long-lived-token", reply.SessionToken)

	// a session cookie is set for the browser
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, webserver.SessionCookieName, cookies[0].Name)
	assert.Equal(t, "long-lived-token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	// the token now authenticates bearer requests
	resp := env.request(t, http.MethodGet, "/api/auth/me", "long-lived-token", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var me domain.User
	env.decode(t, resp, &me)
	assert.Equal(t, "prov-1", me.ID)

	// a rejected one-time id maps to 401
	req = httptest.NewRequest(http.MethodPost, "/api/auth/session", nil)
	req.Header.Set(HeaderSessionID, "bogus")
	rec = httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Session ID inválido", detailOf(t, rec))

	// missing header is a bad request
	req = httptest.NewRequest(http.MethodPost, "/api/auth/session", nil)
	rec = httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutDeletesSession(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedSession(t, domain.RoleUser)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: webserver.SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	env.db.Model(&domain.UserSession{}).Where("session_token = ?", token).Count(&count)
	assert.Zero(t, count)

	resp := env.request(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

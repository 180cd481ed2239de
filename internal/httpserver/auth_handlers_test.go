package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/jpcardenas/tienda/internal/auth"
	"github.com/jpcardenas/tienda/internal/models"
)

func registerAndLogin(t *testing.T, env *testEnv) (accessToken, refreshToken string) {
	t.Helper()

	creds := map[string]string{
		"name":     "Juan Perez",
		"email":    "juan@example.com",
		"password": "secreto123",
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/register", creds)
	require.NoError(t, env.A.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, c = env.doJSONRequest(http.MethodPost, "/api/v1/login", creds)
	require.NoError(t, env.A.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)

	return resp.AccessToken, resp.RefreshToken
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	registerAndLogin(t, env)

	var user models.User
	require.NoError(t, env.DB.Where("email = ?", "juan@example.com").First(&user).Error)
	require.Equal(t, models.RoleCustomer, user.Role)
	require.True(t, user.IsActive)
}

func TestLoginSetsCookies(t *testing.T) {
	env := newTestEnv(t)

	creds := map[string]string{
		"name":     "Juan Perez",
		"email":    "juan@example.com",
		"password": "secreto123",
	}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/register", creds)
	require.NoError(t, env.A.Register(c))

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/login", creds)
	require.NoError(t, env.A.Login(c))

	names := map[string]bool{}
	for _, ck := range rec.Result().Cookies() {
		names[ck.Name] = true
		require.True(t, ck.HttpOnly)
	}
	require.True(t, names[auth.AccessCookie])
	require.True(t, names[auth.RefreshCookie])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	creds := map[string]string{
		"name":     "Juan Perez",
		"email":    "juan@example.com",
		"password": "secreto123",
	}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/register", creds)
	require.NoError(t, env.A.Register(c))

	_, c = env.doJSONRequest(http.MethodPost, "/api/v1/register", creds)
	requireHTTPError(t, env.A.Register(c), http.StatusBadRequest)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	registerAndLogin(t, env)

	bad := map[string]string{"email": "juan@example.com", "password": "equivocada"}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/login", bad)
	requireHTTPError(t, env.A.Login(c), http.StatusUnauthorized)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	env := newTestEnv(t)

	registerAndLogin(t, env)
	require.NoError(t, env.DB.Model(&models.User{}).
		Where("email = ?", "juan@example.com").
		Update("is_active", false).Error)

	creds := map[string]string{"email": "juan@example.com", "password": "secreto123"}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/login", creds)
	requireHTTPError(t, env.A.Login(c), http.StatusForbidden)
}

func TestRefreshRotatesToken(t *testing.T) {
	env := newTestEnv(t)

	_, refreshToken := registerAndLogin(t, env)
	ck := &http.Cookie{Name: auth.RefreshCookie, Value: refreshToken, Path: "/"}

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/refresh", nil, ck)
	require.NoError(t, env.A.Refresh(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEqual(t, refreshToken, resp.RefreshToken)

	var old models.RefreshToken
	require.NoError(t, env.DB.Where("token = ?", refreshToken).First(&old).Error)
	require.True(t, old.Revoked)

	// The revoked token must not refresh again.
	_, c = env.doJSONRequest(http.MethodPost, "/api/v1/refresh", nil, ck)
	requireHTTPError(t, env.A.Refresh(c), http.StatusUnauthorized)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	env := newTestEnv(t)

	_, refreshToken := registerAndLogin(t, env)
	ck := &http.Cookie{Name: auth.RefreshCookie, Value: refreshToken, Path: "/"}

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/logout", nil, ck)
	require.NoError(t, env.A.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var old models.RefreshToken
	require.NoError(t, env.DB.Where("token = ?", refreshToken).First(&old).Error)
	require.True(t, old.Revoked)
}

func TestRequireLoginRejectsMissingCookie(t *testing.T) {
	env := newTestEnv(t)
	mw := &auth.Middleware{DB: env.DB, JWTSecret: env.JWTSecret}

	_, c := env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil)
	handler := mw.RequireLogin(func(c echo.Context) error { return nil })
	requireHTTPError(t, handler(c), http.StatusUnauthorized)
}

func TestRequireLoginAcceptsValidToken(t *testing.T) {
	env := newTestEnv(t)
	mw := &auth.Middleware{DB: env.DB, JWTSecret: env.JWTSecret}

	registerAndLogin(t, env)

	var user models.User
	require.NoError(t, env.DB.Where("email = ?", "juan@example.com").First(&user).Error)

	token, exp, err := auth.SignAccessToken(user.ID, user.Role, env.JWTSecret)
	require.NoError(t, err)
	ck := auth.CreateCookie(auth.AccessCookie, token, "/", exp)

	_, c := env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil, ck)
	called := false
	handler := mw.RequireLogin(func(c echo.Context) error {
		called = true
		id, ok := auth.UserID(c)
		require.True(t, ok)
		require.Equal(t, user.ID, id)
		return nil
	})
	require.NoError(t, handler(c))
	require.True(t, called)
}

func TestRequireLoginRejectsDeactivatedUser(t *testing.T) {
	env := newTestEnv(t)
	mw := &auth.Middleware{DB: env.DB, JWTSecret: env.JWTSecret}

	registerAndLogin(t, env)

	var user models.User
	require.NoError(t, env.DB.Where("email = ?", "juan@example.com").First(&user).Error)
	require.NoError(t, env.DB.Model(&user).Update("is_active", false).Error)

	token, exp, err := auth.SignAccessToken(user.ID, user.Role, env.JWTSecret)
	require.NoError(t, err)
	ck := auth.CreateCookie(auth.AccessCookie, token, "/", exp)

	_, c := env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil, ck)
	handler := mw.RequireLogin(func(c echo.Context) error { return nil })
	requireHTTPError(t, handler(c), http.StatusForbidden)
}

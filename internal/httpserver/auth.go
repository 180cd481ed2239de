package httpserver

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jpcardenas/tienda/internal/auth"
	"github.com/jpcardenas/tienda/internal/hash"
	"github.com/jpcardenas/tienda/internal/logging"
	"github.com/jpcardenas/tienda/internal/models"
	"github.com/jpcardenas/tienda/internal/mykafka"
	"github.com/jpcardenas/tienda/internal/repo"
)

type AuthHandler struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	Producer      *mykafka.Producer
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return echo.NewHTTPError(http.StatusBadRequest, "email is invalid")
	}
	if req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "password is required")
	}

	existing, err := h.Repo.UserByEmail(ctx, req.Email)
	if err != nil {
		l.Error("register_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if existing != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "user already exists")
	}

	pwHash, err := hash.Password(req.Password)
	if err != nil {
		l.Error("register_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := models.User{
		Email:        req.Email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: pwHash,
		Role:         models.RoleCustomer,
		IsActive:     true,
	}
	if err := h.Repo.CreateUser(ctx, &user); err != nil {
		l.Error("register_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, topicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Repo.UserByEmail(ctx, strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		l.Error("login_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if user == nil || !hash.Check(user.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if !user.IsActive {
		return echo.NewHTTPError(http.StatusForbidden, "account deactivated")
	}

	accessToken, accessExp, err := auth.SignAccessToken(user.ID, user.Role, h.JWTSecret)
	if err != nil {
		l.Error("login_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	refreshToken, refreshExp, jti, err := auth.SignRefreshToken(user.ID, user.Role, h.RefreshSecret)
	if err != nil {
		l.Error("login_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	stored := models.RefreshToken{
		Token:     refreshToken,
		JTI:       jti,
		UserID:    user.ID,
		ExpiresAt: refreshExp.Unix(),
	}
	if err := h.Repo.SaveRefreshToken(ctx, &stored); err != nil {
		l.Error("login_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	c.SetCookie(auth.CreateCookie(auth.AccessCookie, accessToken, "/", accessExp))
	c.SetCookie(auth.CreateCookie(auth.RefreshCookie, refreshToken, "/", refreshExp))

	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"is_admin":      user.Role == models.RoleAdmin,
	})
}

// Refresh rotates the token pair: the presented refresh token is revoked and
// replaced in the same request.
func (h *AuthHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	cookie, err := c.Cookie(auth.RefreshCookie)
	if err != nil || cookie.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	claims, err := auth.ParseRefreshToken(cookie.Value, h.RefreshSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	userID, err := auth.SubjectID(claims)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	stored, err := h.Repo.RefreshTokenByValue(ctx, cookie.Value)
	if err != nil {
		l.Error("refresh_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if stored == nil || stored.Revoked || time.Now().Unix() > stored.ExpiresAt {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := h.Repo.UserByID(ctx, userID)
	if err != nil {
		l.Error("refresh_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !user.IsActive {
		return echo.NewHTTPError(http.StatusForbidden, "account deactivated")
	}

	if err := h.Repo.RevokeRefreshToken(ctx, cookie.Value); err != nil {
		l.Error("refresh_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	accessToken, accessExp, err := auth.SignAccessToken(user.ID, user.Role, h.JWTSecret)
	if err != nil {
		l.Error("refresh_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	refreshToken, refreshExp, jti, err := auth.SignRefreshToken(user.ID, user.Role, h.RefreshSecret)
	if err != nil {
		l.Error("refresh_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	next := models.RefreshToken{
		Token:     refreshToken,
		JTI:       jti,
		UserID:    user.ID,
		ExpiresAt: refreshExp.Unix(),
	}
	if err := h.Repo.SaveRefreshToken(ctx, &next); err != nil {
		l.Error("refresh_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	c.SetCookie(auth.CreateCookie(auth.AccessCookie, accessToken, "/", accessExp))
	c.SetCookie(auth.CreateCookie(auth.RefreshCookie, refreshToken, "/", refreshExp))

	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	if cookie, err := c.Cookie(auth.RefreshCookie); err == nil && cookie.Value != "" {
		if err := h.Repo.RevokeRefreshToken(ctx, cookie.Value); err != nil {
			logging.FromContext(ctx).Error("logout_error", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	expired := time.Now().Add(-1 * time.Hour)
	c.SetCookie(auth.CreateCookie(auth.AccessCookie, "", "/", expired))
	c.SetCookie(auth.CreateCookie(auth.RefreshCookie, "", "/", expired))

	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

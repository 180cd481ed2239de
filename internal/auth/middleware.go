package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/jpcardenas/tienda/internal/models"
)

const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

// Middleware authenticates requests from the accessToken cookie and rejects
// deactivated accounts. Failures never say which check tripped beyond the
// status code.
type Middleware struct {
	DB        *gorm.DB
	JWTSecret []byte
}

func (m *Middleware) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, role, err := m.authenticate(c)
		if err != nil {
			return err
		}
		c.Set(ContextUserID, userID)
		c.Set(ContextRole, role)
		return next(c)
	}
}

func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.RequireLogin(func(c echo.Context) error {
		if role, _ := c.Get(ContextRole).(string); role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "forbidden")
		}
		return next(c)
	})
}

func (m *Middleware) authenticate(c echo.Context) (uint, string, error) {
	cookie, err := c.Cookie(AccessCookie)
	if err != nil || cookie.Value == "" {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	claims, err := ParseToken(cookie.Value, m.JWTSecret)
	if err != nil {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	userID, err := SubjectID(claims)
	if err != nil {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := m.DB.WithContext(c.Request().Context()).First(&user, userID).Error; err != nil {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !user.IsActive {
		return 0, "", echo.NewHTTPError(http.StatusForbidden, "account deactivated")
	}

	return user.ID, user.Role, nil
}

// UserID reads the authenticated user id set by RequireLogin.
func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(ContextUserID).(uint)
	return id, ok
}

package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jpcardenas/tienda/internal/auth"
	"github.com/jpcardenas/tienda/internal/models"
	"github.com/jpcardenas/tienda/internal/repo"
	"github.com/jpcardenas/tienda/internal/service"
)

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB

	A *AuthHandler
	C *CartHandler
	O *OrderHandler
	P *ProductHandler
	R *RefDataHandler

	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models.All()...))

	r := repo.New(db)
	jwtSecret := []byte("test-jwt-secret")
	refreshSecret := []byte("test-refresh-secret")

	return &testEnv{
		T:  t,
		E:  echo.New(),
		DB: db,
		A: &AuthHandler{
			Repo:          r,
			JWTSecret:     jwtSecret,
			RefreshSecret: refreshSecret,
		},
		C: &CartHandler{Svc: &service.CartService{Repo: r}},
		O: &OrderHandler{Svc: service.NewOrderService(r, "TD")},
		P: &ProductHandler{Repo: r},
		R: &RefDataHandler{Repo: r},

		Repo:          r,
		JWTSecret:     jwtSecret,
		RefreshSecret: refreshSecret,
	}
}

func (env *testEnv) doJSONRequest(method, path string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

// asUser simulates a request that already passed RequireLogin.
func asUser(c echo.Context, userID uint) {
	c.Set(auth.ContextUserID, userID)
	c.Set(auth.ContextRole, models.RoleCustomer)
}

func productBlob(t *testing.T, id int64, name string, priceCents int64) json.RawMessage {
	t.Helper()
	blob, err := json.Marshal(map[string]any{"id": id, "name": name, "price": priceCents})
	require.NoError(t, err)
	return blob
}

func requireHTTPError(t *testing.T, err error, status int) {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, status, he.Code)
}

package handlers

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

	"github.com/spiceroute/storefront/internal/catalog"
	"github.com/spiceroute/storefront/internal/models"
	"github.com/spiceroute/storefront/internal/pricing"
)

type testEnv struct {
	T    *testing.T
	E    *echo.Echo
	DB   *gorm.DB
	Auth *AuthHandler
	Cart *CartHandler
	Ord  *OrderHandler
	Res  *ReservationHandler
	Menu *MenuHandler
}

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Reservation{},
		&models.ContactMessage{},
	))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := initTestDB(t)
	cat := catalog.Default()
	calc := pricing.Calculator{DeliveryFeeCents: 399, TaxRateBasisPoints: 800}

	return &testEnv{
		T:    t,
		E:    echo.New(),
		DB:   db,
		Auth: &AuthHandler{DB: db, JWTSecret: []byte("test-secret"), RefreshSecret: []byte("test-refresh")},
		Cart: &CartHandler{DB: db, Catalog: cat},
		Ord:  &OrderHandler{DB: db, Catalog: cat, Pricing: calc},
		Res:  &ReservationHandler{DB: db},
		Menu: &MenuHandler{Catalog: cat},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body any) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, env.E.NewContext(req, rec)
}

// asUser mimics the auth middleware placing the user id into the context.
func (env *testEnv) asUser(c echo.Context, id uint) {
	c.Set("userID", id)
	c.Set("role", "user")
}

func requireHTTPError(t *testing.T, err error, code int) *echo.HTTPError {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, code, he.Code)
	return he
}

func decodeCartView(t *testing.T, rec *httptest.ResponseRecorder) CartView {
	t.Helper()
	var view CartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	return view
}

func requireAddToCart(t *testing.T, env *testEnv, uid uint, body map[string]any) CartView {
	t.Helper()
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart/items", body)
	env.asUser(c, uid)
	require.NoError(t, env.Cart.AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)
	return decodeCartView(t, rec)
}

package token

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/spiceroute/storefront/internal/models"
)

func newService(t *testing.T) *TokenService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.RefreshToken{}))

	return &TokenService{
		DB:            db,
		JWTSecret:     []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
	}
}

func TestValidateRefresh(t *testing.T) {
	svc := newService(t)

	refresh, err := SignRefreshToken(7, "user", svc.RefreshSecret)
	require.NoError(t, err)
	require.NoError(t, SaveRefreshToken(svc.DB, refresh, 7))

	claims, err := ValidateRefresh(refresh, svc.RefreshSecret, svc.DB)
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims["sub"])
	assert.Equal(t, "user", claims["role"])

	// An access token is rejected even though it is validly signed.
	access, err := SignAccessToken(7, "user", svc.RefreshSecret)
	require.NoError(t, err)
	_, err = ValidateRefresh(access, svc.RefreshSecret, svc.DB)
	require.ErrorContains(t, err, "not a refresh token")

	// Unknown tokens never validate.
	stray, err := SignRefreshToken(8, "user", svc.RefreshSecret)
	require.NoError(t, err)
	_, err = ValidateRefresh(stray, svc.RefreshSecret, svc.DB)
	require.ErrorContains(t, err, "not found")
}

func TestValidateRefreshRevoked(t *testing.T) {
	svc := newService(t)

	refresh, err := SignRefreshToken(7, "user", svc.RefreshSecret)
	require.NoError(t, err)
	require.NoError(t, SaveRefreshToken(svc.DB, refresh, 7))
	require.NoError(t, svc.RevokeRefresh(refresh))

	_, err = ValidateRefresh(refresh, svc.RefreshSecret, svc.DB)
	require.ErrorContains(t, err, "revoked")
}

func TestRotateToken(t *testing.T) {
	svc := newService(t)

	refresh, err := SignRefreshToken(7, "admin", svc.RefreshSecret)
	require.NoError(t, err)
	require.NoError(t, SaveRefreshToken(svc.DB, refresh, 7))

	newAccess, newRefresh, err := svc.RotateToken(refresh)
	require.NoError(t, err)
	require.NotEmpty(t, newAccess)
	require.NotEmpty(t, newRefresh)

	// The old refresh token is burned, the new one works.
	_, _, err = svc.RotateToken(refresh)
	require.Error(t, err)
	_, _, err = svc.RotateToken(newRefresh)
	require.NoError(t, err)

	tok, err := jwt.Parse(newAccess, func(j *jwt.Token) (interface{}, error) {
		return svc.JWTSecret, nil
	})
	require.NoError(t, err)
	claims := tok.Claims.(jwt.MapClaims)
	assert.EqualValues(t, 7, claims["sub"])
	assert.Equal(t, "admin", claims["role"])
}

func middlewareContext(t *testing.T, cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestAutoRefreshMiddleware(t *testing.T) {
	svc := newService(t)

	next := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}

	t.Run("valid access token passes through", func(t *testing.T) {
		access, err := SignAccessToken(7, "user", svc.JWTSecret)
		require.NoError(t, err)
		c, rec := middlewareContext(t, &http.Cookie{Name: "accessToken", Value: access})

		require.NoError(t, svc.AutoRefreshMiddleware(next)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, uint(7), c.Get("userID"))
		assert.Equal(t, "user", c.Get("role"))
	})

	t.Run("no cookies is unauthorized", func(t *testing.T) {
		c, _ := middlewareContext(t)
		err := svc.AutoRefreshMiddleware(next)(c)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("expired access rotates off refresh cookie", func(t *testing.T) {
		expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":  float64(7),
			"role": "user",
			"exp":  time.Now().Add(-time.Minute).Unix(),
		}).SignedString(svc.JWTSecret)
		require.NoError(t, err)

		refresh, err := SignRefreshToken(7, "user", svc.RefreshSecret)
		require.NoError(t, err)
		require.NoError(t, SaveRefreshToken(svc.DB, refresh, 7))

		c, rec := middlewareContext(t,
			&http.Cookie{Name: "accessToken", Value: expired},
			&http.Cookie{Name: "refreshToken", Value: refresh},
		)
		require.NoError(t, svc.AutoRefreshMiddleware(next)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, uint(7), c.Get("userID"))

		names := make(map[string]bool)
		for _, ck := range rec.Result().Cookies() {
			names[ck.Name] = true
		}
		assert.True(t, names["accessToken"], "fresh access cookie set")
		assert.True(t, names["refreshToken"], "rotated refresh cookie set")

		// The used refresh token cannot be replayed.
		c2, _ := middlewareContext(t,
			&http.Cookie{Name: "accessToken", Value: expired},
			&http.Cookie{Name: "refreshToken", Value: refresh},
		)
		err = svc.AutoRefreshMiddleware(next)(c2)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("garbage access token is rejected without rotation", func(t *testing.T) {
		c, _ := middlewareContext(t, &http.Cookie{Name: "accessToken", Value: "not-a-jwt"})
		err := svc.AutoRefreshMiddleware(next)(c)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})
}

func TestAutoRefreshMiddlewareAdmin(t *testing.T) {
	svc := newService(t)

	next := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}

	access, err := SignAccessToken(7, "user", svc.JWTSecret)
	require.NoError(t, err)
	c, _ := middlewareContext(t, &http.Cookie{Name: "accessToken", Value: access})
	err = svc.AutoRefreshMiddlewareAdmin(next)(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusForbidden, he.Code)

	admin, err := SignAccessToken(1, "admin", svc.JWTSecret)
	require.NoError(t, err)
	c, rec := middlewareContext(t, &http.Cookie{Name: "accessToken", Value: admin})
	require.NoError(t, svc.AutoRefreshMiddlewareAdmin(next)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

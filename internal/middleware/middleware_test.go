package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Husnain-278/EventHub/internal/config"
)

const secret = "test-secret"

func token(t *testing.T, role string, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin-1",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func adminEcho() *echo.Echo {
	e := echo.New()
	g := e.Group("/admin", JWTAuth(secret), RequireRole(RoleAdmin))
	g.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, Subject(c))
	})
	return e
}

func TestJWTAuthAndRole(t *testing.T) {
	e := adminEcho()
	future := time.Now().Add(time.Hour)

	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"expired", "Bearer " + token(t, RoleAdmin, time.Now().Add(-time.Minute)), http.StatusUnauthorized},
		{"wrong role", "Bearer " + token(t, "CUSTOMER", future), http.StatusForbidden},
		{"admin", "Bearer " + token(t, RoleAdmin, future), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tc.code, rec.Code)
			if tc.code == http.StatusOK {
				assert.Equal(t, "admin-1", rec.Body.String())
			}
		})
	}
}

func TestJWTAuthRejectsOtherAlgorithms(t *testing.T) {
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		Role:             RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+s)
	rec := httptest.NewRecorder()
	adminEcho().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func cacheCfg() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{http.MethodGet: true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "test:cache",
		MaxBodyBytes: 1 << 10,
	}
}

func TestRedisCache_MissThenStore(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cfg := cacheCfg()
	e := echo.New()
	calls := 0
	e.GET("/v1/venues", func(c echo.Context) error {
		calls++
		return c.JSONBlob(http.StatusOK, []byte(`{"items":[]}`))
	}, NewRedisCache(cfg, rdb))

	req := httptest.NewRequest(http.MethodGet, "/v1/venues?page=1", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/venues")
	key := cacheKey(cfg, c)

	payload, err := json.Marshal(cacheEntry{Status: http.StatusOK, ContentType: echo.MIMEApplicationJSON, Body: []byte(`{"items":[]}`)})
	require.NoError(t, err)
	mock.ExpectGet(key).RedisNil()
	mock.ExpectSetEx(key, payload, time.Minute).SetVal("OK")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/venues?page=1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_Hit(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cfg := cacheCfg()
	e := echo.New()
	e.GET("/v1/event-stats", func(c echo.Context) error {
		t.Fatal("handler must not run on a cache hit")
		return nil
	}, NewRedisCache(cfg, rdb))

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/event-stats", nil), httptest.NewRecorder())
	c.SetPath("/v1/event-stats")
	payload, err := json.Marshal(cacheEntry{Status: http.StatusOK, ContentType: echo.MIMEApplicationJSON, Body: []byte(`{"bookings":{"total":3}}`)})
	require.NoError(t, err)
	mock.ExpectGet(cacheKey(cfg, c)).SetVal(string(payload))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/event-stats", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"bookings":{"total":3}}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_DisabledWithoutClient(t *testing.T) {
	e := echo.New()
	e.GET("/x", func(c echo.Context) error { return c.String(http.StatusOK, "ok") }, NewRedisCache(cacheCfg(), nil))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestTokenBucket(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: 3 * time.Second,
		TTL:            time.Minute,
		KeyStrategy:    "ip",
		Prefix:         "test:rl",
	}
	now := time.UnixMilli(1_700_000_000_000)
	e := echo.New()
	e.POST("/v1/bookings", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	}, newTokenBucket(cfg, rdb, func() time.Time { return now }))

	key := "test:rl:ip:192.0.2.1"
	args := rateArgs(cfg, now)
	mock.ExpectEvalSha(tokenBucketScript.Hash(), []string{key}, args...).SetVal([]interface{}{int64(1), int64(1), int64(0)})
	mock.ExpectEvalSha(tokenBucketScript.Hash(), []string{key}, args...).SetVal([]interface{}{int64(0), int64(0), int64(2500)})

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/bookings", nil)
		req.RemoteAddr = "192.0.2.1:4242"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	second := send()
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "3", second.Header().Get("Retry-After"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenBucketFailsOpen(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cfg := config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Second, TTL: time.Minute, KeyStrategy: "ip", Prefix: "rl"}
	now := time.UnixMilli(42)
	e := echo.New()
	e.Logger.SetOutput(&bytes.Buffer{})
	e.POST("/v1/bookings", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	}, newTokenBucket(cfg, rdb, func() time.Time { return now }))
	mock.ExpectEvalSha(tokenBucketScript.Hash(), []string{"rl:ip:192.0.2.1"}, rateArgs(cfg, now)...).SetErr(assert.AnError)

	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	l := log.New("test")
	l.SetOutput(&buf)
	e := echo.New()
	e.Use(AccessLog(l, nil))
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusBadGateway, "upstream") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, buf.String(), `"status":502`)
	assert.Contains(t, buf.String(), `"uri":"/boom"`)
}

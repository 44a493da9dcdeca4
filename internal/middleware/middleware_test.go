package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/files-manager/internal/config"
	"github.com/iliyamo/files-manager/internal/model"
)

type stubAuth map[string]*model.User

func (s stubAuth) Authenticate(_ context.Context, token string) (*model.User, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	return nil, errors.New("Unauthorized")
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func do(e *echo.Echo, method, path string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestTokenAuth(t *testing.T) {
	auth := stubAuth{"good": {ID: "1", Email: "a@b.c"}}
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		return c.String(http.StatusOK, UserID(c)+"|"+Token(c))
	}, TokenAuth(auth))

	rec := do(e, http.MethodGet, "/me", map[string]string{HeaderToken: "good"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1|good", rec.Body.String())

	for _, hdr := range []map[string]string{nil, {HeaderToken: "bad"}} {
		rec = do(e, http.MethodGet, "/me", hdr)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
	}
}

func TestOptionalTokenAuth(t *testing.T) {
	auth := stubAuth{"good": {ID: "1"}}
	e := echo.New()
	e.GET("/data", func(c echo.Context) error {
		return c.String(http.StatusOK, "["+UserID(c)+"]")
	}, OptionalTokenAuth(auth))

	assert.Equal(t, "[1]", do(e, http.MethodGet, "/data", map[string]string{HeaderToken: "good"}).Body.String())
	assert.Equal(t, "[]", do(e, http.MethodGet, "/data", map[string]string{HeaderToken: "bad"}).Body.String())
	assert.Equal(t, "[]", do(e, http.MethodGet, "/data", nil).Body.String())
}

func TestTokenBucket(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            5 * time.Hour,
		KeyStrategy:    "ip_route",
		Prefix:         "rl",
	}
	e := echo.New()
	e.GET("/connect", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, NewTokenBucket(cfg, rdb, zap.NewNop()))

	rec := do(e, http.MethodGet, "/connect", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/connect", nil).Code)

	rec = do(e, http.MethodGet, "/connect", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"Too many requests"}`, rec.Body.String())
}

func TestTokenBucket_FailsOpen(t *testing.T) {
	mr, rdb := newRedis(t)
	cfg := config.LoadRateLimitConfig()
	cfg.Enabled = true
	e := echo.New()
	e.GET("/users", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, NewTokenBucket(cfg, rdb, nil))

	mr.Close()
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/users", nil).Code)
}

func TestResponseCache(t *testing.T) {
	_, rdb := newRedis(t)
	calls := 0
	e := echo.New()
	mw := NewResponseCache(config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "cache", MaxBodyBytes: 1 << 10}, rdb, nil)
	e.GET("/stats", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"users": 1, "files": 2})
	}, mw)

	first := do(e, http.MethodGet, "/stats", nil)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := do(e, http.MethodGet, "/stats", nil)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Contains(t, second.Header().Get(echo.HeaderContentType), "application/json")
	assert.Equal(t, 1, calls)
}

func TestResponseCache_SkipsErrorsAndLargeBodies(t *testing.T) {
	_, rdb := newRedis(t)
	calls := 0
	e := echo.New()
	mw := NewResponseCache(config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "cache", MaxBodyBytes: 4}, rdb, nil)
	e.GET("/big", func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, "more than four bytes")
	}, mw)
	e.GET("/err", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "x"})
	}, mw)

	do(e, http.MethodGet, "/big", nil)
	do(e, http.MethodGet, "/big", nil)
	do(e, http.MethodGet, "/err", nil)
	do(e, http.MethodGet, "/err", nil)
	assert.Equal(t, 4, calls)
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(201, hdr, []byte(`{}`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, 201, status)
	assert.Equal(t, hdr, got)
	assert.Equal(t, `{}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 0})
	assert.False(t, ok)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := echo.New()
	e.Use(RequestLogger(zap.New(core)))
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	do(e, http.MethodGet, "/healthz", nil)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/healthz", fields["uri"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/stayboard/internal/config"
	"github.com/iliyamo/stayboard/internal/utils"
)

const secret = "test-secret"

func bearer(t *testing.T, c utils.Claims) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, c, 5)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + tok.Token
}

func serve(e *echo.Echo, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthAndRequireRole(t *testing.T) {
	e := echo.New()
	g := e.Group("/v1", JWTAuth(secret))
	g.GET("/desk", func(c echo.Context) error {
		return c.String(http.StatusOK, Actor(c))
	}, RequireRole("OPERATOR", "ADMIN"))
	g.POST("/override", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, RequireRole("ADMIN"))

	op := bearer(t, utils.Claims{OperatorID: 7, Role: "OPERATOR", Name: "박운영"})
	admin := bearer(t, utils.Claims{OperatorID: 1, Role: "ADMIN"})

	tests := []struct {
		name, method, path, auth string
		want                     int
		body                     string
	}{
		{"no token", http.MethodGet, "/v1/desk", "", http.StatusUnauthorized, ""},
		{"bad token", http.MethodGet, "/v1/desk", "Bearer junk", http.StatusUnauthorized, ""},
		{"operator reads", http.MethodGet, "/v1/desk", op, http.StatusOK, "박운영"},
		{"admin without name", http.MethodGet, "/v1/desk", admin, http.StatusOK, "operator-1"},
		{"operator cannot override", http.MethodPost, "/v1/override", op, http.StatusForbidden, ""},
		{"admin overrides", http.MethodPost, "/v1/override", admin, http.StatusNoContent, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(e, tt.method, tt.path, tt.auth)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
			if tt.body != "" && rec.Body.String() != tt.body {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.body)
			}
		})
	}
}

func TestPassThroughWithoutRedis(t *testing.T) {
	e := echo.New()
	e.Use(NewWriteLimiter(config.RateLimitConfig{Enabled: true, Writes: 1, Window: time.Second}, nil))
	e.Use(NewRoomCache(config.CacheConfig{Enabled: true}, nil).Middleware())
	e.GET("/rooms", func(c echo.Context) error { return c.String(http.StatusOK, "rooms") })

	rec := serve(e, http.MethodGet, "/rooms", "")
	if rec.Code != http.StatusOK || rec.Header().Get("X-Cache") != "" {
		t.Fatalf("status = %d, X-Cache = %q", rec.Code, rec.Header().Get("X-Cache"))
	}
	if err := NewRoomCache(config.CacheConfig{Enabled: true}, nil).Purge(context.Background()); err != nil {
		t.Errorf("purge without redis: %v", err)
	}
}

func TestWriteLimiterFailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer rdb.Close()

	e := echo.New()
	e.Use(NewWriteLimiter(config.RateLimitConfig{Enabled: true, Writes: 1, Window: time.Minute, Prefix: "rl"}, rdb))
	e.POST("/v1/holds", func(c echo.Context) error { return c.NoContent(http.StatusCreated) })
	e.GET("/v1/holds", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for i := 0; i < 3; i++ {
		if rec := serve(e, http.MethodPost, "/v1/holds", ""); rec.Code != http.StatusCreated {
			t.Fatalf("write %d with redis down: %d", i, rec.Code)
		}
	}
	if rec := serve(e, http.MethodGet, "/v1/holds", ""); rec.Header().Get("X-RateLimit-Limit") != "" {
		t.Error("reads must not be counted")
	}
}

func TestWriteScope(t *testing.T) {
	e := echo.New()
	tests := []struct {
		name, method, path string
		params             []string
		want               string
	}{
		{"conflict key", http.MethodPost, "/v1/conflicts/:key/force-approve", []string{"key", "room-01:ACM-2026-00001:ACM-2026-00002"}, "room:room-01"},
		{"hold id", http.MethodDelete, "/v1/holds/:id", []string{"id", "HOLD-004"}, "route:DELETE /v1/holds/:id"},
		{"create booking", http.MethodPost, "/v1/bookings", nil, "route:POST /v1/bookings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := e.NewContext(httptest.NewRequest(tt.method, "/", nil), httptest.NewRecorder())
			c.SetPath(tt.path)
			if len(tt.params) == 2 {
				c.SetParamNames(tt.params[0])
				c.SetParamValues(tt.params[1])
			}
			if got := writeScope(c); got != tt.want {
				t.Errorf("scope = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRoomKey(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/rooms", nil), httptest.NewRecorder())
	if got := roomKey("sb:cache", c); got != "sb:cache:rooms" {
		t.Errorf("catalog key = %q", got)
	}
	c.SetParamNames("id")
	c.SetParamValues("room-02")
	if got := roomKey("sb:cache", c); got != "sb:cache:rooms:room-02" {
		t.Errorf("room key = %q", got)
	}
}

func TestWantsFresh(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/rooms", nil)
	if wantsFresh(req) {
		t.Error("plain request wants fresh")
	}
	req.Header.Set("Cache-Control", "No-Cache")
	if !wantsFresh(req) {
		t.Error("no-cache ignored")
	}
}

func TestOperatorIDConversions(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	for _, v := range []any{uint64(5), int64(5), 5, float64(5), "5"} {
		c.Set(CtxOperatorID, v)
		if OperatorID(c) != 5 {
			t.Errorf("OperatorID(%T) = %d", v, OperatorID(c))
		}
	}
	c.Set(CtxOperatorID, nil)
	if OperatorID(c) != 0 || actorKey(c) != "anon" || Actor(c) != "anonymous" {
		t.Error("empty context not treated as anonymous")
	}
}

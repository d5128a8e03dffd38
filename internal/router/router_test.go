package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/stayboard/internal/handler"
	"github.com/iliyamo/stayboard/internal/utils"
)

const secret = "router-secret"

func pass(next echo.HandlerFunc) echo.HandlerFunc { return next }

func TestRegisterDesk(t *testing.T) {
	e := echo.New()
	RegisterRoutes(e, func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	RegisterAuth(e, &handler.AuthHandler{}, secret)
	RegisterDesk(e, &handler.DeskHandler{}, secret, pass, pass)

	have := map[string]bool{}
	for _, r := range e.Routes() {
		have[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /healthz",
		"POST /v1/auth/login",
		"GET /v1/me",
		"GET /v1/rooms/:id",
		"POST /v1/bookings/validate",
		"PATCH /v1/bookings/:id/status",
		"DELETE /v1/holds/:id",
		"GET /v1/conflicts",
		"POST /v1/conflicts/:key/actions/:action",
		"POST /v1/conflicts/:key/force-approve",
		"GET /v1/audit",
		"GET /v1/calendar",
		"GET /v1/dashboard",
	} {
		if !have[want] {
			t.Errorf("route %s not registered", want)
		}
	}

	tok, err := utils.NewAccessToken(secret, utils.Claims{OperatorID: 3, Role: "OPERATOR", Name: "이직원"}, 5)
	if err != nil {
		t.Fatal(err)
	}
	// operators reach the desk but not forced approval
	req := httptest.NewRequest(http.MethodPost, "/v1/conflicts/room-01:A:B/force-approve", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("operator force-approve: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous dashboard: %d", rec.Code)
	}
}

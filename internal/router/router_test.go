package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Husnain-278/EventHub/internal/booking"
	"github.com/Husnain-278/EventHub/internal/config"
	"github.com/Husnain-278/EventHub/internal/database/dbtest"
	"github.com/Husnain-278/EventHub/internal/handler"
	"github.com/Husnain-278/EventHub/internal/metrics"
	"github.com/Husnain-278/EventHub/internal/middleware"
	"github.com/Husnain-278/EventHub/internal/repository"
	"github.com/Husnain-278/EventHub/internal/router"
	"github.com/Husnain-278/EventHub/internal/utils"
)

const jwtSecret = "router-test-secret"

type app struct {
	e                  *echo.Echo
	venue, eventType   uint64
	soup, rice, closed uint64
	count              func(table string) int
}

func newApp(t *testing.T) *app {
	t.Helper()
	db := dbtest.New(t)
	cat := dbtest.Category(t, db, "Mains")
	a := &app{
		venue:     dbtest.Venue(t, db, "Royal Hall", 500, true),
		eventType: dbtest.EventType(t, db, "Wedding", 20000),
		soup:      dbtest.MenuItem(t, db, cat, "Soup", 300, true),
		rice:      dbtest.MenuItem(t, db, cat, "Rice", 200, true),
		closed:    dbtest.Venue(t, db, "Old Barn", 100, false),
		count:     func(table string) int { return dbtest.Count(t, db, table) },
	}

	logger := log.New("test")
	logger.SetOutput(io.Discard)
	m := metrics.New()
	bookings := repository.NewBookingRepo(db)
	catalog := repository.NewCatalogRepo(db)
	svc := booking.NewService(bookings, catalog, nil, logger, m)

	e := router.NewEcho(logger, m)
	router.RegisterRoutes(e, db, m)
	router.RegisterPublic(e, handler.NewCatalogHandler(catalog), handler.NewStatsHandler(repository.NewStatsRepo(db)), config.CacheConfig{}, nil)
	router.RegisterBookings(e, handler.NewBookingHandler(svc, bookings), config.RateLimitConfig{}, nil)
	router.RegisterAdmin(e, handler.NewAdminBookingHandler(svc), jwtSecret)
	a.e = e
	return a
}

func (a *app) do(t *testing.T, method, path, body, bearer string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	out := map[string]any{}
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&out))
	}
	return rec.Code, out
}

func (a *app) createBody(extra string) string {
	return fmt.Sprintf(`{"venue_id":%d,"event_type_id":%d,"customer_name":"Ayesha","customer_email":"ayesha@example.com",
		"event_date":"2026-12-01","event_time":"18:30","guests_count":50,"menu_items":[%d,%d,%d]%s}`,
		a.venue, a.eventType, a.soup, a.rice, a.soup, extra)
}

func adminToken(t *testing.T, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(jwtSecret, "ops", role, time.Hour)
	require.NoError(t, err)
	return tok.Token
}

func item(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	it, ok := body["item"].(map[string]any)
	require.True(t, ok, "response has no item: %v", body)
	return it
}

func TestCreateBooking(t *testing.T) {
	a := newApp(t)

	code, body := a.do(t, http.MethodPost, "/v1/bookings", a.createBody(`,"status":"Active"`), "")
	require.Equal(t, http.StatusCreated, code, body)

	b := item(t, body)
	assert.Equal(t, "25000.00", b["chairs_cost"])
	assert.Equal(t, "25000.00", b["food_cost"])
	assert.Equal(t, "20000.00", b["event_cost"])
	assert.Equal(t, "70000.00", b["total_cost"])
	assert.Equal(t, "Pending", b["status"])
	assert.Equal(t, "18:30:00", b["event_time"])
	assert.Len(t, b["menu_items"], 2)
	assert.Equal(t, 2, a.count("booking_menus"))

	id := uint64(b["id"].(float64))
	code, body = a.do(t, http.MethodGet, fmt.Sprintf("/v1/bookings/%d", id), "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Royal Hall", item(t, body)["venue_name"])
}

func TestCreateBookingRejectsCostFields(t *testing.T) {
	a := newApp(t)

	code, body := a.do(t, http.MethodPost, "/v1/bookings", a.createBody(`,"total_cost":"1.00"`), "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, body["error"], "total_cost")
	assert.Equal(t, 0, a.count("bookings"))
}

func TestCreateBookingValidation(t *testing.T) {
	a := newApp(t)

	code, body := a.do(t, http.MethodPost, "/v1/bookings", `{"customer_email":"nope"}`, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "validation failed", body["error"])
	assert.NotEmpty(t, body["problems"])

	code, _ = a.do(t, http.MethodPost, "/v1/bookings", `[1,2]`, "")
	assert.Equal(t, http.StatusBadRequest, code)

	bad := strings.Replace(a.createBody(""), fmt.Sprintf(`"venue_id":%d`, a.venue), fmt.Sprintf(`"venue_id":%d`, a.closed), 1)
	code, body = a.do(t, http.MethodPost, "/v1/bookings", bad, "")
	assert.Equal(t, http.StatusBadRequest, code)
	problems := body["problems"].([]any)
	require.Len(t, problems, 1)
	assert.Equal(t, "is not active", problems[0].(map[string]any)["reason"])
	assert.Equal(t, 0, a.count("bookings"))
}

func TestCreateBookingCustomerName(t *testing.T) {
	a := newApp(t)

	blank := strings.Replace(a.createBody(""), `"customer_name":"Ayesha"`, `"customer_name":"   "`, 1)
	code, body := a.do(t, http.MethodPost, "/v1/bookings", blank, "")
	require.Equal(t, http.StatusBadRequest, code)
	problems := body["problems"].([]any)
	require.Len(t, problems, 1)
	assert.Equal(t, "customer_name", problems[0].(map[string]any)["field"])
	assert.Equal(t, 0, a.count("bookings"))

	long := strings.Repeat("a", 180)
	code, body = a.do(t, http.MethodPost, "/v1/bookings", strings.Replace(a.createBody(""), "Ayesha", long, 1), "")
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, long, item(t, body)["customer_name"])

	code, _ = a.do(t, http.MethodPost, "/v1/bookings", strings.Replace(a.createBody(""), "Ayesha", strings.Repeat("a", 201), 1), "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestBookingNotFound(t *testing.T) {
	a := newApp(t)

	code, _ := a.do(t, http.MethodGet, "/v1/bookings/999", "", "")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = a.do(t, http.MethodGet, "/v1/bookings/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAdminFlow(t *testing.T) {
	a := newApp(t)
	_, body := a.do(t, http.MethodPost, "/v1/bookings", a.createBody(""), "")
	id := uint64(item(t, body)["id"].(float64))
	admin := adminToken(t, middleware.RoleAdmin)
	statusPath := fmt.Sprintf("/v1/admin/bookings/%d/status", id)

	code, _ := a.do(t, http.MethodPatch, statusPath, `{"status":"Active"}`, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = a.do(t, http.MethodPatch, statusPath, `{"status":"Active"}`, adminToken(t, "CUSTOMER"))
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = a.do(t, http.MethodPatch, statusPath, `{"status":"Cancelled"}`, admin)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = a.do(t, http.MethodPatch, statusPath, `{"status":"Active"}`, admin)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Active", item(t, body)["status"])

	code, body = a.do(t, http.MethodPut, fmt.Sprintf("/v1/admin/bookings/%d/menu-items", id), fmt.Sprintf(`{"menu_items":[%d]}`, a.rice), admin)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "10000.00", item(t, body)["food_cost"])
	assert.Equal(t, "55000.00", item(t, body)["total_cost"])

	code, _ = a.do(t, http.MethodPut, fmt.Sprintf("/v1/admin/bookings/%d", id), `{"food_cost":"0.00"}`, admin)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, body = a.do(t, http.MethodPut, fmt.Sprintf("/v1/admin/bookings/%d", id), `{"guests_count":10}`, admin)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "27000.00", item(t, body)["total_cost"])

	code, body = a.do(t, http.MethodPost, "/v1/admin/bookings/reject", fmt.Sprintf(`{"ids":[%d,777]}`, id), admin)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["updated"])

	code, body = a.do(t, http.MethodGet, "/v1/bookings?status=Rejected", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["items"], 1)

	code, _ = a.do(t, http.MethodDelete, fmt.Sprintf("/v1/admin/bookings/%d", id), "", admin)
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = a.do(t, http.MethodDelete, fmt.Sprintf("/v1/admin/bookings/%d", id), "", admin)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPublicListingsAndOps(t *testing.T) {
	a := newApp(t)

	code, body := a.do(t, http.MethodGet, "/v1/venues", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["items"], 1)

	code, body = a.do(t, http.MethodGet, "/v1/menu-items", "", "")
	require.Equal(t, http.StatusOK, code)
	first := body["items"].([]any)[0].(map[string]any)
	assert.Equal(t, "Mains", first["menu_category_name"])

	code, body = a.do(t, http.MethodGet, "/v1/event-stats", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), body["venues"].(map[string]any)["total"])

	code, _ = a.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, code)

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "eventhub_http_request_duration_seconds")
}

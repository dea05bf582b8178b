package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servicedirectory/internal/auth"
	"servicedirectory/internal/config"
	"servicedirectory/internal/db"
	"servicedirectory/internal/handler"
	"servicedirectory/internal/metrics"
	"servicedirectory/internal/repository"
	"servicedirectory/internal/service"
	"servicedirectory/internal/storage"
)

func newTestServer(t *testing.T, requireAuth bool) (*echo.Echo, *auth.JWTService) {
	t.Helper()

	gormDB, err := db.NewSQLite(filepath.Join(t.TempDir(), "router.db"), nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	jwtService := auth.NewJWTService("router-test-secret", time.Minute, time.Hour)
	tokenStore := auth.NewTokenStore(nil)

	directory := service.NewDirectoryService(repository.NewServiceRepository(gormDB), nil, store, nil, nil, 0)
	authService := service.NewAuthService(repository.NewUserRepository(gormDB), jwtService, tokenStore, nil, nil)

	e := echo.New()
	Register(
		e,
		&config.Config{ListingRequiresAuth: requireAuth},
		nil,
		metrics.NewHTTPMetrics(prometheus.NewRegistry()),
		jwtService,
		handler.NewServiceHandler(directory),
		handler.NewAuthHandler(authService),
		handler.NewImageHandler(store, nil),
	)
	return e, jwtService
}

func do(e *echo.Echo, method, path, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const alNoor = `{"serviceName":"Al Noor","pincode":"400001","serviceType":"religious","address":"Main St","openTime":"05:00","closeTime":"22:00"}`

func TestRouter_RegisterLoginScenario(t *testing.T) {
	e, _ := newTestServer(t, true)

	rec := do(e, http.MethodPost, "/api/register", `{"name":"masjid1","mobile":"9999999999","email":"a@a.com","password":"pw1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "pw1")

	rec = do(e, http.MethodPost, "/api/login", `{"email":"a@a.com","password":"pw1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login handler.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	assert.Equal(t, "a@a.com", login.User.Email)
	assert.NotEmpty(t, login.AccessToken)

	wrong := do(e, http.MethodPost, "/api/login", `{"email":"a@a.com","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)

	unknown := do(e, http.MethodPost, "/api/login", `{"email":"nobody@a.com","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.JSONEq(t, wrong.Body.String(), unknown.Body.String())

	dup := do(e, http.MethodPost, "/api/register", `{"name":"masjid1","email":"b@b.com","password":"other"}`, "")
	assert.Equal(t, http.StatusConflict, dup.Code)
	assert.Contains(t, dup.Body.String(), `"code":"CONFLICT"`)
}

func TestRouter_PasswordLengthLimit(t *testing.T) {
	e, _ := newTestServer(t, true)
	exact := strings.Repeat("a", service.MaxPasswordBytes)

	rec := do(e, http.MethodPost, "/api/register", `{"name":"long","email":"l@a.com","password":"`+exact+`b"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"code":"VALIDATION_ERROR"`)

	rec = do(e, http.MethodPost, "/api/register", `{"name":"long","email":"l@a.com","password":"`+exact+`"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(e, http.MethodPost, "/api/login", `{"email":"l@a.com","password":"`+exact+`EXTRA"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodPost, "/api/login", `{"email":"l@a.com","password":"`+exact+`"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_AddServiceRequiresAccessToken(t *testing.T) {
	e, jwtService := newTestServer(t, true)

	rec := do(e, http.MethodPost, "/api/addservice", alNoor, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"UNAUTHORIZED"`)

	_, refresh, err := jwtService.GenerateRefreshToken("user-1", "a@a.com")
	require.NoError(t, err)
	rec = do(e, http.MethodPost, "/api/addservice", alNoor, refresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	access, _, err := jwtService.GenerateAccessToken("user-1", "a@a.com")
	require.NoError(t, err)
	rec = do(e, http.MethodPost, "/api/addservice", alNoor, access)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestRouter_AddThenSearchScenario(t *testing.T) {
	e, _ := newTestServer(t, false)

	rec := do(e, http.MethodPost, "/api/addservice", alNoor, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(e, http.MethodPost, "/api/getservice", `{"pincode":"400001","selectedService":"Religious"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var found handler.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	require.Len(t, found.FilteredServices, 1)
	assert.Equal(t, "Al Noor", found.FilteredServices[0].ServiceName)

	rec = do(e, http.MethodPost, "/api/getservice", `{"pincode":"400001"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "selectedService")

	rec = do(e, http.MethodGet, "/api/servicedetails", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var all []json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 1)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	e, _ := newTestServer(t, false)

	rec := do(e, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	do(e, http.MethodGet, "/api/servicedetails", "", "")
	rec = do(e, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `directory_http_requests_total{method="GET",route="/api/servicedetails",status="200"}`)
}

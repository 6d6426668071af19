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

	"github.com/joblink-iscim/backend/internal/events"
	"github.com/joblink-iscim/backend/internal/middleware"
	"github.com/joblink-iscim/backend/internal/models"
	"github.com/joblink-iscim/backend/internal/provider"
	"github.com/joblink-iscim/backend/internal/repo"
	"github.com/joblink-iscim/backend/internal/service"
)

type testEnv struct {
	e   *echo.Echo
	svc *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.AccessToken{}))

	gormRepo := repo.GormRepo{DB: db}
	authSvc := &service.AuthService{
		Repo:      gormRepo,
		Producer:  events.NewProducer(""),
		Providers: provider.NewRegistry(nil),
	}

	e := echo.New()
	Register(e, &Deps{
		AuthHandler:    &AuthHTTP{Svc: authSvc},
		ProfileHandler: &ProfileHTTP{Svc: &service.ProfileService{Repo: gormRepo}},
		AdminHandler:   &AdminHTTP{Svc: &service.AdminService{Repo: gormRepo, Producer: events.NewProducer("")}},
		AuthMW:         middleware.NewSessionAuth(authSvc),
	})

	return &testEnv{e: e, svc: authSvc}
}

func (env *testEnv) request(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRegisterEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "hunter2022!",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode(t, rec)
	require.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	require.Equal(t, "alice@example.com", user["email"])
	require.Equal(t, models.RoleUser, user["role"])
	_, leaked := user["password_hash"]
	require.False(t, leaked, "credential must never be serialized")

	// Same email again: validation-shaped duplicate error.
	rec = env.request(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name":     "Alice Again",
		"email":    "alice@example.com",
		"password": "hunter2022!",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestLoginEndpoint(t *testing.T) {
	env := newTestEnv(t)

	env.request(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "hunter2022!",
	})

	rec := env.request(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "alice@example.com",
		"password": "hunter2022!",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, decode(t, rec)["token"])

	rec = env.request(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "alice@example.com",
		"password": "wrong-password!",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestMeAndLogoutEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "hunter2022!",
	})
	token := decode(t, rec)["token"].(string)

	rec = env.request(t, http.MethodGet, "/api/user", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "alice@example.com", decode(t, rec)["email"])

	rec = env.request(t, http.MethodGet, "/api/user", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.request(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/user", token, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfileEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "hunter2022!",
	})
	token := decode(t, rec)["token"].(string)

	rec = env.request(t, http.MethodPut, "/api/user", token, map[string]any{
		"name": "Alice Liddell",
		"bio":  "Backend engineer.",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Alice Liddell", decode(t, rec)["name"])

	rec = env.request(t, http.MethodPut, "/api/user/status", token, map[string]any{
		"employment_status": "employed",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "employed", decode(t, rec)["employment_status"])

	rec = env.request(t, http.MethodPut, "/api/user/status", token, map[string]any{
		"employment_status": "retired",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAdminEndpointsAreRoleGated(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "hunter2022!",
	})
	userToken := decode(t, rec)["token"].(string)

	rec = env.request(t, http.MethodGet, "/api/admin/users", userToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Promote through the store and try again with a fresh session.
	require.NoError(t, env.svc.Repo.DB.Model(&models.User{}).
		Where("email = ?", "alice@example.com").
		Update("role", models.RoleAdmin).Error)

	rec = env.request(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "alice@example.com",
		"password": "hunter2022!",
	})
	adminToken := decode(t, rec)["token"].(string)

	rec = env.request(t, http.MethodGet, "/api/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/admin/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

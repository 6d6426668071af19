package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/joblink-iscim/backend/internal/events"
	"github.com/joblink-iscim/backend/internal/models"
	"github.com/joblink-iscim/backend/internal/provider"
	"github.com/joblink-iscim/backend/internal/repo"
	"github.com/joblink-iscim/backend/internal/service"
)

func newTestAuth(t *testing.T) (*SessionAuth, *service.AuthService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.AccessToken{}))

	svc := &service.AuthService{
		Repo:      repo.GormRepo{DB: db},
		Producer:  events.NewProducer(""),
		Providers: provider.NewRegistry(nil),
	}
	return NewSessionAuth(svc), svc
}

func protectedEcho(mw *SessionAuth) *echo.Echo {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"email": CurrentUser(c).Email})
	}, mw.RequireAuth)
	return e
}

func get(e *echo.Echo, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	mw, svc := newTestAuth(t)
	e := protectedEcho(mw)

	res, err := svc.Register(t.Context(), service.RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "hunter2022!",
	})
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, get(e, res.Token).Code)
	require.Equal(t, http.StatusUnauthorized, get(e, "").Code)
	require.Equal(t, http.StatusUnauthorized, get(e, "garbage").Code)
}

func TestRequireAuth_DeactivationCutsOffLiveTokens(t *testing.T) {
	mw, svc := newTestAuth(t)
	e := protectedEcho(mw)

	res, err := svc.Register(t.Context(), service.RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "hunter2022!",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, get(e, res.Token).Code)

	require.NoError(t, svc.Repo.DB.Model(&models.User{}).
		Where("id = ?", res.User.ID).
		Update("is_active", false).Error)

	// The token row still exists; its authority does not.
	require.Equal(t, http.StatusUnauthorized, get(e, res.Token).Code)
}

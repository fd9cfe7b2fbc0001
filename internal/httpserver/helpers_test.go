package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/store_manager/internal/events"
	"github.com/Skotchmaster/store_manager/internal/mirror/mirrortest"
	"github.com/Skotchmaster/store_manager/internal/models"
	"github.com/Skotchmaster/store_manager/internal/repo"
	"github.com/Skotchmaster/store_manager/internal/service"
	"github.com/Skotchmaster/store_manager/pkg/tokens"
)

var testSecret = []byte("test-secret")

type testEnv struct {
	E      *echo.Echo
	DB     *gorm.DB
	Mirror *mirrortest.Memory
	O      *OrderHTTP
	R      *ReportHTTP
	H      *HealthHTTP
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.User{}, &models.Order{}, &models.OrderItem{}))
	require.NoError(t, db.Create(&[]models.Product{
		{Name: "Keyboard", SKU: "KB-01", Price: decimal.RequireFromString("10.00")},
		{Name: "Mouse", SKU: "MS-01", Price: decimal.RequireFromString("4.50")},
	}).Error)
	require.NoError(t, db.Create(&models.User{Name: "Alice", Email: "alice@example.com"}).Error)

	r := &repo.GormRepo{DB: db}
	m := mirrortest.New()
	queries := &service.OrderQueries{Store: r, Mirror: m}

	env := &testEnv{
		E:      echo.New(),
		DB:     db,
		Mirror: m,
		O: &OrderHTTP{
			Orders:  &service.OrderService{Store: r, Mirror: m, Publisher: events.Noop{}},
			Queries: queries,
			Syncer:  &service.Syncer{Store: r, Mirror: m},
		},
		R: &ReportHTTP{Reports: &service.Reports{Queries: queries, Catalog: r}},
		H: &HealthHTTP{Checks: []ReadyCheck{{Name: "cache", Check: m.Ping}}},
	}
	Register(env.E, &Deps{
		OrderHandler:  env.O,
		ReportHandler: env.R,
		HealthHandler: env.H,
		JWTSecret:     testSecret,
	})
	return env
}

func (env *testEnv) doJSONRequest(method, path string, body any) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, env.E.NewContext(req, rec)
}

// serve runs the request through the full router, middleware included.
func (env *testEnv) serve(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func adminToken(t *testing.T, role string) string {
	t.Helper()
	tok, err := tokens.NewAccessToken("1", role, time.Now().Add(time.Hour), testSecret)
	require.NoError(t, err)
	return tok
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he), "expected *echo.HTTPError, got %v", err)
	return he.Code
}

func failingCheck(context.Context) error { return errors.New("connection refused") }

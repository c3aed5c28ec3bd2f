package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"healthtracker/internal/config"
	"healthtracker/internal/database"
	"healthtracker/internal/models"
)

const (
	testSecret   = "test-secret-that-is-long-enough-for-hs256"
	testPassword = "Tempo-Run-42"
)

type fixture struct {
	srv  *Server
	app  *fiber.App
	db   *gorm.DB
	mr   *miniredis.Miniredis
	csrf string
}

func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupSQLite(t)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		Env:             "test",
		Port:            "0",
		JWTSecret:       testSecret,
		SessionTTLHours: 1,
		DBDriver:        config.DriverSQLite,
	}
	srv, err := NewServerWithDeps(cfg, db, rdb)
	require.NoError(t, err)
	srv.registration.WithBcryptCost(bcrypt.MinCost)

	f := &fixture{srv: srv, app: srv.App(), db: db, mr: mr}
	f.csrf = f.fetchCSRFToken(t)
	return f
}

// fetchCSRFToken loads a page so the csrf middleware issues a token cookie.
func (f *fixture) fetchCSRFToken(t *testing.T) string {
	t.Helper()
	resp := f.do(t, get("/login", ""))
	for _, c := range resp.Cookies() {
		if c.Name == csrfCookie && c.Value != "" {
			return c.Value
		}
	}
	t.Fatal("no csrf cookie issued")
	return ""
}

// createUser stores a user whose password is testPassword, optionally with a
// profile.
func (f *fixture) createUser(t *testing.T, username string, withProfile bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{Username: username, Email: username + "@example.com", Password: string(hash)}
	require.NoError(t, f.db.Create(user).Error)

	if withProfile {
		height, weight := 180.0, 75.0
		profile := &models.UserProfile{UserID: user.ID, Height: &height, Weight: &weight, FitnessLevel: "7"}
		require.NoError(t, f.db.Omit("User").Create(profile).Error)
	}
	return user
}

func (f *fixture) token(t *testing.T, userID uint) string {
	t.Helper()
	sess, err := f.srv.sessions.Issue(userID)
	require.NoError(t, err)
	return sess.Token
}

func (f *fixture) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func get(path, token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	}
	return req
}

// postForm builds a form submission carrying the fixture's csrf token.
func (f *fixture) postForm(path string, values url.Values, token string) *http.Request {
	withToken := url.Values{csrfField: {f.csrf}}
	for k, vs := range values {
		withToken[k] = vs
	}
	req := rawPost(path, withToken, token)
	req.AddCookie(&http.Cookie{Name: csrfCookie, Value: f.csrf})
	return req
}

// rawPost builds a form submission without any csrf token.
func rawPost(path string, values url.Values, token string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	}
	return req
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"league-portal/config"
	"league-portal/middleware"
	"league-portal/models"
	"league-portal/repository"
	"league-portal/search"
	"league-portal/services"
	"league-portal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const adminToken = "test-admin-token"

type outbox struct {
	mu    sync.Mutex
	codes []string
}

var codeRe = regexp.MustCompile(`code is (\d+)\.`)

func (o *outbox) Send(_ context.Context, _, _, body string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if m := codeRe.FindStringSubmatch(body); len(m) == 2 {
		o.codes = append(o.codes, m[1])
	}
	return nil
}

func (o *outbox) last(t *testing.T) string {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.codes)
	return o.codes[len(o.codes)-1]
}

type testServer struct {
	app    *fiber.App
	db     *gorm.DB
	outbox *outbox
	svc    Services
}

func newTestServer(t *testing.T, requireOTP bool) *testServer {
	t.Helper()
	log, _ := test.NewNullLogger()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db))

	cfg := &config.Config{
		AppEnv:             "test",
		AllowedOrigins:     []string{"http://localhost:3000"},
		AdminToken:         adminToken,
		OTPLength:          6,
		OTPTTL:             2 * time.Minute,
		SessionTTL:         time.Hour,
		LoginRequireOTP:    requireOTP,
		DefaultPhoneRegion: "CN",
	}

	users := repository.NewGormUserRepository(db)
	teams := repository.NewGormTeamRepository(db)
	players := repository.NewGormPlayerRepository(db)
	matches := repository.NewGormMatchRepository(db)
	stats := repository.NewGormStatisticRepository(db)
	standings := repository.NewGormStandingRepository(db)

	store := session.NewRedisStore(client, "test:")
	mail := &outbox{}
	otp := services.NewOTPService(store, mail, cfg.OTPLength, cfg.OTPTTL, log)
	searchSvc := services.NewSearchService(search.NewRedisIndex(client, "test:"), teams, players, log)
	svc := Services{
		Auth: services.NewAuthService(users, otp, store, services.AuthOptions{
			SessionTTL:  cfg.SessionTTL,
			RequireOTP:  cfg.LoginRequireOTP,
			PhoneRegion: cfg.DefaultPhoneRegion,
		}, log),
		League: services.NewLeagueService(teams, players, matches, stats, standings, log),
		Search: searchSvc,
		Admin:  services.NewAdminService(teams, players, matches, stats, searchSvc, nil, log),
	}

	return &testServer{
		app:    NewApp(cfg, svc, "", log),
		db:     db,
		outbox: mail,
		svc:    svc,
	}
}

// client carries the session cookie between requests like a browser would.
type client struct {
	t      *testing.T
	srv    *testServer
	cookie string
}

func (s *testServer) client(t *testing.T) *client {
	return &client{t: t, srv: s}
}

func (c *client) do(method, path string, body interface{}, headers ...string) *http.Response {
	c.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	if c.cookie != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: c.cookie})
	}
	resp, err := c.srv.app.Test(req, -1)
	require.NoError(c.t, err)
	for _, ck := range resp.Cookies() {
		if ck.Name == middleware.SessionCookieName {
			c.cookie = ck.Value
		}
	}
	return resp
}

func (c *client) admin(method, path string, body interface{}) *http.Response {
	c.t.Helper()
	return c.do(method, path, body, "Authorization", "Bearer "+adminToken)
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

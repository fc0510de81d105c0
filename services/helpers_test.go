package services

import (
	"context"
	"io"
	"regexp"
	"sync"
	"testing"
	"time"

	"league-portal/models"
	"league-portal/repository"
	"league-portal/search"
	"league-portal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type sentMail struct {
	To, Subject, Body string
}

// recordingMailer keeps every message so tests can read the code back.
type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

var codePattern = regexp.MustCompile(`code is (\d+)\.`)

func (m *recordingMailer) lastCode(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "no mail sent")
	match := codePattern.FindStringSubmatch(m.sent[len(m.sent)-1].Body)
	require.Len(t, match, 2)
	return match[1]
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

type memStorage struct {
	keys []string
}

func (s *memStorage) Upload(_ context.Context, key, _ string, _ io.Reader) (string, error) {
	s.keys = append(s.keys, key)
	return "https://cdn.test/" + key, nil
}

type testEnv struct {
	db     *gorm.DB
	mr     *miniredis.Miniredis
	store  *session.RedisStore
	index  *search.RedisIndex
	mailer *recordingMailer
	log    *logrus.Logger

	users     *repository.GormUserRepository
	teams     *repository.GormTeamRepository
	players   *repository.GormPlayerRepository
	matches   *repository.GormMatchRepository
	stats     *repository.GormStatisticRepository
	standings *repository.GormStandingRepository

	otp     *OTPService
	auth    *AuthService
	search  *SearchService
	league  *LeagueService
	admin   *AdminService
	storage *memStorage
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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
	return db
}

func newTestEnv(t *testing.T, requireOTP bool) *testEnv {
	t.Helper()
	log, _ := test.NewNullLogger()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	db := newTestDB(t)
	env := &testEnv{
		db:        db,
		mr:        mr,
		store:     session.NewRedisStore(client, "test:"),
		index:     search.NewRedisIndex(client, "test:"),
		mailer:    &recordingMailer{},
		log:       log,
		users:     repository.NewGormUserRepository(db),
		teams:     repository.NewGormTeamRepository(db),
		players:   repository.NewGormPlayerRepository(db),
		matches:   repository.NewGormMatchRepository(db),
		stats:     repository.NewGormStatisticRepository(db),
		standings: repository.NewGormStandingRepository(db),
		storage:   &memStorage{},
	}
	env.otp = NewOTPService(env.store, env.mailer, 6, 2*time.Minute, log)
	env.auth = NewAuthService(env.users, env.otp, env.store, AuthOptions{
		SessionTTL:  time.Hour,
		RequireOTP:  requireOTP,
		PhoneRegion: "CN",
	}, log)
	env.search = NewSearchService(env.index, env.teams, env.players, log)
	env.league = NewLeagueService(env.teams, env.players, env.matches, env.stats, env.standings, log)
	env.admin = NewAdminService(env.teams, env.players, env.matches, env.stats, env.search, env.storage, log)
	return env
}

func (e *testEnv) seedTeam(t *testing.T, id int, name, chinaName string) {
	t.Helper()
	require.NoError(t, e.admin.CreateTeam(context.Background(), &models.Team{ID: id, Name: name, ChinaName: chinaName}))
}

func (e *testEnv) seedPlayer(t *testing.T, id, teamID int, name string) {
	t.Helper()
	require.NoError(t, e.admin.CreatePlayer(context.Background(), &models.Player{ID: id, TeamID: teamID, Name: name, Num: id}))
}

func (e *testEnv) seedMatch(t *testing.T, id, host, guest, hostGoal, guestGoal int, status models.MatchStatus, date time.Time) {
	t.Helper()
	require.NoError(t, e.admin.CreateMatch(context.Background(), &models.Match{
		ID: id, HostTeamID: host, GuestTeamID: guest,
		HostGoal: hostGoal, GuestGoal: guestGoal, Status: status, Date: date,
	}))
}

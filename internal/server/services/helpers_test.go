package services

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to, subject, body})
	return m.err
}

var resetLinkRe = regexp.MustCompile(`http://test/reset/([0-9a-f]+)`)

// lastToken extracts the reset token from the most recent mail.
func (m *fakeMailer) lastToken(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		t.Fatal("no mail sent")
	}
	match := resetLinkRe.FindStringSubmatch(m.sent[len(m.sent)-1].body)
	if match == nil {
		t.Fatalf("no reset link in body: %q", m.sent[len(m.sent)-1].body)
	}
	return match[1]
}

type userFixture struct {
	svc    *UserService
	tokens *auth.TokenManager
	mail   *fakeMailer
	clock  *fakeClock
	rm     repomanager.RepositoryManager
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	return newUserFixtureWith(t, repomanager.NewInMemoryRepositoryManager())
}

func newUserFixtureWith(t *testing.T, rm repomanager.RepositoryManager) *userFixture {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	cfg := &config.Config{
		ResetTokenValidityDuration: time.Hour,
		ResetURLBase:               "http://test/reset/",
	}
	tokens := auth.NewTokenManager("test-secret", time.Hour).WithClock(clock.Now)
	mail := &fakeMailer{}
	svc := NewUserService(rm, tokens, auth.NewBcryptHasher(bcrypt.MinCost), mail, cfg, logging.Nop{}).
		WithClock(clock.Now)
	return &userFixture{svc: svc, tokens: tokens, mail: mail, clock: clock, rm: rm}
}

var errDB = errors.New("db down")

// brokenManager returns repositories whose every call fails with errDB.
type brokenManager struct {
	repomanager.RepositoryManager
}

func (brokenManager) Users() users.Repository { return brokenUsers{} }
func (brokenManager) Tasks() tasks.Repository { return brokenTasks{} }

type brokenUsers struct{}

func (brokenUsers) Create(context.Context, *models.User) (*models.User, error) { return nil, errDB }
func (brokenUsers) GetUserByEmail(context.Context, string) (*models.User, error) {
	return nil, errDB
}
func (brokenUsers) SetResetToken(context.Context, string, string, time.Time) error {
	return errDB
}
func (brokenUsers) ConsumeResetToken(context.Context, string, string, time.Time) (*models.User, error) {
	return nil, errDB
}

type brokenTasks struct{}

func (brokenTasks) Create(context.Context, *models.Task) (*models.Task, error) { return nil, errDB }
func (brokenTasks) ListByUser(context.Context, string) ([]*models.Task, error) { return nil, errDB }
func (brokenTasks) ListAll(context.Context) ([]*models.Task, error)            { return nil, errDB }
func (brokenTasks) DeleteOwned(context.Context, string, string) error          { return errDB }

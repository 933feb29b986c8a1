package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/lostfound-service/internal/auth"
	"github.com/spec-kit/lostfound-service/internal/config"
	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/events"
	"github.com/spec-kit/lostfound-service/internal/repository"
	"github.com/spec-kit/lostfound-service/internal/repository/sqlite"
)

// tickingClock advances one second per reading so ordering is deterministic.
type tickingClock struct {
	mu  sync.Mutex
	cur time.Time
}

func newTickingClock() *tickingClock {
	return &tickingClock{cur: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	store      repository.Store
	dispatcher *recordingDispatcher
	clock      *tickingClock
	auth       *AuthService
	items      *ItemService
	claims     *ClaimService
	messages   *MessageService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithLogger(t, zap.NewNop())
}

func newTestEnvWithLogger(t *testing.T, logger *zap.Logger) *testEnv {
	t.Helper()
	store := sqlite.NewTestStore(t)
	dispatcher := &recordingDispatcher{}
	clock := newTickingClock()

	authSvc := NewAuthService(config.AuthConfig{JWTSecret: "test", AccessTokenTTLMinutes: 60, BcryptCost: 4}, store, auth.NewMemoryRevoker())
	authSvc.now = clock.Now
	items := NewItemService(store, dispatcher)
	items.now = clock.Now
	claims := NewClaimService(store, dispatcher, logger)
	claims.now = clock.Now
	messages := NewMessageService(store, dispatcher)
	messages.now = clock.Now

	return &testEnv{
		store:      store,
		dispatcher: dispatcher,
		clock:      clock,
		auth:       authSvc,
		items:      items,
		claims:     claims,
		messages:   messages,
	}
}

func (e *testEnv) register(t *testing.T, name string) *domain.User {
	t.Helper()
	user, err := e.auth.RegisterUser(context.Background(), name, name+"@example.com", "password123")
	require.NoError(t, err)
	return user
}

func (e *testEnv) admin(t *testing.T) *domain.User {
	t.Helper()
	user, created, err := e.auth.SeedAdmin(context.Background(), "admin@lostfound.com", "admin-password")
	require.NoError(t, err)
	require.True(t, created)
	return user
}

func (e *testEnv) report(t *testing.T, reporterID, title string) *domain.Item {
	t.Helper()
	item, err := e.items.CreateItem(context.Background(), reporterID, ItemCreateInput{
		Title:       title,
		Description: "Left near the front desk",
		Category:    string(domain.CategoryBags),
		Location:    "Library",
		Date:        "2024-04-30",
	})
	require.NoError(t, err)
	return item
}

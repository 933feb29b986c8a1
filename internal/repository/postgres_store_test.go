package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/lostfound-service/internal/config"
	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/persistence"
	"github.com/spec-kit/lostfound-service/internal/repository"
)

// postgresDSNEnv names a disposable database; its tables are truncated.
const postgresDSNEnv = "LOSTFOUND_TEST_POSTGRES_DSN"

var pgBase = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newPostgresStore(t *testing.T) repository.Store {
	t.Helper()
	dsn := os.Getenv(postgresDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", postgresDSNEnv)
	}
	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, config.PostgresConfig{DSN: dsn, MaxConns: 4}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pg.Close)

	require.NoError(t, persistence.RunMigrations(ctx, pg.PoolHandle(), "../../migrations", zap.NewNop()))
	_, err = pg.PoolHandle().Exec(ctx, `TRUNCATE messages, claims, items, users CASCADE`)
	require.NoError(t, err)

	return repository.NewPostgresStore(pg.PoolHandle())
}

func pgUser(t *testing.T, s repository.Store, id, email string) {
	t.Helper()
	require.NoError(t, s.Users().Create(context.Background(), &domain.User{
		ID: id, Name: "User " + id, Email: email, PasswordHash: "hash",
		CreatedAt: pgBase, UpdatedAt: pgBase,
	}))
}

func pgItem(t *testing.T, s repository.Store, id, reporterID, title string, category domain.ItemCategory, at time.Time) *domain.Item {
	t.Helper()
	item := &domain.Item{
		ID: id, Title: title, Description: "desc", Category: category, Location: "Library",
		Date: pgBase, Status: domain.ItemStatusPending, Images: []string{"https://cdn.example.com/" + id + ".jpg"},
		ReporterID: reporterID, CreatedAt: at, UpdatedAt: at,
	}
	require.NoError(t, s.Items().Create(context.Background(), item))
	return item
}

func ids(items []domain.Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestPostgresUsers(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()
	pgUser(t, s, "u1", "alice@example.com")

	got, err := s.Users().GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	err = s.Users().Create(ctx, &domain.User{ID: "u2", Name: "Dup", Email: "Alice@Example.com", PasswordHash: "x", CreatedAt: pgBase, UpdatedAt: pgBase})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = s.Users().GetByID(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPostgresItemsUpdateAndDelete(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()
	pgUser(t, s, "u1", "alice@example.com")
	pgItem(t, s, "i1", "u1", "Blue Backpack", domain.CategoryBags, pgBase)

	got, err := s.Items().GetByID(ctx, "i1")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.example.com/i1.jpg"}, got.Images)
	require.NotNil(t, got.Reporter)
	assert.Equal(t, "alice@example.com", got.Reporter.Email)

	prev := got.UpdatedAt
	got.Title = "Red Backpack"
	got.Images = nil
	got.UpdatedAt = pgBase.Add(time.Hour)
	require.NoError(t, s.Items().Update(ctx, got, prev))

	stale := *got
	stale.Title = "Green Backpack"
	assert.ErrorIs(t, s.Items().Update(ctx, &stale, prev), repository.ErrNotFound)

	updated, err := s.Items().GetByID(ctx, "i1")
	require.NoError(t, err)
	assert.Equal(t, "Red Backpack", updated.Title)
	assert.Empty(t, updated.Images)
	assert.True(t, updated.UpdatedAt.Equal(pgBase.Add(time.Hour)))

	require.NoError(t, s.Items().SoftDelete(ctx, "i1", pgBase.Add(2*time.Hour)))
	_, err = s.Items().GetByID(ctx, "i1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, s.Items().Update(ctx, updated, updated.UpdatedAt), repository.ErrNotFound)
}

func TestPostgresItemsList(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()
	pgUser(t, s, "u1", "alice@example.com")
	pgUser(t, s, "u2", "bob@example.com")
	pgItem(t, s, "i1", "u1", "Blue Backpack", domain.CategoryBags, pgBase)
	pgItem(t, s, "i2", "u1", "Car keys", domain.CategoryKeys, pgBase.Add(time.Minute))
	pgItem(t, s, "i3", "u2", "100% wool scarf", domain.CategoryClothing, pgBase.Add(2*time.Minute))
	pgItem(t, s, "i4", "u2", "1000 yen note", domain.CategoryOthers, pgBase.Add(3*time.Minute))

	all, err := s.Items().List(ctx, repository.ItemFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"i4", "i3", "i2", "i1"}, ids(all))

	search := "BACKPACK"
	got, err := s.Items().List(ctx, repository.ItemFilter{Search: &search})
	require.NoError(t, err)
	assert.Equal(t, []string{"i1"}, ids(got))

	percent := "100%"
	got, err = s.Items().List(ctx, repository.ItemFilter{Search: &percent})
	require.NoError(t, err)
	assert.Equal(t, []string{"i3"}, ids(got))

	category := domain.CategoryKeys
	owner := "u2"
	got, err = s.Items().List(ctx, repository.ItemFilter{Category: &category})
	require.NoError(t, err)
	assert.Equal(t, []string{"i2"}, ids(got))

	status := domain.ItemStatusPending
	got, err = s.Items().List(ctx, repository.ItemFilter{ParticipantID: &owner, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, []string{"i4", "i3"}, ids(got))

	got, err = s.Items().List(ctx, repository.ItemFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"i3", "i2"}, ids(got))
}

func TestPostgresItemTransitionStatus(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()
	pgUser(t, s, "u1", "alice@example.com")
	pgItem(t, s, "i1", "u1", "Wallet", domain.CategoryAccessories, pgBase)

	from := []domain.ItemStatus{domain.ItemStatusPending, domain.ItemStatusFound}
	require.NoError(t, s.Items().TransitionStatus(ctx, "i1", from, domain.ItemStatusClaimed, pgBase.Add(time.Hour)))
	assert.ErrorIs(t, s.Items().TransitionStatus(ctx, "i1", from, domain.ItemStatusClaimed, pgBase.Add(2*time.Hour)), repository.ErrNotFound)

	got, err := s.Items().GetByID(ctx, "i1")
	require.NoError(t, err)
	assert.Equal(t, domain.ItemStatusClaimed, got.Status)
}

func TestPostgresClaimsAndMessages(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()
	pgUser(t, s, "u1", "alice@example.com")
	pgUser(t, s, "u2", "bob@example.com")
	pgItem(t, s, "i1", "u1", "Wallet", domain.CategoryAccessories, pgBase)

	claim := &domain.Claim{
		ID: "c1", ItemID: "i1", ClaimerID: "u2", Description: "mine", Evidence: []string{"receipt"},
		Status: domain.ClaimStatusPending, CreatedAt: pgBase, UpdatedAt: pgBase,
	}
	require.NoError(t, s.Claims().Create(ctx, claim))
	dup := *claim
	dup.ID = "c2"
	assert.ErrorIs(t, s.Claims().Create(ctx, &dup), repository.ErrDuplicate)

	active, err := s.Claims().FindActive(ctx, "i1", "u2")
	require.NoError(t, err)
	assert.Equal(t, []string{"receipt"}, active.Evidence)

	pending, err := s.Claims().ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Wallet", pending[0].Item.Title)
	assert.Equal(t, "bob@example.com", pending[0].Claimer.Email)

	require.NoError(t, s.Claims().TransitionStatus(ctx, "c1", domain.ClaimStatusPending, domain.ClaimStatusApproved, pgBase.Add(time.Hour)))
	assert.ErrorIs(t, s.Claims().TransitionStatus(ctx, "c1", domain.ClaimStatusPending, domain.ClaimStatusRejected, pgBase.Add(time.Hour)), repository.ErrNotFound)

	for i, m := range []domain.Message{
		{ID: "m1", Content: "is it yours?", SenderID: "u1", RecipientID: "u2", ItemID: "i1", CreatedAt: pgBase},
		{ID: "m2", Content: "yes", SenderID: "u2", RecipientID: "u1", ItemID: "i1", CreatedAt: pgBase.Add(time.Minute)},
	} {
		require.NoError(t, s.Messages().Create(ctx, &m), "message %d", i)
	}
	item := "i1"
	msgs, err := s.Messages().ListForUser(ctx, "u1", &item)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "m2", msgs[0].ID)
}

func TestPostgresWithinTxRollsBack(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()
	pgUser(t, s, "u1", "alice@example.com")
	pgItem(t, s, "i1", "u1", "Wallet", domain.CategoryAccessories, pgBase)

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(tx repository.Store) error {
		from := []domain.ItemStatus{domain.ItemStatusPending}
		require.NoError(t, tx.Items().TransitionStatus(ctx, "i1", from, domain.ItemStatusClaimed, pgBase.Add(time.Hour)))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Items().GetByID(ctx, "i1")
	require.NoError(t, err)
	assert.Equal(t, domain.ItemStatusPending, got.Status)
}

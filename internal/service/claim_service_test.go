package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/events"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

func TestSubmitClaim(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	item := env.report(t, alice.ID, "Wallet")

	claim, err := env.claims.SubmitClaim(ctx, item.ID, bob.ID, ClaimInput{
		Description: "Brown leather, my student card inside",
		Evidence:    []string{"https://cdn.example.com/receipt.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimStatusPending, claim.Status)
	assert.Equal(t, item.ID, claim.ItemID)
	assert.Equal(t, bob.ID, claim.ClaimerID)

	mine, err := env.claims.GetMyClaim(ctx, item.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, claim.ID, mine.ID)
	assert.Equal(t, []string{"https://cdn.example.com/receipt.jpg"}, mine.Evidence)

	_, err = env.claims.SubmitClaim(ctx, item.ID, bob.ID, ClaimInput{Description: "again"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	_, err = env.claims.GetMyClaim(ctx, item.ID, alice.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	assert.Contains(t, env.dispatcher.types(), events.EventClaimSubmitted)
}

func TestSubmitClaimValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	item := env.report(t, alice.ID, "Wallet")

	_, err := env.claims.SubmitClaim(ctx, item.ID, bob.ID, ClaimInput{Description: "  "})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = env.claims.SubmitClaim(ctx, "missing", bob.ID, ClaimInput{Description: "mine"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	require.NoError(t, env.items.DeleteItem(ctx, item.ID, alice.ID))
	_, err = env.claims.SubmitClaim(ctx, item.ID, bob.ID, ClaimInput{Description: "mine"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestSelfClaimIsAllowedAndLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	env := newTestEnvWithLogger(t, zap.New(core))
	alice := env.register(t, "alice")
	item := env.report(t, alice.ID, "Wallet")

	_, err := env.claims.SubmitClaim(context.Background(), item.ID, alice.ID, ClaimInput{Description: "it's mine"})
	require.NoError(t, err)

	entries := logs.FilterField(zap.String("item_id", item.ID)).All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestApproveClaim(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.admin(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	item := env.report(t, alice.ID, "Wallet")
	claim, err := env.claims.SubmitClaim(ctx, item.ID, bob.ID, ClaimInput{Description: "mine"})
	require.NoError(t, err)

	_, err = env.claims.ApproveClaim(ctx, claim.ID, bob.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	approved, err := env.claims.ApproveClaim(ctx, claim.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimStatusApproved, approved.Status)

	got, err := env.items.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemStatusClaimed, got.Status)

	_, err = env.claims.ApproveClaim(ctx, claim.ID, admin.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	_, err = env.claims.ApproveClaim(ctx, "missing", admin.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	assert.Contains(t, env.dispatcher.types(), events.EventClaimApproved)
}

func TestApproveClaimRollsBackWhenItemNotClaimable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.admin(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	carol := env.register(t, "carol")
	item := env.report(t, alice.ID, "Wallet")

	first, err := env.claims.SubmitClaim(ctx, item.ID, bob.ID, ClaimInput{Description: "mine"})
	require.NoError(t, err)
	second, err := env.claims.SubmitClaim(ctx, item.ID, carol.ID, ClaimInput{Description: "no, mine"})
	require.NoError(t, err)

	_, err = env.claims.ApproveClaim(ctx, first.ID, admin.ID)
	require.NoError(t, err)

	_, err = env.claims.ApproveClaim(ctx, second.ID, admin.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	still, err := env.claims.GetMyClaim(ctx, item.ID, carol.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimStatusPending, still.Status, "claim update must roll back with the item update")
}

func TestApproveClaimOnDeletedItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.admin(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	item := env.report(t, alice.ID, "Wallet")
	claim, err := env.claims.SubmitClaim(ctx, item.ID, bob.ID, ClaimInput{Description: "mine"})
	require.NoError(t, err)

	require.NoError(t, env.items.DeleteItem(ctx, item.ID, alice.ID))

	_, err = env.claims.ApproveClaim(ctx, claim.ID, admin.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	got, err := env.store.Claims().GetByID(ctx, claim.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimStatusPending, got.Status)
}

func TestConcurrentApprovalsSucceedOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.admin(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	item := env.report(t, alice.ID, "Wallet")
	claim, err := env.claims.SubmitClaim(ctx, item.ID, bob.ID, ClaimInput{Description: "mine"})
	require.NoError(t, err)

	const attempts = 5
	results := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = env.claims.ApproveClaim(ctx, claim.ID, admin.ID)
		}(i)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case apperrors.HasCode(err, apperrors.CodeConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
}

func TestRejectClaim(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.admin(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	item := env.report(t, alice.ID, "Wallet")
	claim, err := env.claims.SubmitClaim(ctx, item.ID, bob.ID, ClaimInput{Description: "mine"})
	require.NoError(t, err)

	_, err = env.claims.RejectClaim(ctx, claim.ID, alice.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	rejected, err := env.claims.RejectClaim(ctx, claim.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimStatusRejected, rejected.Status)

	got, err := env.items.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemStatusPending, got.Status)

	_, err = env.claims.RejectClaim(ctx, claim.ID, admin.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	_, err = env.claims.ApproveClaim(ctx, claim.ID, admin.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
}

func TestListPendingClaims(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.admin(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	wallet := env.report(t, alice.ID, "Wallet")
	phone := env.report(t, alice.ID, "Phone")

	older, err := env.claims.SubmitClaim(ctx, wallet.ID, bob.ID, ClaimInput{Description: "wallet is mine"})
	require.NoError(t, err)
	newer, err := env.claims.SubmitClaim(ctx, phone.ID, bob.ID, ClaimInput{Description: "phone is mine"})
	require.NoError(t, err)

	_, err = env.claims.ListPendingClaims(ctx, bob.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	pending, err := env.claims.ListPendingClaims(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, newer.ID, pending[0].Claim.ID)
	assert.Equal(t, older.ID, pending[1].Claim.ID)
	assert.Equal(t, "Phone", pending[0].Item.Title)
	assert.Equal(t, "bob@example.com", pending[0].Claimer.Email)

	_, err = env.claims.RejectClaim(ctx, older.ID, admin.ID)
	require.NoError(t, err)
	pending, err = env.claims.ListPendingClaims(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, newer.ID, pending[0].Claim.ID)
}

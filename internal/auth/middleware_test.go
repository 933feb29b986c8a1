package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/repository"
	"github.com/spec-kit/lostfound-service/internal/repository/sqlite"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

type fixture struct {
	app     *fiber.App
	tokens  *TokenManager
	revoker *MemoryRevoker
	store   repository.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := sqlite.NewTestStore(t)
	now := time.Now().UTC()
	for _, u := range []domain.User{
		{ID: "member", Name: "Member", Email: "member@example.com", PasswordHash: "x", CreatedAt: now, UpdatedAt: now},
		{ID: "admin", Name: "Admin", Email: "admin@example.com", PasswordHash: "x", IsAdmin: true, CreatedAt: now, UpdatedAt: now},
	} {
		u := u
		require.NoError(t, store.Users().Create(context.Background(), &u))
	}

	tokens := NewTokenManager("secret", 60)
	revoker := NewMemoryRevoker()
	mw := NewAuthMiddleware(tokens, revoker, store.Users())

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{"code": domainErr.Code}})
		},
	})
	app.Get("/me", mw.Handle, RequireSession(), func(c *fiber.Ctx) error {
		session, _ := SessionFromContext(c)
		return c.JSON(fiber.Map{"user_id": session.UserID, "is_admin": session.IsAdmin})
	})
	app.Get("/admin", mw.Handle, RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})

	return &fixture{app: app, tokens: tokens, revoker: revoker, store: store}
}

func (f *fixture) do(t *testing.T, path, authorization string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func (f *fixture) bearer(t *testing.T, userID string, isAdmin bool) (string, *IssuedToken) {
	t.Helper()
	issued, err := f.tokens.GenerateToken(userID, isAdmin)
	require.NoError(t, err)
	return "Bearer " + issued.Token, issued
}

func TestAuthMiddlewareRejectsMissingAndMalformed(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperrors.CodeUnauthorized, body["error"].(map[string]any)["code"])

	status, _ = f.do(t, "/me", "Token abc")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = f.do(t, "/me", "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuthMiddlewareAttachesSession(t *testing.T) {
	f := newFixture(t)
	header, _ := f.bearer(t, "member", false)

	status, body := f.do(t, "/me", header)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "member", body["user_id"])
	assert.Equal(t, false, body["is_admin"])
}

func TestAuthMiddlewareReadsAdminFromStore(t *testing.T) {
	f := newFixture(t)

	forged, _ := f.bearer(t, "member", true)
	status, _ := f.do(t, "/admin", forged)
	assert.Equal(t, http.StatusForbidden, status)

	admin, _ := f.bearer(t, "admin", false)
	status, _ = f.do(t, "/admin", admin)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestAuthMiddlewareRejectsRevokedToken(t *testing.T) {
	f := newFixture(t)
	header, issued := f.bearer(t, "member", false)

	require.NoError(t, f.revoker.Revoke(context.Background(), issued.TokenID, issued.ExpiresAt))

	status, _ := f.do(t, "/me", header)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuthMiddlewareRejectsUnknownUser(t *testing.T) {
	f := newFixture(t)
	header, _ := f.bearer(t, "ghost", false)

	status, _ := f.do(t, "/me", header)
	assert.Equal(t, http.StatusUnauthorized, status)
}

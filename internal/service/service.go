package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/spec-kit/lostfound-service/internal/events"
	"github.com/spec-kit/lostfound-service/internal/repository"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

// Clock returns the current time. Services stamp every write with it.
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

// storeError translates repository sentinels into domain errors. Errors that
// are already domain errors pass through untouched.
func storeError(err error, resource string) error {
	var domainErr *apperrors.DomainError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &domainErr):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound(resource, nil)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperrors.NewDomainError(apperrors.CodeInternal, "request timed out", http.StatusServiceUnavailable, nil)
	default:
		return apperrors.NewInternalError(err)
	}
}

func publish(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	_ = dispatcher.Publish(ctx, event)
}

// requireAdmin re-reads the acting user so a demoted or deleted admin loses
// access immediately.
func requireAdmin(ctx context.Context, store repository.Store, userID string) error {
	user, err := store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewForbidden("admin access required")
		}
		return storeError(err, "user")
	}
	if !user.IsAdmin {
		return apperrors.NewForbidden("admin access required")
	}
	return nil
}

type field struct {
	name  string
	value string
}

// requireFields returns a ValidationError naming every blank field, or nil.
func requireFields(fields ...field) error {
	missing := []string{}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return apperrors.NewValidationError("missing required fields", map[string]any{"fields": missing})
}

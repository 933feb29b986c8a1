package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

var (
	// ErrNotFound is returned when no live row matches, including conditional
	// updates whose precondition no longer holds.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// ItemFilter captures listing parameters. Nil fields are not filtered on.
type ItemFilter struct {
	ParticipantID *string
	Search        *string
	Category      *domain.ItemCategory
	Status        *domain.ItemStatus
	Limit         int
	Offset        int
}

// UserRepository defines persistence access for accounts. Reads never return
// soft-deleted users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// ItemRepository encapsulates item persistence. Reads never return soft-deleted items.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	// Update writes item only if its updated_at still equals prevUpdatedAt.
	// A stale or deleted row yields ErrNotFound.
	Update(ctx context.Context, item *domain.Item, prevUpdatedAt time.Time) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, filter ItemFilter) ([]domain.Item, error)
	TransitionStatus(ctx context.Context, id string, from []domain.ItemStatus, to domain.ItemStatus, at time.Time) error
}

// ClaimRepository encapsulates claim persistence. Reads never return soft-deleted claims.
type ClaimRepository interface {
	Create(ctx context.Context, claim *domain.Claim) error
	GetByID(ctx context.Context, id string) (*domain.Claim, error)
	FindActive(ctx context.Context, itemID, claimerID string) (*domain.Claim, error)
	ListPending(ctx context.Context) ([]domain.ClaimDetail, error)
	TransitionStatus(ctx context.Context, id string, from, to domain.ClaimStatus, at time.Time) error
}

// MessageRepository stores item-scoped messages between users.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	ListForUser(ctx context.Context, userID string, itemID *string) ([]domain.Message, error)
}

// Store is the unit of work handed to services. Repositories obtained from the
// Store passed to WithinTx's callback share one transaction.
type Store interface {
	Users() UserRepository
	Items() ItemRepository
	Claims() ClaimRepository
	Messages() MessageRepository
	WithinTx(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}

// SearchPattern lowercases term, escapes LIKE wildcards with a backslash and
// wraps it for substring matching. Use with `LIKE ... ESCAPE '\'`.
func SearchPattern(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.ToLower(strings.TrimSpace(term))) + "%"
}

// NormalizePage clamps limit/offset to the defaults used by every backend.
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/events"
	"github.com/spec-kit/lostfound-service/internal/repository"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

var claimableStatuses = []domain.ItemStatus{domain.ItemStatusPending, domain.ItemStatusFound}

// ClaimService runs the claim submission and adjudication workflow.
type ClaimService struct {
	store      repository.Store
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        Clock
}

// ClaimInput describes a claim submission.
type ClaimInput struct {
	Description string
	Evidence    []string
}

// NewClaimService constructs the service.
func NewClaimService(store repository.Store, dispatcher events.Dispatcher, logger *zap.Logger) *ClaimService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClaimService{store: store, dispatcher: dispatcher, logger: logger, now: utcNow}
}

// SubmitClaim files a PENDING claim for a live item. A user holds at most one
// live claim per item.
func (s *ClaimService) SubmitClaim(ctx context.Context, itemID, claimerID string, input ClaimInput) (*domain.Claim, error) {
	if err := requireFields(field{"description", input.Description}); err != nil {
		return nil, err
	}

	item, err := s.store.Items().GetByID(ctx, itemID)
	if err != nil {
		return nil, storeError(err, "item")
	}

	if _, err := s.store.Claims().FindActive(ctx, itemID, claimerID); err == nil {
		return nil, apperrors.NewConflict("you have already claimed this item", nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeError(err, "claim")
	}

	selfClaim := item.ReporterID == claimerID
	if selfClaim {
		s.logger.Warn("reporter submitted a claim on their own item",
			zap.String("item_id", itemID),
			zap.String("user_id", claimerID))
	}

	now := s.now()
	claim := &domain.Claim{
		ID:          uuid.NewString(),
		ItemID:      itemID,
		ClaimerID:   claimerID,
		Description: strings.TrimSpace(input.Description),
		Evidence:    cleanList(input.Evidence),
		Status:      domain.ClaimStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Claims().Create(ctx, claim); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("you have already claimed this item", nil)
		}
		return nil, storeError(err, "claim")
	}

	publish(ctx, s.dispatcher, events.New(events.EventClaimSubmitted, itemID, claimerID, now, events.ClaimPayload{
		ClaimID:    claim.ID,
		ClaimerID:  claimerID,
		ReporterID: item.ReporterID,
		Status:     claim.Status,
		SelfClaim:  selfClaim,
	}))
	return claim, nil
}

// GetMyClaim returns the caller's live claim on an item.
func (s *ClaimService) GetMyClaim(ctx context.Context, itemID, claimerID string) (*domain.Claim, error) {
	claim, err := s.store.Claims().FindActive(ctx, itemID, claimerID)
	if err != nil {
		return nil, storeError(err, "claim")
	}
	return claim, nil
}

// ListPendingClaims returns every PENDING claim on a live item for admin review.
func (s *ClaimService) ListPendingClaims(ctx context.Context, actingUserID string) ([]domain.ClaimDetail, error) {
	if err := requireAdmin(ctx, s.store, actingUserID); err != nil {
		return nil, err
	}
	claims, err := s.store.Claims().ListPending(ctx)
	if err != nil {
		return nil, storeError(err, "claim")
	}
	return claims, nil
}

// ApproveClaim marks the claim APPROVED and its item CLAIMED in one
// transaction. Both updates are conditional, so a claim that was already
// processed or an item that left PENDING/FOUND aborts the whole approval.
func (s *ClaimService) ApproveClaim(ctx context.Context, claimID, actingUserID string) (*domain.Claim, error) {
	if err := requireAdmin(ctx, s.store, actingUserID); err != nil {
		return nil, err
	}
	claim, err := s.store.Claims().GetByID(ctx, claimID)
	if err != nil {
		return nil, storeError(err, "claim")
	}

	now := s.now()
	var approved *domain.Claim
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Claims().TransitionStatus(ctx, claimID, domain.ClaimStatusPending, domain.ClaimStatusApproved, now); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.NewConflict("claim already processed", map[string]any{"status": claim.Status})
			}
			return err
		}
		if err := tx.Items().TransitionStatus(ctx, claim.ItemID, claimableStatuses, domain.ItemStatusClaimed, now); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.NewConflict("item is no longer claimable", nil)
			}
			return err
		}
		var err error
		approved, err = tx.Claims().GetByID(ctx, claimID)
		return err
	})
	if err != nil {
		return nil, storeError(err, "claim")
	}

	s.logger.Info("claim approved",
		zap.String("claim_id", claimID),
		zap.String("item_id", claim.ItemID),
		zap.String("admin_id", actingUserID))
	publish(ctx, s.dispatcher, events.New(events.EventClaimApproved, claim.ItemID, actingUserID, now, events.ClaimPayload{
		ClaimID:   claimID,
		ClaimerID: claim.ClaimerID,
		Status:    domain.ClaimStatusApproved,
	}))
	return approved, nil
}

// RejectClaim marks a PENDING claim REJECTED. The item is left untouched.
func (s *ClaimService) RejectClaim(ctx context.Context, claimID, actingUserID string) (*domain.Claim, error) {
	if err := requireAdmin(ctx, s.store, actingUserID); err != nil {
		return nil, err
	}
	claim, err := s.store.Claims().GetByID(ctx, claimID)
	if err != nil {
		return nil, storeError(err, "claim")
	}

	now := s.now()
	if err := s.store.Claims().TransitionStatus(ctx, claimID, domain.ClaimStatusPending, domain.ClaimStatusRejected, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewConflict("claim already processed", map[string]any{"status": claim.Status})
		}
		return nil, storeError(err, "claim")
	}

	rejected, err := s.store.Claims().GetByID(ctx, claimID)
	if err != nil {
		return nil, storeError(err, "claim")
	}
	publish(ctx, s.dispatcher, events.New(events.EventClaimRejected, claim.ItemID, actingUserID, now, events.ClaimPayload{
		ClaimID:   claimID,
		ClaimerID: claim.ClaimerID,
		Status:    domain.ClaimStatusRejected,
	}))
	return rejected, nil
}

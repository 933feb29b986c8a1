package dto

import (
	"time"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

// CreateClaimRequest payload.
type CreateClaimRequest struct {
	Description string   `json:"description"`
	Evidence    []string `json:"evidence"`
}

// ClaimResponse is the view of a claim returned to claimers and admins.
type ClaimResponse struct {
	ID          string             `json:"id"`
	ItemID      string             `json:"item_id"`
	ClaimerID   string             `json:"claimer_id"`
	Description string             `json:"description"`
	Evidence    []string           `json:"evidence"`
	Status      domain.ClaimStatus `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ClaimDetailResponse is a pending claim with its item and claimer.
type ClaimDetailResponse struct {
	ClaimResponse
	Item    ItemResponse `json:"item"`
	Claimer UserSummary  `json:"claimer"`
}

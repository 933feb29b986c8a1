package domain

import "time"

// ClaimStatus enumerates adjudication states for a claim.
type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "PENDING"
	ClaimStatusApproved ClaimStatus = "APPROVED"
	ClaimStatusRejected ClaimStatus = "REJECTED"
)

// Claim is an ownership assertion against an item.
type Claim struct {
	ID          string
	ItemID      string
	ClaimerID   string
	Description string
	Evidence    []string
	Status      ClaimStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// ClaimDetail is a claim joined with its item and claimer for admin review.
type ClaimDetail struct {
	Claim   Claim
	Item    Item
	Claimer UserSummary
}

package dto

import (
	"time"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

// CreateItemRequest payload. Date accepts YYYY-MM-DD or RFC3339.
type CreateItemRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Location    string   `json:"location"`
	Date        string   `json:"date"`
	Images      []string `json:"images"`
}

// UpdateItemRequest payload. Omitted fields are left unchanged.
type UpdateItemRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Location    *string   `json:"location"`
	Date        *string   `json:"date"`
	Images      *[]string `json:"images"`
}

// ItemResponse is the public view of an item.
type ItemResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Category    domain.ItemCategory `json:"category"`
	Location    string              `json:"location"`
	Date        time.Time           `json:"date"`
	Status      domain.ItemStatus   `json:"status"`
	Images      []string            `json:"images"`
	ReporterID  string              `json:"reporter_id"`
	FinderID    *string             `json:"finder_id"`
	Reporter    *UserSummary        `json:"reporter,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ItemListResponse wraps one page of the public listing.
type ItemListResponse struct {
	Items    []ItemResponse `json:"items"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

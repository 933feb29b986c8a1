package domain

import "time"

// ItemCategory enumerates the kinds of reported belongings.
type ItemCategory string

const (
	CategoryElectronics ItemCategory = "ELECTRONICS"
	CategoryClothing    ItemCategory = "CLOTHING"
	CategoryAccessories ItemCategory = "ACCESSORIES"
	CategoryDocuments   ItemCategory = "DOCUMENTS"
	CategoryKeys        ItemCategory = "KEYS"
	CategoryBags        ItemCategory = "BAGS"
	CategoryOthers      ItemCategory = "OTHERS"
)

// ItemCategories lists every accepted category.
var ItemCategories = []ItemCategory{
	CategoryElectronics,
	CategoryClothing,
	CategoryAccessories,
	CategoryDocuments,
	CategoryKeys,
	CategoryBags,
	CategoryOthers,
}

// Valid reports whether c is one of the enumerated categories.
func (c ItemCategory) Valid() bool {
	for _, candidate := range ItemCategories {
		if c == candidate {
			return true
		}
	}
	return false
}

// ItemStatus enumerates lifecycle states for an item report.
type ItemStatus string

const (
	ItemStatusPending  ItemStatus = "PENDING"
	ItemStatusFound    ItemStatus = "FOUND"
	ItemStatusClaimed  ItemStatus = "CLAIMED"
	ItemStatusReturned ItemStatus = "RETURNED"
	ItemStatusClosed   ItemStatus = "CLOSED"
)

// ItemStatuses lists every accepted item status.
var ItemStatuses = []ItemStatus{
	ItemStatusPending,
	ItemStatusFound,
	ItemStatusClaimed,
	ItemStatusReturned,
	ItemStatusClosed,
}

// Valid reports whether s is one of the enumerated statuses.
func (s ItemStatus) Valid() bool {
	for _, candidate := range ItemStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// Claimable reports whether an approved claim may move the item to CLAIMED.
func (s ItemStatus) Claimable() bool {
	return s == ItemStatusPending || s == ItemStatusFound
}

// Item is a lost or found report owned by its reporter.
type Item struct {
	ID          string
	Title       string
	Description string
	Category    ItemCategory
	Location    string
	Date        time.Time
	Status      ItemStatus
	Images      []string
	ReporterID  string
	FinderID    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time

	// Reporter is populated by read paths that join the reporting user.
	Reporter *UserSummary
}

// IsDeleted reports whether the item has been soft-deleted.
func (i *Item) IsDeleted() bool {
	return i.DeletedAt != nil
}

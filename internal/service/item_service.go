package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/events"
	"github.com/spec-kit/lostfound-service/internal/repository"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

// MaxPage bounds the public listing page number so offsets cannot overflow.
const MaxPage = 100000

// ItemService coordinates item reports.
type ItemService struct {
	store      repository.Store
	dispatcher events.Dispatcher
	now        Clock
}

// ItemCreateInput describes a new report. Date accepts YYYY-MM-DD or RFC3339.
type ItemCreateInput struct {
	Title       string
	Description string
	Category    string
	Location    string
	Date        string
	Images      []string
}

// ItemPatch lists the fields an owner may change. Nil fields are left as is.
type ItemPatch struct {
	Title       *string
	Description *string
	Category    *string
	Location    *string
	Date        *string
	Images      *[]string
}

// PublicItemFilter describes the public listing query.
type PublicItemFilter struct {
	Search   string
	Category string
	Status   string
	Page     int
	PageSize int
}

// ItemPage is one page of the public listing.
type ItemPage struct {
	Items    []domain.Item
	Page     int
	PageSize int
}

// NewItemService constructs the service.
func NewItemService(store repository.Store, dispatcher events.Dispatcher) *ItemService {
	return &ItemService{store: store, dispatcher: dispatcher, now: utcNow}
}

// CreateItem validates and persists a new report with status PENDING.
func (s *ItemService) CreateItem(ctx context.Context, reporterID string, input ItemCreateInput) (*domain.Item, error) {
	if err := requireFields(
		field{"title", input.Title},
		field{"description", input.Description},
		field{"category", input.Category},
		field{"location", input.Location},
		field{"date", input.Date},
	); err != nil {
		return nil, err
	}

	category, err := parseCategory(input.Category)
	if err != nil {
		return nil, err
	}
	date, err := ParseDate(input.Date)
	if err != nil {
		return nil, err
	}

	now := s.now()
	item := &domain.Item{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    category,
		Location:    strings.TrimSpace(input.Location),
		Date:        date,
		Status:      domain.ItemStatusPending,
		Images:      cleanList(input.Images),
		ReporterID:  reporterID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Items().Create(ctx, item); err != nil {
		return nil, storeError(err, "item")
	}

	publish(ctx, s.dispatcher, events.New(events.EventItemReported, item.ID, reporterID, now, events.ItemReportedPayload{
		Title:    item.Title,
		Category: item.Category,
		Location: item.Location,
	}))

	created, err := s.store.Items().GetByID(ctx, item.ID)
	if err != nil {
		return nil, storeError(err, "item")
	}
	return created, nil
}

// ListItemsForUser returns the items the user reported or found, newest first.
func (s *ItemService) ListItemsForUser(ctx context.Context, userID string) ([]domain.Item, error) {
	items, err := s.store.Items().List(ctx, repository.ItemFilter{ParticipantID: &userID})
	if err != nil {
		return nil, storeError(err, "item")
	}
	return items, nil
}

// ListPublicItems searches every live item by title, category and status.
func (s *ItemService) ListPublicItems(ctx context.Context, filter PublicItemFilter) (*ItemPage, error) {
	repoFilter := repository.ItemFilter{}

	if search := strings.TrimSpace(filter.Search); search != "" {
		repoFilter.Search = &search
	}
	if strings.TrimSpace(filter.Category) != "" {
		category, err := parseCategory(filter.Category)
		if err != nil {
			return nil, err
		}
		repoFilter.Category = &category
	}
	if strings.TrimSpace(filter.Status) != "" {
		status := domain.ItemStatus(strings.TrimSpace(filter.Status))
		if !status.Valid() {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": filter.Status})
		}
		repoFilter.Status = &status
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		return nil, apperrors.NewValidationError("page out of range", map[string]any{"page": filter.Page, "max": MaxPage})
	}
	pageSize, _ := repository.NormalizePage(filter.PageSize, 0)
	repoFilter.Limit = pageSize
	repoFilter.Offset = (page - 1) * pageSize

	items, err := s.store.Items().List(ctx, repoFilter)
	if err != nil {
		return nil, storeError(err, "item")
	}
	return &ItemPage{Items: items, Page: page, PageSize: pageSize}, nil
}

// GetItem returns a live item with its reporter.
func (s *ItemService) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	item, err := s.store.Items().GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "item")
	}
	return item, nil
}

// UpdateItem applies patch on behalf of the reporter. Status is never changed here.
func (s *ItemService) UpdateItem(ctx context.Context, id, requesterID string, patch ItemPatch) (*domain.Item, error) {
	item, err := s.ownedItem(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if item.Title, err = nonBlank("title", *patch.Title); err != nil {
			return nil, err
		}
	}
	if patch.Description != nil {
		if item.Description, err = nonBlank("description", *patch.Description); err != nil {
			return nil, err
		}
	}
	if patch.Location != nil {
		if item.Location, err = nonBlank("location", *patch.Location); err != nil {
			return nil, err
		}
	}
	if patch.Category != nil {
		if item.Category, err = parseCategory(*patch.Category); err != nil {
			return nil, err
		}
	}
	if patch.Date != nil {
		if item.Date, err = ParseDate(*patch.Date); err != nil {
			return nil, err
		}
	}
	if patch.Images != nil {
		item.Images = cleanList(*patch.Images)
	}
	prevUpdatedAt := item.UpdatedAt
	item.UpdatedAt = s.now()

	if err := s.store.Items().Update(ctx, item, prevUpdatedAt); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, storeError(err, "item")
		}
		// Either deleted or changed since it was read.
		if _, getErr := s.GetItem(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, apperrors.NewConflict("item was modified concurrently; reload and retry", nil)
	}
	return s.GetItem(ctx, id)
}

// DeleteItem soft-deletes the reporter's item.
func (s *ItemService) DeleteItem(ctx context.Context, id, requesterID string) error {
	if _, err := s.ownedItem(ctx, id, requesterID); err != nil {
		return err
	}
	if err := s.store.Items().SoftDelete(ctx, id, s.now()); err != nil {
		return storeError(err, "item")
	}
	return nil
}

func (s *ItemService) ownedItem(ctx context.Context, id, requesterID string) (*domain.Item, error) {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.ReporterID != requesterID {
		return nil, apperrors.NewForbidden("only the reporter may modify this item")
	}
	return item, nil
}

// ParseDate accepts a calendar date (YYYY-MM-DD) or an RFC3339 timestamp and
// returns it in UTC.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"2006-01-02", time.RFC3339Nano} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, apperrors.NewValidationError("invalid date", map[string]any{"date": value})
}

func parseCategory(value string) (domain.ItemCategory, error) {
	category := domain.ItemCategory(strings.TrimSpace(value))
	if !category.Valid() {
		return "", apperrors.NewValidationError("invalid category", map[string]any{
			"category": value,
			"allowed":  domain.ItemCategories,
		})
	}
	return category, nil
}

func nonBlank(name, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", apperrors.NewValidationError(name+" must not be empty", map[string]any{"fields": []string{name}})
	}
	return trimmed, nil
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

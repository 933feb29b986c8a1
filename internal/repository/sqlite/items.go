package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/repository"
)

const itemColumns = `i.id, i.title, i.description, i.category, i.location, i.event_date, i.status,
		 i.images, i.reporter_id, i.finder_id, i.created_at, i.updated_at, i.deleted_at,
		 u.name, u.email`

type items struct {
	q querier
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *items) Create(ctx context.Context, item *domain.Item) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO items (id, title, description, category, location, event_date, status, images,
		                    reporter_id, finder_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Title, item.Description, string(item.Category), item.Location, item.Date,
		string(item.Status), stringList(item.Images), item.ReporterID, item.FinderID,
		item.CreatedAt, item.UpdatedAt,
	)
	return mapWriteError(err)
}

func (r *items) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+itemColumns+`
		 FROM items i JOIN users u ON u.id = i.reporter_id
		 WHERE i.id = ? AND i.deleted_at IS NULL`, id,
	)
	item, err := scanItem(row)
	if err != nil {
		return nil, mapReadError(err)
	}
	return item, nil
}

func (r *items) Update(ctx context.Context, item *domain.Item, prevUpdatedAt time.Time) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE items SET title = ?, description = ?, category = ?, location = ?, event_date = ?,
		     images = ?, updated_at = ?
		 WHERE id = ? AND updated_at = ? AND deleted_at IS NULL`,
		item.Title, item.Description, string(item.Category), item.Location, item.Date,
		stringList(item.Images), item.UpdatedAt, item.ID, prevUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return requireAffected(res)
}

func (r *items) SoftDelete(ctx context.Context, id string, at time.Time) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE items SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		at, at, id,
	)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return requireAffected(res)
}

func (r *items) TransitionStatus(ctx context.Context, id string, from []domain.ItemStatus, to domain.ItemStatus, at time.Time) error {
	if len(from) == 0 {
		return repository.ErrNotFound
	}
	placeholders := make([]string, len(from))
	args := []any{string(to), at, id}
	for i, status := range from {
		placeholders[i] = "?"
		args = append(args, string(status))
	}
	res, err := r.q.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = ?
		 WHERE id = ? AND deleted_at IS NULL AND status IN (`+strings.Join(placeholders, ", ")+`)`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}
	return requireAffected(res)
}

func (r *items) List(ctx context.Context, filter repository.ItemFilter) ([]domain.Item, error) {
	clauses := []string{"i.deleted_at IS NULL"}
	args := []any{}

	if filter.ParticipantID != nil {
		clauses = append(clauses, "(i.reporter_id = ? OR i.finder_id = ?)")
		args = append(args, *filter.ParticipantID, *filter.ParticipantID)
	}
	if filter.Category != nil {
		clauses = append(clauses, "i.category = ?")
		args = append(args, string(*filter.Category))
	}
	if filter.Status != nil {
		clauses = append(clauses, "i.status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		clauses = append(clauses, `LOWER(i.title) LIKE ? ESCAPE '\'`)
		args = append(args, repository.SearchPattern(*filter.Search))
	}

	query := `SELECT ` + itemColumns + `
		 FROM items i JOIN users u ON u.id = i.reporter_id
		 WHERE ` + strings.Join(clauses, " AND ") + `
		 ORDER BY i.created_at DESC`
	if filter.Limit > 0 {
		limit, offset := repository.NormalizePage(filter.Limit, filter.Offset)
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	result := []domain.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		result = append(result, *item)
	}
	return result, rows.Err()
}

func scanItem(row rowScanner) (*domain.Item, error) {
	item := &domain.Item{}
	reporter := &domain.UserSummary{}
	var category, status string
	var images stringList
	if err := row.Scan(
		&item.ID, &item.Title, &item.Description, &category, &item.Location, &item.Date, &status,
		&images, &item.ReporterID, &item.FinderID, &item.CreatedAt, &item.UpdatedAt, &item.DeletedAt,
		&reporter.Name, &reporter.Email,
	); err != nil {
		return nil, err
	}
	item.Category = domain.ItemCategory(category)
	item.Status = domain.ItemStatus(status)
	item.Images = []string(images)
	reporter.ID = item.ReporterID
	item.Reporter = reporter
	return item, nil
}

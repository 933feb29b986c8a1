package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

const itemColumns = `i.id, i.title, i.description, i.category, i.location, i.event_date, i.status,
               i.images, i.reporter_id, i.finder_id, i.created_at, i.updated_at, i.deleted_at,
               u.name, u.email`

type itemRepository struct {
	db DBTX
}

func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	const query = `
        INSERT INTO items (id, title, description, category, location, event_date, status, images,
                           reporter_id, finder_id, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`
	_, err := r.db.Exec(ctx, query,
		item.ID,
		item.Title,
		item.Description,
		item.Category,
		item.Location,
		item.Date,
		item.Status,
		nonNil(item.Images),
		item.ReporterID,
		item.FinderID,
		item.CreatedAt,
		item.UpdatedAt,
	)
	return mapWriteError(err)
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + `
        FROM items i JOIN users u ON u.id = i.reporter_id
        WHERE i.id=$1 AND i.deleted_at IS NULL`
	item, err := scanItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapReadError(err)
	}
	return item, nil
}

func (r *itemRepository) Update(ctx context.Context, item *domain.Item, prevUpdatedAt time.Time) error {
	const query = `
        UPDATE items SET title=$1, description=$2, category=$3, location=$4, event_date=$5,
            images=$6, updated_at=$7
        WHERE id=$8 AND updated_at=$9 AND deleted_at IS NULL`
	tag, err := r.db.Exec(ctx, query,
		item.Title,
		item.Description,
		item.Category,
		item.Location,
		item.Date,
		nonNil(item.Images),
		item.UpdatedAt,
		item.ID,
		prevUpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireAffected(tag)
}

func (r *itemRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE items SET deleted_at=$1, updated_at=$1 WHERE id=$2 AND deleted_at IS NULL`
	tag, err := r.db.Exec(ctx, query, at, id)
	if err != nil {
		return err
	}
	return requireAffected(tag)
}

func (r *itemRepository) TransitionStatus(ctx context.Context, id string, from []domain.ItemStatus, to domain.ItemStatus, at time.Time) error {
	allowed := make([]string, len(from))
	for i, status := range from {
		allowed[i] = string(status)
	}
	const query = `
        UPDATE items SET status=$1, updated_at=$2
        WHERE id=$3 AND status = ANY($4) AND deleted_at IS NULL`
	tag, err := r.db.Exec(ctx, query, to, at, id, allowed)
	if err != nil {
		return err
	}
	return requireAffected(tag)
}

func (r *itemRepository) List(ctx context.Context, filter ItemFilter) ([]domain.Item, error) {
	base := `SELECT ` + itemColumns + `
             FROM items i JOIN users u ON u.id = i.reporter_id`
	clauses := []string{"i.deleted_at IS NULL"}
	args := []any{}

	if filter.ParticipantID != nil {
		args = append(args, *filter.ParticipantID)
		clauses = append(clauses, fmt.Sprintf("(i.reporter_id=$%d OR i.finder_id=$%d)", len(args), len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("i.category=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("i.status=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		args = append(args, SearchPattern(*filter.Search))
		clauses = append(clauses, fmt.Sprintf(`LOWER(i.title) LIKE $%d ESCAPE '\'`, len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY i.created_at DESC`, base, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		limit, offset := NormalizePage(filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

func scanItem(row pgx.Row) (*domain.Item, error) {
	var item domain.Item
	var reporter domain.UserSummary
	if err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.Category,
		&item.Location,
		&item.Date,
		&item.Status,
		&item.Images,
		&item.ReporterID,
		&item.FinderID,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.DeletedAt,
		&reporter.Name,
		&reporter.Email,
	); err != nil {
		return nil, err
	}
	reporter.ID = item.ReporterID
	item.Reporter = &reporter
	return &item, nil
}

func scanItems(rows pgx.Rows) ([]domain.Item, error) {
	result := []domain.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	return result, rows.Err()
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

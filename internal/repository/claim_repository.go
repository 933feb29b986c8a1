package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

const claimColumns = `c.id, c.item_id, c.claimer_id, c.description, c.evidence, c.status,
               c.created_at, c.updated_at, c.deleted_at`

type claimRepository struct {
	db DBTX
}

func (r *claimRepository) Create(ctx context.Context, claim *domain.Claim) error {
	const query = `
        INSERT INTO claims (id, item_id, claimer_id, description, evidence, status, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := r.db.Exec(ctx, query,
		claim.ID,
		claim.ItemID,
		claim.ClaimerID,
		claim.Description,
		nonNil(claim.Evidence),
		claim.Status,
		claim.CreatedAt,
		claim.UpdatedAt,
	)
	return mapWriteError(err)
}

func (r *claimRepository) GetByID(ctx context.Context, id string) (*domain.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims c WHERE c.id=$1 AND c.deleted_at IS NULL`
	claim, err := scanClaim(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapReadError(err)
	}
	return claim, nil
}

func (r *claimRepository) FindActive(ctx context.Context, itemID, claimerID string) (*domain.Claim, error) {
	query := `SELECT ` + claimColumns + `
        FROM claims c WHERE c.item_id=$1 AND c.claimer_id=$2 AND c.deleted_at IS NULL`
	claim, err := scanClaim(r.db.QueryRow(ctx, query, itemID, claimerID))
	if err != nil {
		return nil, mapReadError(err)
	}
	return claim, nil
}

func (r *claimRepository) ListPending(ctx context.Context) ([]domain.ClaimDetail, error) {
	query := `SELECT ` + claimColumns + `,
               i.id, i.title, i.description, i.category, i.location, i.event_date, i.status,
               i.images, i.reporter_id, i.finder_id, i.created_at, i.updated_at,
               u.id, u.name, u.email
        FROM claims c
        JOIN items i ON i.id = c.item_id
        JOIN users u ON u.id = c.claimer_id
        WHERE c.status=$1 AND c.deleted_at IS NULL AND i.deleted_at IS NULL
        ORDER BY c.created_at DESC`
	rows, err := r.db.Query(ctx, query, domain.ClaimStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.ClaimDetail{}
	for rows.Next() {
		var detail domain.ClaimDetail
		c := &detail.Claim
		i := &detail.Item
		if err := rows.Scan(
			&c.ID, &c.ItemID, &c.ClaimerID, &c.Description, &c.Evidence, &c.Status,
			&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
			&i.ID, &i.Title, &i.Description, &i.Category, &i.Location, &i.Date, &i.Status,
			&i.Images, &i.ReporterID, &i.FinderID, &i.CreatedAt, &i.UpdatedAt,
			&detail.Claimer.ID, &detail.Claimer.Name, &detail.Claimer.Email,
		); err != nil {
			return nil, err
		}
		result = append(result, detail)
	}
	return result, rows.Err()
}

func (r *claimRepository) TransitionStatus(ctx context.Context, id string, from, to domain.ClaimStatus, at time.Time) error {
	const query = `
        UPDATE claims SET status=$1, updated_at=$2
        WHERE id=$3 AND status=$4 AND deleted_at IS NULL`
	tag, err := r.db.Exec(ctx, query, to, at, id, from)
	if err != nil {
		return err
	}
	return requireAffected(tag)
}

func scanClaim(row pgx.Row) (*domain.Claim, error) {
	var claim domain.Claim
	if err := row.Scan(
		&claim.ID,
		&claim.ItemID,
		&claim.ClaimerID,
		&claim.Description,
		&claim.Evidence,
		&claim.Status,
		&claim.CreatedAt,
		&claim.UpdatedAt,
		&claim.DeletedAt,
	); err != nil {
		return nil, err
	}
	return &claim, nil
}

package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

const claimColumns = `c.id, c.item_id, c.claimer_id, c.description, c.evidence, c.status,
		 c.created_at, c.updated_at, c.deleted_at`

type claims struct {
	q querier
}

func (r *claims) Create(ctx context.Context, claim *domain.Claim) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO claims (id, item_id, claimer_id, description, evidence, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		claim.ID, claim.ItemID, claim.ClaimerID, claim.Description, stringList(claim.Evidence),
		string(claim.Status), claim.CreatedAt, claim.UpdatedAt,
	)
	return mapWriteError(err)
}

func (r *claims) GetByID(ctx context.Context, id string) (*domain.Claim, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+claimColumns+` FROM claims c WHERE c.id = ? AND c.deleted_at IS NULL`, id)
	claim, err := scanClaim(row)
	if err != nil {
		return nil, mapReadError(err)
	}
	return claim, nil
}

func (r *claims) FindActive(ctx context.Context, itemID, claimerID string) (*domain.Claim, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+claimColumns+`
		 FROM claims c WHERE c.item_id = ? AND c.claimer_id = ? AND c.deleted_at IS NULL`,
		itemID, claimerID)
	claim, err := scanClaim(row)
	if err != nil {
		return nil, mapReadError(err)
	}
	return claim, nil
}

func (r *claims) ListPending(ctx context.Context) ([]domain.ClaimDetail, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+claimColumns+`,
		        i.id, i.title, i.description, i.category, i.location, i.event_date, i.status,
		        i.images, i.reporter_id, i.finder_id, i.created_at, i.updated_at,
		        u.id, u.name, u.email
		 FROM claims c
		 JOIN items i ON i.id = c.item_id
		 JOIN users u ON u.id = c.claimer_id
		 WHERE c.status = ? AND c.deleted_at IS NULL AND i.deleted_at IS NULL
		 ORDER BY c.created_at DESC`,
		string(domain.ClaimStatusPending),
	)
	if err != nil {
		return nil, fmt.Errorf("listing pending claims: %w", err)
	}
	defer rows.Close()

	result := []domain.ClaimDetail{}
	for rows.Next() {
		var detail domain.ClaimDetail
		var claimStatus, category, itemStatus string
		var evidence, images stringList
		c := &detail.Claim
		i := &detail.Item
		if err := rows.Scan(
			&c.ID, &c.ItemID, &c.ClaimerID, &c.Description, &evidence, &claimStatus,
			&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
			&i.ID, &i.Title, &i.Description, &category, &i.Location, &i.Date, &itemStatus,
			&images, &i.ReporterID, &i.FinderID, &i.CreatedAt, &i.UpdatedAt,
			&detail.Claimer.ID, &detail.Claimer.Name, &detail.Claimer.Email,
		); err != nil {
			return nil, fmt.Errorf("scanning claim: %w", err)
		}
		c.Evidence = []string(evidence)
		c.Status = domain.ClaimStatus(claimStatus)
		i.Category = domain.ItemCategory(category)
		i.Status = domain.ItemStatus(itemStatus)
		i.Images = []string(images)
		result = append(result, detail)
	}
	return result, rows.Err()
}

func (r *claims) TransitionStatus(ctx context.Context, id string, from, to domain.ClaimStatus, at time.Time) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE claims SET status = ?, updated_at = ?
		 WHERE id = ? AND status = ? AND deleted_at IS NULL`,
		string(to), at, id, string(from),
	)
	if err != nil {
		return fmt.Errorf("updating claim status: %w", err)
	}
	return requireAffected(res)
}

func scanClaim(row rowScanner) (*domain.Claim, error) {
	claim := &domain.Claim{}
	var status string
	var evidence stringList
	if err := row.Scan(
		&claim.ID, &claim.ItemID, &claim.ClaimerID, &claim.Description, &evidence, &status,
		&claim.CreatedAt, &claim.UpdatedAt, &claim.DeletedAt,
	); err != nil {
		return nil, err
	}
	claim.Evidence = []string(evidence)
	claim.Status = domain.ClaimStatus(status)
	return claim, nil
}

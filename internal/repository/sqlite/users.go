package sqlite

import (
	"context"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

const userColumns = `id, name, email, password_hash, is_admin, created_at, updated_at, deleted_at`

type users struct {
	q querier
}

func (r *users) Create(ctx context.Context, user *domain.User) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, is_admin, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.IsAdmin, user.CreatedAt, user.UpdatedAt,
	)
	return mapWriteError(err)
}

func (r *users) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.fetch(ctx, `SELECT `+userColumns+` FROM users WHERE id = ? AND deleted_at IS NULL`, id)
}

func (r *users) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.fetch(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER(?) AND deleted_at IS NULL`, email)
}

func (r *users) fetch(ctx context.Context, query string, arg any) (*domain.User, error) {
	user := &domain.User{}
	err := r.q.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.IsAdmin,
		&user.CreatedAt, &user.UpdatedAt, &user.DeletedAt,
	)
	if err != nil {
		return nil, mapReadError(err)
	}
	return user, nil
}

package sqlite

import (
	"context"

	"github.com/loftwall/atrium/internal/domain"
)

type organizationsRepo struct {
	db dbtx
}

func (r *organizationsRepo) GetOrganizationByID(ctx context.Context, id string) (domain.Organization, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, slug, created_at, updated_at FROM organizations WHERE id = ?`, id)

	var o domain.Organization
	if err := row.Scan(&o.ID, &o.Name, &o.Slug, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return domain.Organization{}, mapNotFound(err)
	}
	return o, nil
}

func (r *organizationsRepo) CreateOrganization(ctx context.Context, o domain.Organization) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO organizations (id, name, slug, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		o.ID, o.Name, o.Slug, o.CreatedAt, o.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *organizationsRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM organizations`).Scan(&n)
	return n, err
}

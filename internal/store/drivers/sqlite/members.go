package sqlite

import (
	"context"

	"github.com/loftwall/atrium/internal/domain"
)

type membersRepo struct {
	db dbtx
}

func (r *membersRepo) GetMemberByUserID(ctx context.Context, userID string) (domain.Member, error) {
	// A user holds at most one membership under the normal flow; take the
	// earliest row if that invariant has ever been violated.
	row := r.db.QueryRowContext(ctx,
		`SELECT id, organization_id, user_id, role, created_at, updated_at
		 FROM organization_members WHERE user_id = ? ORDER BY created_at ASC LIMIT 1`, userID)

	var m domain.Member
	if err := row.Scan(&m.ID, &m.OrganizationID, &m.UserID, &m.Role, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return domain.Member{}, mapNotFound(err)
	}
	return m, nil
}

func (r *membersRepo) CreateMember(ctx context.Context, m domain.Member) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO organization_members (id, organization_id, user_id, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.OrganizationID, m.UserID, m.Role, m.CreatedAt, m.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *membersRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM organization_members`).Scan(&n)
	return n, err
}

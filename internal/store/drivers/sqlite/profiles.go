package sqlite

import (
	"context"
	"database/sql"

	"github.com/loftwall/atrium/internal/domain"
)

type profilesRepo struct {
	db dbtx
}

func (r *profilesRepo) GetProfileByUserID(ctx context.Context, userID string) (domain.Profile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, full_name, avatar_url, created_at, updated_at FROM profiles WHERE id = ?`, userID)

	var (
		p         domain.Profile
		avatarURL sql.NullString
	)
	if err := row.Scan(&p.ID, &p.FullName, &avatarURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return domain.Profile{}, mapNotFound(err)
	}
	p.AvatarURL = mapNullStringPtr(avatarURL)
	return p, nil
}

func (r *profilesRepo) CreateProfile(ctx context.Context, p domain.Profile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (id, full_name, avatar_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.FullName, mapOptionalString(p.AvatarURL), p.CreatedAt, p.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *profilesRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&n)
	return n, err
}

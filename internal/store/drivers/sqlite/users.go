package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/loftwall/atrium/internal/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, email, full_name, avatar_url, password_hash, email_verified_at, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, full_name, avatar_url, password_hash, email_verified_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.FullName, mapOptionalString(u.AvatarURL), u.PasswordHash,
		mapOptionalTime(u.EmailVerifiedAt), u.CreatedAt, u.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) MarkEmailVerified(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET email_verified_at = ?, updated_at = ? WHERE id = ? AND email_verified_at IS NULL`,
		at, at, userID)
	return err
}

func (r *usersRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u          domain.User
		avatarURL  sql.NullString
		verifiedAt sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &avatarURL, &u.PasswordHash,
		&verifiedAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.AvatarURL = mapNullStringPtr(avatarURL)
	u.EmailVerifiedAt = mapNullTimePtr(verifiedAt)
	return u, nil
}

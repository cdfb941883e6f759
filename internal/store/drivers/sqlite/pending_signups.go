package sqlite

import (
	"context"
	"time"

	"github.com/loftwall/atrium/internal/domain"
)

type pendingSignupsRepo struct {
	db dbtx
}

func (r *pendingSignupsRepo) CreatePendingSignup(ctx context.Context, p domain.PendingSignup) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO pending_signups (id, user_id, org_name, otp_secret, otp_counter, token_id, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.OrgName, p.OTPSecret, p.OTPCounter, p.TokenID, p.ExpiresAt, p.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *pendingSignupsRepo) GetPendingSignupByUserID(ctx context.Context, userID string) (domain.PendingSignup, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, org_name, otp_secret, otp_counter, token_id, expires_at, created_at
		 FROM pending_signups WHERE user_id = ?`, userID)

	var p domain.PendingSignup
	if err := row.Scan(&p.ID, &p.UserID, &p.OrgName, &p.OTPSecret, &p.OTPCounter,
		&p.TokenID, &p.ExpiresAt, &p.CreatedAt); err != nil {
		return domain.PendingSignup{}, mapNotFound(err)
	}
	return p, nil
}

func (r *pendingSignupsRepo) BumpOTPCounter(ctx context.Context, id string, counter uint64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE pending_signups SET otp_counter = ? WHERE id = ?`, counter, id)
	return err
}

func (r *pendingSignupsRepo) DeletePendingSignup(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pending_signups WHERE user_id = ?`, userID)
	return err
}

func (r *pendingSignupsRepo) DeleteExpiredPendingSignups(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pending_signups WHERE expires_at < ?`, time.Now().UTC())
	return err
}

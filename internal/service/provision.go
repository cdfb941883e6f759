package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/loftwall/atrium/internal/domain"
	"github.com/loftwall/atrium/internal/slug"
	"github.com/loftwall/atrium/internal/store"
	"github.com/loftwall/atrium/pkg/idx"
	"github.com/loftwall/atrium/pkg/slogx"
)

// ProvisionService guarantees the backing records a freshly authenticated
// user needs: a profile row, and — when a sign-up chose an organization
// name — the organization plus its owner membership. It is the single
// provisioning path for all trigger points (sign-up, code exchange, OTP
// verification, dashboard repair) and runs as one transaction, so a partial
// failure can never leave an orphaned organization or membership.
type ProvisionService struct {
	Store store.Store
}

// ProvisionResult reports what Ensure found or created.
type ProvisionResult struct {
	Profile             domain.Profile
	OrganizationCreated bool
}

// Ensure is idempotent: calling it again for an already provisioned user is
// a cheap no-op beyond the profile lookup.
func (s *ProvisionService) Ensure(ctx context.Context, user domain.User) (ProvisionResult, error) {
	log := slogx.FromContext(ctx)

	var result ProvisionResult
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		now := time.Now().UTC()

		// 1. Ensure the profile row exists.
		profile, err := tx.Profiles().GetProfileByUserID(ctx, user.ID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			profile = domain.Profile{
				ID:        user.ID,
				FullName:  displayName(user),
				AvatarURL: user.AvatarURL,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.Profiles().CreateProfile(ctx, profile); err != nil {
				return err
			}
			log.Debug("profile created", slog.String("user_id", user.ID))
		case err != nil:
			return err
		}
		result.Profile = profile

		// 2. Resolve pending sign-up state; nothing more to do without it.
		pending, err := tx.PendingSignups().GetPendingSignupByUserID(ctx, user.ID)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		// 3. Create the organization and owner membership, unless the user
		// already belongs somewhere (two-tab sign-up race).
		if pending.OrgName != "" {
			_, err := tx.Members().GetMemberByUserID(ctx, user.ID)
			switch {
			case errors.Is(err, store.ErrNotFound):
				org := domain.Organization{
					ID:        idx.New().String(),
					Name:      pending.OrgName,
					Slug:      slug.Derive(pending.OrgName),
					CreatedAt: now,
					UpdatedAt: now,
				}
				if err := tx.Organizations().CreateOrganization(ctx, org); err != nil {
					return err
				}

				member := domain.Member{
					ID:             idx.New().String(),
					OrganizationID: org.ID,
					UserID:         user.ID,
					Role:           domain.RoleOwner,
					CreatedAt:      now,
					UpdatedAt:      now,
				}
				if err := tx.Members().CreateMember(ctx, member); err != nil {
					return err
				}

				result.OrganizationCreated = true
				log.Info("organization provisioned",
					slog.String("org_id", org.ID),
					slog.String("slug", org.Slug),
					slog.String("owner", user.ID),
				)
			case err != nil:
				return err
			}
		}

		// 4. Clear the pending marker.
		return tx.PendingSignups().DeletePendingSignup(ctx, user.ID)
	})
	if err != nil {
		return ProvisionResult{}, err
	}
	return result, nil
}

// displayName falls back to the email's local part when no name was captured
// at sign-up.
func displayName(user domain.User) string {
	if name := strings.TrimSpace(user.FullName); name != "" {
		return name
	}
	if at := strings.Index(user.Email, "@"); at > 0 {
		return user.Email[:at]
	}
	return user.Email
}

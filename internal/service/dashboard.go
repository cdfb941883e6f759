package service

import (
	"context"
	"errors"

	"github.com/loftwall/atrium/internal/domain"
	"github.com/loftwall/atrium/internal/store"
)

// DashboardService assembles the data behind the dashboard page: the user's
// profile and, when present, their organization and role.
type DashboardService struct {
	Store       store.Store
	Provisioner Provisioner
}

// Overview is everything the dashboard renders. Organization and Membership
// are nil for users without a tenant.
type Overview struct {
	Profile      domain.Profile
	Organization *domain.Organization
	Membership   *domain.Member
}

// Load fetches the overview. A missing profile is repaired in place through
// the provisioner so the page renders on the first load.
func (s *DashboardService) Load(ctx context.Context, user domain.User) (Overview, error) {
	var overview Overview

	profile, err := s.Store.Profiles().GetProfileByUserID(ctx, user.ID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		result, err := s.Provisioner.Ensure(ctx, user)
		if err != nil {
			return Overview{}, err
		}
		profile = result.Profile
	case err != nil:
		return Overview{}, err
	}
	overview.Profile = profile

	member, err := s.Store.Members().GetMemberByUserID(ctx, user.ID)
	if errors.Is(err, store.ErrNotFound) {
		return overview, nil
	}
	if err != nil {
		return Overview{}, err
	}
	overview.Membership = &member

	org, err := s.Store.Organizations().GetOrganizationByID(ctx, member.OrganizationID)
	if err != nil {
		return Overview{}, err
	}
	overview.Organization = &org

	return overview, nil
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"server/internal/adapter/repo/repotest"
	"server/internal/auth"
	"server/internal/domain"
)

type fixture struct {
	users     *repotest.UserRepo
	store     *repotest.Store
	campaigns *CampaignService
	donations *DonationService

	nonprofit *auth.Claims
	donor     *auth.Claims
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := repotest.NewUserRepo()
	store := repotest.NewStore(users)

	f := &fixture{
		users:     users,
		store:     store,
		campaigns: NewCampaignService(store.Campaigns(), store.Donations(), users, nil),
		donations: NewDonationService(store.Donations(), store.Campaigns(), nil),
	}
	f.nonprofit = f.addUser(t, "Hope Shelter", "hope@example.com", domain.RoleNonprofit)
	f.donor = f.addUser(t, "dana jones", "dana@example.com", domain.RoleDonor)
	return f
}

func (f *fixture) addUser(t *testing.T, name, email string, role domain.UserRole) *auth.Claims {
	t.Helper()
	user := &domain.User{ID: "user-" + email, Name: name, Email: email, Role: role}
	if err := f.users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return &auth.Claims{UserID: user.ID, Email: email, Role: role}
}

func (f *fixture) createCampaign(t *testing.T, owner *auth.Claims, goal float64) *domain.Campaign {
	t.Helper()
	c, err := f.campaigns.Create(context.Background(), owner, CreateCampaignInput{
		Title:       "Clean Water",
		Description: "Wells for the region",
		GoalAmount:  goal,
		Deadline:    time.Now().Add(30 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	return c
}

func TestCreateCampaignStartsActiveAtZero(t *testing.T) {
	f := newFixture(t)
	c := f.createCampaign(t, f.nonprofit, 1000)

	if c.RaisedAmount != 0 {
		t.Fatalf("raised = %v, want 0", c.RaisedAmount)
	}
	if c.Status != domain.CampaignActive {
		t.Fatalf("status = %s, want ACTIVE", c.Status)
	}
	if c.CreatedByID != f.nonprofit.UserID {
		t.Fatalf("owner = %s, want %s", c.CreatedByID, f.nonprofit.UserID)
	}
}

func TestCreateCampaignRoleGate(t *testing.T) {
	f := newFixture(t)
	_, err := f.campaigns.Create(context.Background(), f.donor, CreateCampaignInput{
		Title: "x", Description: "y", GoalAmount: 100, Deadline: time.Now().Add(time.Hour),
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("donor create err = %v, want ErrForbidden", err)
	}
}

func TestCreateCampaignGoalBoundary(t *testing.T) {
	f := newFixture(t)
	in := CreateCampaignInput{Title: "x", Description: "y", Deadline: time.Now().Add(time.Hour)}

	in.GoalAmount = 0
	if _, err := f.campaigns.Create(context.Background(), f.nonprofit, in); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("goal 0 err = %v, want ErrInvalidInput", err)
	}

	in.GoalAmount = 0.01
	if _, err := f.campaigns.Create(context.Background(), f.nonprofit, in); err != nil {
		t.Fatalf("goal 0.01 err = %v, want nil", err)
	}
}

func TestCreateCampaignPastDeadline(t *testing.T) {
	f := newFixture(t)
	_, err := f.campaigns.Create(context.Background(), f.nonprofit, CreateCampaignInput{
		Title: "x", Description: "y", GoalAmount: 100, Deadline: time.Now().Add(-time.Hour),
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("past deadline err = %v, want ErrInvalidInput", err)
	}
}

func TestUpdateCampaignOwnershipGate(t *testing.T) {
	f := newFixture(t)
	c := f.createCampaign(t, f.nonprofit, 1000)
	otherNonprofit := f.addUser(t, "Other Org", "other@example.com", domain.RoleNonprofit)

	title := "Hijacked"
	patch := domain.CampaignPatch{Title: &title}
	for _, claims := range []*auth.Claims{otherNonprofit, f.donor} {
		if _, err := f.campaigns.Update(context.Background(), claims, c.ID, patch); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("update by %s err = %v, want ErrForbidden", claims.UserID, err)
		}
	}
	if err := f.campaigns.Delete(context.Background(), otherNonprofit, c.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("delete by non-owner err = %v, want ErrForbidden", err)
	}
}

func TestUpdateCampaignPatchesAllowListedFields(t *testing.T) {
	f := newFixture(t)
	c := f.createCampaign(t, f.nonprofit, 1000)

	title := "Clean Water 2.0"
	goal := 2000.0
	status := domain.CampaignCompleted
	updated, err := f.campaigns.Update(context.Background(), f.nonprofit, c.ID, domain.CampaignPatch{
		Title:      &title,
		GoalAmount: &goal,
		Status:     &status,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != title || updated.GoalAmount != goal || updated.Status != domain.CampaignCompleted {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if updated.Description != c.Description {
		t.Fatalf("untouched field changed: %q", updated.Description)
	}
}

func TestUpdateCampaignPreservesRaisedAmount(t *testing.T) {
	f := newFixture(t)
	c := f.createCampaign(t, f.nonprofit, 1000)
	if _, err := f.donations.Donate(context.Background(), f.donor, c.ID, 50, ""); err != nil {
		t.Fatalf("Donate: %v", err)
	}

	title := "Renamed"
	updated, err := f.campaigns.Update(context.Background(), f.nonprofit, c.ID, domain.CampaignPatch{Title: &title})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.RaisedAmount != 50 {
		t.Fatalf("raised = %v after metadata edit, want 50", updated.RaisedAmount)
	}
}

func TestUpdateCampaignValidatesPatch(t *testing.T) {
	f := newFixture(t)
	c := f.createCampaign(t, f.nonprofit, 1000)

	zero := 0.0
	if _, err := f.campaigns.Update(context.Background(), f.nonprofit, c.ID, domain.CampaignPatch{GoalAmount: &zero}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("goal 0 patch err = %v, want ErrInvalidInput", err)
	}
	bogus := domain.CampaignStatus("PAUSED")
	if _, err := f.campaigns.Update(context.Background(), f.nonprofit, c.ID, domain.CampaignPatch{Status: &bogus}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("bogus status err = %v, want ErrInvalidInput", err)
	}
}

func TestDeleteCampaignCascadesDonations(t *testing.T) {
	f := newFixture(t)
	c := f.createCampaign(t, f.nonprofit, 1000)
	if _, err := f.donations.Donate(context.Background(), f.donor, c.ID, 25, ""); err != nil {
		t.Fatalf("Donate: %v", err)
	}

	if err := f.campaigns.Delete(context.Background(), f.nonprofit, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.campaigns.Get(context.Background(), c.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get after delete err = %v, want ErrNotFound", err)
	}
	history, _, err := f.donations.History(context.Background(), f.donor, f.donor.UserID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("donations survived campaign delete: %d rows", len(history))
	}
}

func TestGetCampaignDetail(t *testing.T) {
	f := newFixture(t)
	c := f.createCampaign(t, f.nonprofit, 1000)
	if _, err := f.donations.Donate(context.Background(), f.donor, c.ID, 50, "CA"); err != nil {
		t.Fatalf("Donate: %v", err)
	}

	detail, err := f.campaigns.Get(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if detail.Owner.ID != f.nonprofit.UserID {
		t.Fatalf("owner = %s, want %s", detail.Owner.ID, f.nonprofit.UserID)
	}
	if detail.DonationCount != 1 || len(detail.Donations) != 1 {
		t.Fatalf("donation count = %d/%d, want 1", detail.DonationCount, len(detail.Donations))
	}
	if got := detail.Donations[0].DonorName; got != "Dana Jones" {
		t.Fatalf("donor name = %q, want title-cased %q", got, "Dana Jones")
	}
	if detail.DaysRemaining < 29 || detail.DaysRemaining > 30 {
		t.Fatalf("days remaining = %d, want ~30", detail.DaysRemaining)
	}
}

func TestListCampaignsFilters(t *testing.T) {
	f := newFixture(t)
	active := f.createCampaign(t, f.nonprofit, 1000)
	done := f.createCampaign(t, f.nonprofit, 500)
	status := domain.CampaignCompleted
	if _, err := f.campaigns.Update(context.Background(), f.nonprofit, done.ID, domain.CampaignPatch{Status: &status}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	list, err := f.campaigns.List(context.Background(), domain.CampaignFilter{Status: domain.CampaignActive})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != active.ID {
		t.Fatalf("active list = %+v, want only %s", list, active.ID)
	}
}

func TestStatsOwnerOnly(t *testing.T) {
	f := newFixture(t)
	c := f.createCampaign(t, f.nonprofit, 1000)
	if _, err := f.donations.Donate(context.Background(), f.donor, c.ID, 50, "CA"); err != nil {
		t.Fatalf("Donate: %v", err)
	}
	if _, err := f.donations.Donate(context.Background(), f.donor, c.ID, 30, "CA"); err != nil {
		t.Fatalf("Donate: %v", err)
	}

	if _, err := f.campaigns.Stats(context.Background(), f.donor, c.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("stats for non-owner err = %v, want ErrForbidden", err)
	}

	stats, err := f.campaigns.Stats(context.Background(), f.nonprofit, c.ID)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(stats) != 1 || stats[0].Country != "CA" || stats[0].Donations != 2 || stats[0].Amount != 80 {
		t.Fatalf("stats = %+v, want CA x2 for 80", stats)
	}
}

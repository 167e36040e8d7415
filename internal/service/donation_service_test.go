package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"server/internal/domain"
)

func TestDonateIncrementsRaisedAmount(t *testing.T) {
	f := newFixture(t)
	c := f.createCampaign(t, f.nonprofit, 1000)

	donation, err := f.donations.Donate(context.Background(), f.donor, c.ID, 50, "US")
	if err != nil {
		t.Fatalf("Donate: %v", err)
	}
	if donation.Amount != 50 || donation.DonorID != f.donor.UserID || donation.CampaignID != c.ID {
		t.Fatalf("donation = %+v", donation)
	}
	if donation.DonatedAt.IsZero() {
		t.Fatal("DonatedAt not set")
	}

	detail, err := f.campaigns.Get(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if detail.Campaign.RaisedAmount != 50 {
		t.Fatalf("raised = %v, want 50", detail.Campaign.RaisedAmount)
	}
	if detail.DonationCount != 1 {
		t.Fatalf("donation count = %d, want 1", detail.DonationCount)
	}
}

func TestDonateConcurrentExactSum(t *testing.T) {
	f := newFixture(t)
	c := f.createCampaign(t, f.nonprofit, 100000)

	const n = 100
	const amount = 10.0
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.donations.Donate(context.Background(), f.donor, c.ID, amount, ""); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("Donate: %v", err)
	}

	detail, err := f.campaigns.Get(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if detail.Campaign.RaisedAmount != n*amount {
		t.Fatalf("raised = %v, want %v", detail.Campaign.RaisedAmount, n*amount)
	}
	if detail.DonationCount != n {
		t.Fatalf("donation count = %d, want %d", detail.DonationCount, n)
	}
}

func TestDonateRoleGate(t *testing.T) {
	f := newFixture(t)
	c := f.createCampaign(t, f.nonprofit, 1000)

	if _, err := f.donations.Donate(context.Background(), f.nonprofit, c.ID, 50, ""); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("nonprofit donate err = %v, want ErrForbidden", err)
	}
	if _, err := f.donations.Donate(context.Background(), nil, c.ID, 50, ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("anonymous donate err = %v, want ErrUnauthenticated", err)
	}
}

func TestDonateValidation(t *testing.T) {
	f := newFixture(t)
	c := f.createCampaign(t, f.nonprofit, 1000)

	tests := []struct {
		name       string
		campaignID string
		amount     float64
		want       error
	}{
		{"missing campaign id", "", 50, domain.ErrInvalidInput},
		{"zero amount", c.ID, 0, domain.ErrInvalidInput},
		{"negative amount", c.ID, -5, domain.ErrInvalidInput},
		{"unknown campaign", "no-such-campaign", 50, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.donations.Donate(context.Background(), f.donor, tt.campaignID, tt.amount, ""); !errors.Is(err, tt.want) {
				t.Fatalf("Donate() err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDonateCompletedCampaignRejected(t *testing.T) {
	f := newFixture(t)
	c := f.createCampaign(t, f.nonprofit, 1000)
	if _, err := f.donations.Donate(context.Background(), f.donor, c.ID, 50, ""); err != nil {
		t.Fatalf("Donate: %v", err)
	}

	status := domain.CampaignCompleted
	if _, err := f.campaigns.Update(context.Background(), f.nonprofit, c.ID, domain.CampaignPatch{Status: &status}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if _, err := f.donations.Donate(context.Background(), f.donor, c.ID, 50, ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("donate to completed err = %v, want ErrInvalidInput", err)
	}

	// The completed campaign stays readable and editable; only donations close.
	detail, err := f.campaigns.Get(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("Get after completion: %v", err)
	}
	if detail.Campaign.RaisedAmount != 50 {
		t.Fatalf("raised = %v, want 50 (rejected donation must not land)", detail.Campaign.RaisedAmount)
	}
	title := "Wrapped Up"
	if _, err := f.campaigns.Update(context.Background(), f.nonprofit, c.ID, domain.CampaignPatch{Title: &title}); err != nil {
		t.Fatalf("edit after completion: %v", err)
	}
}

func TestHistorySelfOnly(t *testing.T) {
	f := newFixture(t)
	c := f.createCampaign(t, f.nonprofit, 1000)
	other := f.addUser(t, "Sam Lee", "sam@example.com", domain.RoleDonor)

	if _, err := f.donations.Donate(context.Background(), f.donor, c.ID, 20, ""); err != nil {
		t.Fatalf("Donate: %v", err)
	}
	if _, err := f.donations.Donate(context.Background(), f.donor, c.ID, 30, ""); err != nil {
		t.Fatalf("Donate: %v", err)
	}
	if _, err := f.donations.Donate(context.Background(), other, c.ID, 99, ""); err != nil {
		t.Fatalf("Donate: %v", err)
	}

	donations, total, err := f.donations.History(context.Background(), f.donor, f.donor.UserID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(donations) != 2 || total != 50 {
		t.Fatalf("history = %d rows total %v, want 2 rows total 50", len(donations), total)
	}
	if donations[0].Amount != 30 {
		t.Fatalf("history not newest first: first amount = %v", donations[0].Amount)
	}
	if donations[0].CampaignTitle != c.Title {
		t.Fatalf("campaign title = %q, want %q", donations[0].CampaignTitle, c.Title)
	}

	if _, _, err := f.donations.History(context.Background(), f.donor, other.UserID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("history for other donor err = %v, want ErrForbidden", err)
	}
}

package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"server/internal/auth"
	"server/internal/domain"
)

// DonationService fronts the donation ledger. It runs the guard and the
// lifecycle check, then hands off to the atomic ledger transaction; it never
// touches the raised amount itself.
type DonationService struct {
	donations domain.DonationRepository
	campaigns domain.CampaignRepository
	cache     CampaignCache
}

// NewDonationService creates a DonationService. cache may be nil.
func NewDonationService(donations domain.DonationRepository, campaigns domain.CampaignRepository, cache CampaignCache) *DonationService {
	return &DonationService{donations: donations, campaigns: campaigns, cache: cache}
}

// Donate records a donation against an active campaign. Retried requests are
// not deduplicated: a double submit creates two donations.
func (s *DonationService) Donate(ctx context.Context, claims *auth.Claims, campaignID string, amount float64, donorCountry string) (*domain.Donation, error) {
	if err := auth.Authorize(claims, auth.ActionDonate, auth.Resource{}); err != nil {
		return nil, err
	}
	if campaignID == "" {
		return nil, fmt.Errorf("%w: campaign id is required", domain.ErrInvalidInput)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: donation amount must be greater than 0", domain.ErrInvalidInput)
	}

	campaign, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if !campaign.CanDonate() {
		return nil, fmt.Errorf("%w: campaign is not accepting donations", domain.ErrInvalidInput)
	}

	donation := &domain.Donation{
		ID:           uuid.NewString(),
		Amount:       amount,
		DonorID:      claims.UserID,
		CampaignID:   campaignID,
		DonorCountry: donorCountry,
	}
	if err := s.donations.Record(ctx, donation); err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx)
	}
	return donation, nil
}

// History returns the donor's donations plus the lifetime total. Donors can
// only see their own history.
func (s *DonationService) History(ctx context.Context, claims *auth.Claims, donorID string) ([]domain.DonorDonation, float64, error) {
	if err := auth.Authorize(claims, auth.ActionViewDonations, auth.Resource{DonorID: donorID}); err != nil {
		return nil, 0, err
	}
	donations, err := s.donations.ListByDonor(ctx, donorID)
	if err != nil {
		return nil, 0, err
	}
	var total float64
	for _, d := range donations {
		total += d.Amount
	}
	return donations, total, nil
}

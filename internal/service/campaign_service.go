package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"server/internal/auth"
	"server/internal/domain"
)

// CampaignCache is what the campaign paths need from the cache layer.
// A nil cache disables caching entirely.
type CampaignCache interface {
	GetActiveList(ctx context.Context) ([]domain.Campaign, error)
	SetActiveList(ctx context.Context, list []domain.Campaign) error
	Invalidate(ctx context.Context) error
}

// CampaignService implements campaign creation, listing, owner edits, and the
// owner-facing supporter stats. All mutations pass through the authorization
// guard with explicit claims; there is no ambient session state.
type CampaignService struct {
	campaigns domain.CampaignRepository
	donations domain.DonationRepository
	users     domain.UserRepository
	cache     CampaignCache
	now       func() time.Time
}

// NewCampaignService creates a CampaignService. cache may be nil.
func NewCampaignService(campaigns domain.CampaignRepository, donations domain.DonationRepository, users domain.UserRepository, cache CampaignCache) *CampaignService {
	return &CampaignService{
		campaigns: campaigns,
		donations: donations,
		users:     users,
		cache:     cache,
		now:       time.Now,
	}
}

// CreateCampaignInput carries a campaign creation request.
type CreateCampaignInput struct {
	Title       string
	Description string
	GoalAmount  float64
	Deadline    time.Time
	ImageURL    *string
}

// Create makes a new ACTIVE campaign with a zero raised amount, owned by the
// calling nonprofit.
func (s *CampaignService) Create(ctx context.Context, claims *auth.Claims, in CreateCampaignInput) (*domain.Campaign, error) {
	if err := auth.Authorize(claims, auth.ActionCreateCampaign, auth.Resource{}); err != nil {
		return nil, err
	}
	if in.Title == "" || in.Description == "" {
		return nil, fmt.Errorf("%w: title and description are required", domain.ErrInvalidInput)
	}
	if in.GoalAmount <= 0 {
		return nil, fmt.Errorf("%w: goal amount must be greater than 0", domain.ErrInvalidInput)
	}
	if !in.Deadline.After(s.now()) {
		return nil, fmt.Errorf("%w: deadline must be in the future", domain.ErrInvalidInput)
	}

	campaign := &domain.Campaign{
		ID:           uuid.NewString(),
		Title:        in.Title,
		Description:  in.Description,
		GoalAmount:   in.GoalAmount,
		RaisedAmount: 0,
		Deadline:     in.Deadline,
		ImageURL:     in.ImageURL,
		Status:       domain.CampaignActive,
		CreatedByID:  claims.UserID,
	}
	if err := s.campaigns.Create(ctx, campaign); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return campaign, nil
}

// List returns campaigns matching the filter. The default listing (ACTIVE,
// no owner filter) is served from the cache when one is configured.
func (s *CampaignService) List(ctx context.Context, filter domain.CampaignFilter) ([]domain.Campaign, error) {
	cacheable := s.cache != nil && filter.Status == domain.CampaignActive && filter.CreatedByID == ""
	if cacheable {
		if cached, err := s.cache.GetActiveList(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}
	list, err := s.campaigns.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if cacheable {
		_ = s.cache.SetActiveList(ctx, list)
	}
	return list, nil
}

// CampaignDetail is a campaign page: the campaign, its owner, and its
// donation history.
type CampaignDetail struct {
	Campaign      domain.Campaign
	Owner         *domain.User
	Donations     []domain.CampaignDonation
	DonationCount int
	DaysRemaining int
}

// Get returns the full campaign page. Public; no claims required.
func (s *CampaignService) Get(ctx context.Context, id string) (*CampaignDetail, error) {
	campaign, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owner, err := s.users.GetByID(ctx, campaign.CreatedByID)
	if err != nil {
		return nil, err
	}
	donations, err := s.donations.ListByCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	caser := cases.Title(language.English)
	for i := range donations {
		donations[i].DonorName = caser.String(donations[i].DonorName)
	}
	return &CampaignDetail{
		Campaign:      *campaign,
		Owner:         owner,
		Donations:     donations,
		DonationCount: len(donations),
		DaysRemaining: campaign.DaysRemaining(s.now()),
	}, nil
}

// Update applies an owner edit. Only the allow-listed fields in the patch can
// change; the raised amount has no path through here.
func (s *CampaignService) Update(ctx context.Context, claims *auth.Claims, id string, patch domain.CampaignPatch) (*domain.Campaign, error) {
	campaign, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(claims, auth.ActionEditCampaign, auth.Resource{CampaignOwnerID: campaign.CreatedByID}); err != nil {
		return nil, err
	}
	if err := applyPatch(campaign, patch, s.now()); err != nil {
		return nil, err
	}
	if err := s.campaigns.Update(ctx, campaign); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return campaign, nil
}

// Delete removes an owner's campaign and, with it, its donation history.
func (s *CampaignService) Delete(ctx context.Context, claims *auth.Claims, id string) error {
	campaign, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.Authorize(claims, auth.ActionDeleteCampaign, auth.Resource{CampaignOwnerID: campaign.CreatedByID}); err != nil {
		return err
	}
	if err := s.campaigns.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Stats returns the supporter-country breakdown. Owner only.
func (s *CampaignService) Stats(ctx context.Context, claims *auth.Claims, id string) ([]domain.CountrySupporters, error) {
	campaign, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(claims, auth.ActionViewStats, auth.Resource{CampaignOwnerID: campaign.CreatedByID}); err != nil {
		return nil, err
	}
	return s.donations.CountryBreakdown(ctx, id)
}

func applyPatch(c *domain.Campaign, patch domain.CampaignPatch, now time.Time) error {
	if patch.Title != nil {
		if *patch.Title == "" {
			return fmt.Errorf("%w: title cannot be empty", domain.ErrInvalidInput)
		}
		c.Title = *patch.Title
	}
	if patch.Description != nil {
		if *patch.Description == "" {
			return fmt.Errorf("%w: description cannot be empty", domain.ErrInvalidInput)
		}
		c.Description = *patch.Description
	}
	if patch.GoalAmount != nil {
		if *patch.GoalAmount <= 0 {
			return fmt.Errorf("%w: goal amount must be greater than 0", domain.ErrInvalidInput)
		}
		c.GoalAmount = *patch.GoalAmount
	}
	if patch.Deadline != nil {
		if !patch.Deadline.After(now) {
			return fmt.Errorf("%w: deadline must be in the future", domain.ErrInvalidInput)
		}
		c.Deadline = *patch.Deadline
	}
	if patch.ImageURL != nil {
		c.ImageURL = patch.ImageURL
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, *patch.Status)
		}
		c.Status = *patch.Status
	}
	return nil
}

func (s *CampaignService) invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx)
	}
}

// Package repotest provides in-memory repository implementations used by
// service and handler tests. The donation store serializes its ledger writes
// under one lock, mirroring the row-level serialization the SQL increment
// provides in PostgreSQL.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"server/internal/domain"
)

// UserRepo is an in-memory domain.UserRepository.
type UserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[string]*domain.User)}
}

func (r *UserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrConflict
		}
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Store combines the campaign and donation repositories over one shared lock
// so the ledger transaction can touch both entity sets atomically.
type Store struct {
	mu        sync.Mutex
	campaigns map[string]*domain.Campaign
	donations []*donationRow
	users     *UserRepo
	seq       int
}

type donationRow struct {
	domain.Donation
	seq int
}

// NewStore creates a Store. users is consulted for donor display names.
func NewStore(users *UserRepo) *Store {
	return &Store{campaigns: make(map[string]*domain.Campaign), users: users}
}

// Campaigns returns the store's domain.CampaignRepository view.
func (s *Store) Campaigns() *CampaignRepo { return &CampaignRepo{s} }

// Donations returns the store's domain.DonationRepository view.
func (s *Store) Donations() *DonationRepo { return &DonationRepo{s} }

type CampaignRepo struct{ s *Store }

func (r *CampaignRepo) Create(_ context.Context, c *domain.Campaign) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	clone := *c
	r.s.campaigns[c.ID] = &clone
	return nil
}

func (r *CampaignRepo) GetByID(_ context.Context, id string) (*domain.Campaign, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.campaigns[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *CampaignRepo) List(_ context.Context, filter domain.CampaignFilter) ([]domain.Campaign, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Campaign
	for _, c := range r.s.campaigns {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.CreatedByID != "" && c.CreatedByID != filter.CreatedByID {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *CampaignRepo) Update(_ context.Context, c *domain.Campaign) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.campaigns[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.Title = c.Title
	existing.Description = c.Description
	existing.GoalAmount = c.GoalAmount
	existing.Deadline = c.Deadline
	existing.ImageURL = c.ImageURL
	existing.Status = c.Status
	existing.UpdatedAt = time.Now()
	c.RaisedAmount = existing.RaisedAmount
	c.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r *CampaignRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.campaigns[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.campaigns, id)
	kept := r.s.donations[:0]
	for _, d := range r.s.donations {
		if d.CampaignID != id {
			kept = append(kept, d)
		}
	}
	r.s.donations = kept
	return nil
}

type DonationRepo struct{ s *Store }

// Record mirrors the SQL ledger transaction: the donation append and the
// raised-amount increment happen under one lock, or not at all.
func (r *DonationRepo) Record(_ context.Context, d *domain.Donation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	campaign, ok := r.s.campaigns[d.CampaignID]
	if !ok {
		return domain.ErrNotFound
	}
	d.DonatedAt = time.Now()
	r.s.seq++
	row := &donationRow{Donation: *d, seq: r.s.seq}
	r.s.donations = append(r.s.donations, row)
	campaign.RaisedAmount += d.Amount
	campaign.UpdatedAt = d.DonatedAt
	return nil
}

func (r *DonationRepo) ListByDonor(_ context.Context, donorID string) ([]domain.DonorDonation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.DonorDonation
	for _, d := range r.newestFirst() {
		if d.DonorID != donorID {
			continue
		}
		dd := domain.DonorDonation{Donation: d.Donation}
		if c, ok := r.s.campaigns[d.CampaignID]; ok {
			dd.CampaignTitle = c.Title
			dd.CampaignImageURL = c.ImageURL
			dd.CampaignStatus = c.Status
		}
		out = append(out, dd)
	}
	return out, nil
}

func (r *DonationRepo) ListByCampaign(ctx context.Context, campaignID string) ([]domain.CampaignDonation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.CampaignDonation
	for _, d := range r.newestFirst() {
		if d.CampaignID != campaignID {
			continue
		}
		cd := domain.CampaignDonation{Donation: d.Donation}
		if r.s.users != nil {
			if u, err := r.s.users.GetByID(ctx, d.DonorID); err == nil {
				cd.DonorName = u.Name
			}
		}
		out = append(out, cd)
	}
	return out, nil
}

func (r *DonationRepo) CountryBreakdown(_ context.Context, campaignID string) ([]domain.CountrySupporters, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byCountry := make(map[string]*domain.CountrySupporters)
	for _, d := range r.s.donations {
		if d.CampaignID != campaignID {
			continue
		}
		cs, ok := byCountry[d.DonorCountry]
		if !ok {
			cs = &domain.CountrySupporters{Country: d.DonorCountry}
			byCountry[d.DonorCountry] = cs
		}
		cs.Donations++
		cs.Amount += d.Amount
	}
	var out []domain.CountrySupporters
	for _, cs := range byCountry {
		out = append(out, *cs)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Donations != out[j].Donations {
			return out[i].Donations > out[j].Donations
		}
		return out[i].Country < out[j].Country
	})
	return out, nil
}

func (r *DonationRepo) newestFirst() []*donationRow {
	rows := append([]*donationRow(nil), r.s.donations...)
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })
	return rows
}

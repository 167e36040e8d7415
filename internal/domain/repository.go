package domain

import "context"

// UserRepository defines access methods for users.
type UserRepository interface {
	// Create inserts the user, returning ErrConflict when the email is taken.
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// CampaignRepository defines persistence for campaigns.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *Campaign) error
	GetByID(ctx context.Context, id string) (*Campaign, error)
	List(ctx context.Context, filter CampaignFilter) ([]Campaign, error)
	// Update persists the owner-editable fields of the campaign. It never
	// writes RaisedAmount; that column belongs to the donation ledger.
	Update(ctx context.Context, campaign *Campaign) error
	// Delete removes the campaign and all of its donations atomically.
	Delete(ctx context.Context, id string) error
}

// DonationRepository defines persistence for donations.
type DonationRepository interface {
	// Record appends the donation and increments the target campaign's
	// raised amount as a single atomic unit. Returns ErrNotFound when the
	// campaign does not exist; on any failure neither write is visible.
	Record(ctx context.Context, donation *Donation) error
	// ListByDonor returns the donor's donations, newest first.
	ListByDonor(ctx context.Context, donorID string) ([]DonorDonation, error)
	// ListByCampaign returns the campaign's donations, newest first.
	ListByCampaign(ctx context.Context, campaignID string) ([]CampaignDonation, error)
	// CountryBreakdown aggregates the campaign's donations by donor country.
	CountryBreakdown(ctx context.Context, campaignID string) ([]CountrySupporters, error)
}

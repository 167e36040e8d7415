package domain

import "time"

// Donation is an immutable record of a donor funding a campaign. Donations
// are created exclusively through the ledger transaction that also increments
// the campaign's raised amount; there is no edit or delete path.
type Donation struct {
	ID           string
	Amount       float64
	DonorID      string
	CampaignID   string
	DonorCountry string // ISO code, best effort, may be empty
	DonatedAt    time.Time
}

// CampaignDonation is a donation as shown on a campaign page, with the donor's
// display name attached.
type CampaignDonation struct {
	Donation
	DonorName string
}

// DonorDonation is a donation as shown in a donor's own history, with a
// summary of the target campaign attached.
type DonorDonation struct {
	Donation
	CampaignTitle    string
	CampaignImageURL *string
	CampaignStatus   CampaignStatus
}

// CountrySupporters aggregates donations per donor country for the
// owner-facing campaign stats.
type CountrySupporters struct {
	Country   string
	Donations int
	Amount    float64
}

package domain

import (
	"math"
	"time"
)

// CampaignStatus enumerates campaign lifecycle states.
type CampaignStatus string

const (
	CampaignActive    CampaignStatus = "ACTIVE"
	CampaignCompleted CampaignStatus = "COMPLETED"
)

// Valid reports whether the status is one of the supported values.
func (s CampaignStatus) Valid() bool {
	return s == CampaignActive || s == CampaignCompleted
}

// Campaign is a fundraising campaign owned by a nonprofit account.
// RaisedAmount is maintained exclusively by the donation ledger and equals the
// sum of all recorded donation amounts for the campaign.
type Campaign struct {
	ID           string
	Title        string
	Description  string
	GoalAmount   float64
	RaisedAmount float64
	Deadline     time.Time
	ImageURL     *string
	Status       CampaignStatus
	CreatedByID  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanDonate reports whether the campaign currently accepts donations.
// Only the status matters; the deadline is advisory and never closes a
// campaign on its own.
func (c Campaign) CanDonate() bool {
	return c.Status == CampaignActive
}

// DaysRemaining returns the number of whole days until the deadline, rounded
// up, and never negative. Display value only.
func (c Campaign) DaysRemaining(now time.Time) int {
	remaining := c.Deadline.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours() / 24))
}

// CampaignPatch carries the owner-editable fields of a campaign. Nil fields
// are left unchanged. RaisedAmount is deliberately absent: it is only ever
// mutated by the donation ledger.
type CampaignPatch struct {
	Title       *string
	Description *string
	GoalAmount  *float64
	Deadline    *time.Time
	ImageURL    *string
	Status      *CampaignStatus
}

// CampaignFilter narrows campaign listings.
type CampaignFilter struct {
	Status      CampaignStatus
	CreatedByID string
}

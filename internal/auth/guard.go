package auth

import "server/internal/domain"

// Action identifies an operation subject to authorization.
type Action string

const (
	ActionCreateCampaign Action = "campaign.create"
	ActionEditCampaign   Action = "campaign.edit"
	ActionDeleteCampaign Action = "campaign.delete"
	ActionDonate         Action = "donation.create"
	ActionViewDonations  Action = "donation.view"
	ActionViewStats      Action = "campaign.stats"
)

// Resource carries the ownership facts an action is checked against.
// CampaignOwnerID applies to edit/delete, DonorID to donation views.
type Resource struct {
	CampaignOwnerID string
	DonorID         string
}

// Authorize decides whether the identity may perform the action. It is a pure
// function over the supplied claims and resource state: nil claims mean an
// unauthenticated caller, role mismatches and ownership mismatches are
// forbidden. It never touches storage.
func Authorize(claims *Claims, action Action, res Resource) error {
	if claims == nil || claims.UserID == "" {
		return domain.ErrUnauthenticated
	}
	switch action {
	case ActionCreateCampaign:
		if claims.Role != domain.RoleNonprofit {
			return domain.ErrForbidden
		}
	case ActionEditCampaign, ActionDeleteCampaign, ActionViewStats:
		// Ownership, not role: another nonprofit is still forbidden.
		if res.CampaignOwnerID != claims.UserID {
			return domain.ErrForbidden
		}
	case ActionDonate:
		if claims.Role != domain.RoleDonor {
			return domain.ErrForbidden
		}
	case ActionViewDonations:
		if res.DonorID != claims.UserID {
			return domain.ErrForbidden
		}
	default:
		return domain.ErrForbidden
	}
	return nil
}

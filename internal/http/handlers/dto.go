package handlers

import (
	"time"

	"server/internal/domain"
	"server/internal/service"
)

type userDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toUserDTO(u *domain.User) userDTO {
	return userDTO{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role)}
}

type campaignDTO struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	GoalAmount   float64   `json:"goalAmount"`
	RaisedAmount float64   `json:"raisedAmount"`
	Deadline     time.Time `json:"deadline"`
	ImageURL     *string   `json:"imageUrl,omitempty"`
	Status       string    `json:"status"`
	CreatedByID  string    `json:"createdById"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toCampaignDTO(c *domain.Campaign) campaignDTO {
	return campaignDTO{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		GoalAmount:   c.GoalAmount,
		RaisedAmount: c.RaisedAmount,
		Deadline:     c.Deadline,
		ImageURL:     c.ImageURL,
		Status:       string(c.Status),
		CreatedByID:  c.CreatedByID,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

type donorRefDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type campaignDonationDTO struct {
	ID        string      `json:"id"`
	Amount    float64     `json:"amount"`
	DonatedAt time.Time   `json:"donatedAt"`
	Donor     donorRefDTO `json:"donor"`
}

type campaignDetailDTO struct {
	campaignDTO
	CreatedBy     userDTO               `json:"createdBy"`
	Donations     []campaignDonationDTO `json:"donations"`
	DonationCount int                   `json:"donationCount"`
	DaysRemaining int                   `json:"daysRemaining"`
}

func toCampaignDetailDTO(d *service.CampaignDetail) campaignDetailDTO {
	donations := make([]campaignDonationDTO, 0, len(d.Donations))
	for _, cd := range d.Donations {
		donations = append(donations, campaignDonationDTO{
			ID:        cd.ID,
			Amount:    cd.Amount,
			DonatedAt: cd.DonatedAt,
			Donor:     donorRefDTO{ID: cd.DonorID, Name: cd.DonorName},
		})
	}
	return campaignDetailDTO{
		campaignDTO:   toCampaignDTO(&d.Campaign),
		CreatedBy:     toUserDTO(d.Owner),
		Donations:     donations,
		DonationCount: d.DonationCount,
		DaysRemaining: d.DaysRemaining,
	}
}

type donationDTO struct {
	ID           string    `json:"id"`
	Amount       float64   `json:"amount"`
	DonorID      string    `json:"donorId"`
	CampaignID   string    `json:"campaignId"`
	DonorCountry string    `json:"donorCountry,omitempty"`
	DonatedAt    time.Time `json:"donatedAt"`
}

func toDonationDTO(d *domain.Donation) donationDTO {
	return donationDTO{
		ID:           d.ID,
		Amount:       d.Amount,
		DonorID:      d.DonorID,
		CampaignID:   d.CampaignID,
		DonorCountry: d.DonorCountry,
		DonatedAt:    d.DonatedAt,
	}
}

type campaignRefDTO struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	ImageURL *string `json:"imageUrl,omitempty"`
	Status   string  `json:"status"`
}

type donorDonationDTO struct {
	donationDTO
	Campaign campaignRefDTO `json:"campaign"`
}

func toDonorDonationDTO(dd domain.DonorDonation) donorDonationDTO {
	return donorDonationDTO{
		donationDTO: toDonationDTO(&dd.Donation),
		Campaign: campaignRefDTO{
			ID:       dd.CampaignID,
			Title:    dd.CampaignTitle,
			ImageURL: dd.CampaignImageURL,
			Status:   string(dd.CampaignStatus),
		},
	}
}

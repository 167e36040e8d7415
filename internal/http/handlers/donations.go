package handlers

import (
	"encoding/json"
	"net/http"

	"server/internal/middleware"
)

type donationRequest struct {
	CampaignID string  `json:"campaignId"`
	Amount     float64 `json:"amount"`
}

func (a *App) DonationsCreate(w http.ResponseWriter, r *http.Request) {
	var req donationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_input", "invalid payload")
		return
	}
	ctx := r.Context()
	donation, err := a.Donations.Donate(ctx, middleware.ClaimsFromContext(ctx), req.CampaignID, req.Amount, middleware.CountryFromContext(ctx))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"donation": toDonationDTO(donation)})
}

func (a *App) DonationsList(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	donorID := r.URL.Query().Get("donorId")
	if donorID == "" && claims != nil {
		donorID = claims.UserID
	}
	donations, total, err := a.Donations.History(r.Context(), claims, donorID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	items := make([]donorDonationDTO, 0, len(donations))
	for _, dd := range donations {
		items = append(items, toDonorDonationDTO(dd))
	}
	a.json(w, http.StatusOK, map[string]any{
		"donations":    items,
		"totalDonated": total,
		"count":        len(items),
	})
}

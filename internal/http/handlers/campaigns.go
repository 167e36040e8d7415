package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
	"server/internal/middleware"
	"server/internal/service"
)

type createCampaignRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	GoalAmount  float64 `json:"goalAmount"`
	Deadline    string  `json:"deadline"`
	ImageURL    *string `json:"imageUrl"`
}

func (a *App) CampaignsCreate(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_input", "invalid payload")
		return
	}
	deadline, err := time.Parse(time.RFC3339, req.Deadline)
	if err != nil {
		a.error(w, http.StatusBadRequest, "invalid_input", "deadline must be an RFC 3339 timestamp")
		return
	}
	campaign, err := a.Campaigns.Create(r.Context(), middleware.ClaimsFromContext(r.Context()), service.CreateCampaignInput{
		Title:       req.Title,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
		Deadline:    deadline,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"campaign": toCampaignDTO(campaign)})
}

func (a *App) CampaignsList(w http.ResponseWriter, r *http.Request) {
	status := domain.CampaignStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = domain.CampaignActive
	}
	if !status.Valid() {
		a.error(w, http.StatusBadRequest, "invalid_input", "unknown status filter")
		return
	}
	filter := domain.CampaignFilter{
		Status:      status,
		CreatedByID: r.URL.Query().Get("createdBy"),
	}
	campaigns, err := a.Campaigns.List(r.Context(), filter)
	if err != nil {
		a.domainError(w, err)
		return
	}
	items := make([]campaignDTO, 0, len(campaigns))
	for i := range campaigns {
		items = append(items, toCampaignDTO(&campaigns[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"campaigns": items})
}

func (a *App) CampaignsGet(w http.ResponseWriter, r *http.Request) {
	detail, err := a.Campaigns.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"campaign": toCampaignDetailDTO(detail)})
}

type updateCampaignRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	GoalAmount  *float64 `json:"goalAmount"`
	Deadline    *string  `json:"deadline"`
	ImageURL    *string  `json:"imageUrl"`
	Status      *string  `json:"status"`
}

func (a *App) CampaignsUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_input", "invalid payload")
		return
	}
	patch := domain.CampaignPatch{
		Title:       req.Title,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
		ImageURL:    req.ImageURL,
	}
	if req.Deadline != nil {
		deadline, err := time.Parse(time.RFC3339, *req.Deadline)
		if err != nil {
			a.error(w, http.StatusBadRequest, "invalid_input", "deadline must be an RFC 3339 timestamp")
			return
		}
		patch.Deadline = &deadline
	}
	if req.Status != nil {
		status := domain.CampaignStatus(*req.Status)
		patch.Status = &status
	}
	campaign, err := a.Campaigns.Update(r.Context(), middleware.ClaimsFromContext(r.Context()), chi.URLParam(r, "id"), patch)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"campaign": toCampaignDTO(campaign)})
}

func (a *App) CampaignsDelete(w http.ResponseWriter, r *http.Request) {
	err := a.Campaigns.Delete(r.Context(), middleware.ClaimsFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "campaign deleted"})
}

func (a *App) CampaignsStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.Campaigns.Stats(r.Context(), middleware.ClaimsFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	type countryDTO struct {
		Country   string  `json:"country"`
		Donations int     `json:"donations"`
		Amount    float64 `json:"amount"`
	}
	items := make([]countryDTO, 0, len(stats))
	for _, cs := range stats {
		items = append(items, countryDTO{Country: cs.Country, Donations: cs.Donations, Amount: cs.Amount})
	}
	a.json(w, http.StatusOK, map[string]any{"countries": items})
}

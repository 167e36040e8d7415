package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/service"
)

// App bundles the dependencies shared by all HTTP handlers.
type App struct {
	Logger    zerolog.Logger
	Users     *service.UserService
	Campaigns *service.CampaignService
	Donations *service.DonationService
}

// NewApp creates the handler container.
func NewApp(logger zerolog.Logger, users *service.UserService, campaigns *service.CampaignService, donations *service.DonationService) *App {
	return &App{Logger: logger, Users: users, Campaigns: campaigns, Donations: donations}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, reason, message string) {
	a.json(w, code, map[string]string{"code": reason, "message": message})
}

// domainError maps the service error taxonomy onto HTTP statuses with stable
// reason codes.
func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		a.error(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		a.error(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
	case errors.Is(err, domain.ErrForbidden):
		a.error(w, http.StatusForbidden, "forbidden", "not allowed")
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrConflict):
		a.error(w, http.StatusConflict, "conflict", err.Error())
	default:
		a.Logger.Error().Err(err).Msg("internal error")
		a.error(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

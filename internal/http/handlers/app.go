package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"giveflow/internal/assistant"
	"giveflow/internal/domain"
	"giveflow/internal/providers/textgen"
)

// App bundles the handler dependencies.
type App struct {
	Assistant *assistant.Service
	Campaigns domain.CampaignRepository
	Donations domain.DonationRepository
	Gen       textgen.Generator
	JWTSecret string
	Log       zerolog.Logger
}

func NewApp(svc *assistant.Service, campaigns domain.CampaignRepository, donations domain.DonationRepository, gen textgen.Generator, jwtSecret string, log zerolog.Logger) *App {
	return &App{
		Assistant: svc,
		Campaigns: campaigns,
		Donations: donations,
		Gen:       gen,
		JWTSecret: jwtSecret,
		Log:       log,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]string{"error": message, "code": code})
}

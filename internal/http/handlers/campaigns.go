package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"giveflow/internal/domain"
)

type campaignView struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category,omitempty"`
	Goal        float64  `json:"goal"`
	Raised      float64  `json:"raised"`
	Chains      []string `json:"chains"`
}

func (a *App) CampaignsList(w http.ResponseWriter, r *http.Request) {
	campaigns, err := a.Campaigns.All(r.Context())
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load campaigns")
		return
	}
	items := make([]campaignView, 0, len(campaigns))
	for _, campaign := range campaigns {
		items = append(items, viewOf(campaign))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) CampaignsGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	campaign, err := a.Campaigns.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "campaign not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to load campaign")
		return
	}
	a.json(w, http.StatusOK, viewOf(*campaign))
}

func viewOf(campaign domain.Campaign) campaignView {
	return campaignView{
		ID:          campaign.ID,
		Title:       campaign.Title,
		Description: campaign.Description,
		Category:    displayCategory(campaign.Category),
		Goal:        campaign.Goal,
		Raised:      campaign.Raised,
		Chains:      campaign.Chains,
	}
}

// displayCategory title-cases stored category slugs for the public API.
// Casers are stateful, so a fresh one is built per call.
func displayCategory(category string) string {
	if category == "" {
		return ""
	}
	return cases.Title(language.English).String(category)
}

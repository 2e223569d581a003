package handlers

import (
	"net/http"
	"time"
)

type donationView struct {
	ID         string    `json:"id"`
	CampaignID string    `json:"campaignId"`
	DonorName  string    `json:"donorName"`
	Amount     float64   `json:"amount"`
	Chain      string    `json:"chain"`
	Country    string    `json:"country,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// DonationsRecent serves the public recent-donations feed.
func (a *App) DonationsRecent(w http.ResponseWriter, r *http.Request) {
	donations, err := a.Donations.ListRecent(r.Context(), 10)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load donations")
		return
	}
	items := make([]donationView, 0, len(donations))
	for _, donation := range donations {
		items = append(items, donationView{
			ID:         donation.ID,
			CampaignID: donation.CampaignID,
			DonorName:  donation.DonorName,
			Amount:     donation.Amount,
			Chain:      donation.Chain,
			Country:    donation.Country,
			CreatedAt:  donation.CreatedAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

package domain

import "time"

// User is a platform account. Campaign creators carry a running
// TotalDonated aggregate across all their campaigns.
type User struct {
	ID           string
	DisplayName  string
	Email        string
	TotalDonated float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

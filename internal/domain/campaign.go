package domain

import (
	"strings"
	"time"
)

// Campaign is a fundraising campaign as stored in the catalog.
// Raised is monotonically non-decreasing outside administrative
// corrections and may exceed Goal; it is only mutated through
// donation application.
type Campaign struct {
	ID          string
	Title       string
	Description string
	Category    string
	Goal        float64
	Raised      float64
	Chains      []string
	CreatorID   string
	CreatedAt   time.Time
}

// SupportsChain reports whether the campaign accepts the named payment
// rail, matched case-insensitively, and returns the configured spelling.
func (c *Campaign) SupportsChain(name string) (string, bool) {
	for _, chain := range c.Chains {
		if strings.EqualFold(chain, name) {
			return chain, true
		}
	}
	return "", false
}

package assistant

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"giveflow/internal/domain"
)

// searchCap bounds how many campaigns a single search returns.
const searchCap = 10

// SearchFilter carries the catalog search parameters. All fields are
// optional; an empty filter lists the first searchCap campaigns.
type SearchFilter struct {
	Tokens   []string
	Category string
	Goal     *domain.Range
	Raised   *domain.Range
	SortBy   string
}

// Catalog is a read-only view over the campaign repository with the
// matching semantics the assistant needs: normalized title equality and
// whole-word keyword search.
type Catalog struct {
	repo domain.CampaignRepository
}

func NewCatalog(repo domain.CampaignRepository) *Catalog {
	return &Catalog{repo: repo}
}

// All returns the full campaign listing.
func (c *Catalog) All(ctx context.Context) ([]domain.Campaign, error) {
	return c.repo.All(ctx)
}

// ByID fetches a single campaign.
func (c *Catalog) ByID(ctx context.Context, id string) (*domain.Campaign, error) {
	return c.repo.GetByID(ctx, id)
}

// ByExactTitle matches a campaign whose normalized title equals the
// normalized input. Returns domain.ErrNotFound when nothing matches.
func (c *Catalog) ByExactTitle(ctx context.Context, title string) (*domain.Campaign, error) {
	want := NormalizeTitle(title)
	if want == "" {
		return nil, domain.ErrNotFound
	}
	campaigns, err := c.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range campaigns {
		if NormalizeTitle(campaigns[i].Title) == want {
			return &campaigns[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// Search filters the catalog: category first (case-insensitive exact),
// then whole-word token matching OR'd across tokens and across title,
// category, and description, then inclusive goal/raised ranges. Results
// are sorted per SortBy and truncated to searchCap.
func (c *Catalog) Search(ctx context.Context, filter SearchFilter) ([]domain.Campaign, error) {
	campaigns, err := c.repo.All(ctx)
	if err != nil {
		return nil, err
	}

	matchers := make([]*regexp.Regexp, 0, len(filter.Tokens))
	for _, tok := range filter.Tokens {
		if tok == "" {
			continue
		}
		matchers = append(matchers, wordMatcher(tok))
	}

	var out []domain.Campaign
	for _, campaign := range campaigns {
		if filter.Category != "" && !strings.EqualFold(campaign.Category, filter.Category) {
			continue
		}
		if len(matchers) > 0 && !matchesAnyField(matchers, campaign) {
			continue
		}
		if !filter.Goal.Contains(campaign.Goal) {
			continue
		}
		if !filter.Raised.Contains(campaign.Raised) {
			continue
		}
		out = append(out, campaign)
	}

	switch filter.SortBy {
	case "goal":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Goal > out[j].Goal })
	case "raised":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Raised > out[j].Raised })
	case "newest":
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}

	if len(out) > searchCap {
		out = out[:searchCap]
	}
	return out, nil
}

func matchesAnyField(matchers []*regexp.Regexp, campaign domain.Campaign) bool {
	for _, m := range matchers {
		if m.MatchString(campaign.Title) || m.MatchString(campaign.Category) || m.MatchString(campaign.Description) {
			return true
		}
	}
	return false
}

// wordMatcher compiles a case-insensitive whole-word matcher, so a token
// matches complete words only, never substrings inside longer words.
func wordMatcher(token string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(token) + `\b`)
}

var bracketSuffixRe = regexp.MustCompile(`\s*[\[(][^\])]*[\])]\s*$`)

// NormalizeTitle canonicalizes a campaign title for equality checks:
// trailing bracketed category suffix stripped, whitespace collapsed,
// lowercased.
func NormalizeTitle(title string) string {
	t := bracketSuffixRe.ReplaceAllString(strings.TrimSpace(title), "")
	t = whitespaceRe.ReplaceAllString(t, " ")
	return strings.ToLower(strings.TrimSpace(t))
}

package assistant

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"giveflow/internal/domain"
)

// PriorDonation is a donation recovered from the conversation
// transcript, used to honor "again"/"same" requests.
type PriorDonation struct {
	Amount float64
	Chain  string
	Title  string
}

// Resolver maps ambiguous donation-target language to a single
// campaign, or reports no-match / ambiguous for the caller to turn into
// a clarifying reply.
type Resolver struct {
	catalog *Catalog
}

func NewResolver(catalog *Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// ResolveCampaign attempts, in order: exact normalized title match,
// planner-supplied ordinal into lastResults, singleton lastResults,
// ordinal words in the raw text, token-overlap scoring against
// lastResults titles, and finally a free-text title search. It returns
// the resolved campaign, or the candidate list when the final search is
// ambiguous, or (nil, nil, nil) when nothing matched.
func (r *Resolver) ResolveCampaign(ctx context.Context, title string, ordinal int, rawText string, lastResults []domain.ResultRef) (*domain.Campaign, []domain.Campaign, error) {
	if title != "" {
		campaign, err := r.catalog.ByExactTitle(ctx, title)
		if err == nil {
			return campaign, nil, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, nil, err
		}
	}

	if ordinal > 0 && ordinal <= len(lastResults) {
		if campaign := r.fromResult(ctx, lastResults[ordinal-1]); campaign != nil {
			return campaign, nil, nil
		}
	}

	if len(lastResults) == 1 {
		if campaign := r.fromResult(ctx, lastResults[0]); campaign != nil {
			return campaign, nil, nil
		}
	}

	if n := ordinalFromText(rawText); n > 0 && n <= len(lastResults) {
		if campaign := r.fromResult(ctx, lastResults[n-1]); campaign != nil {
			return campaign, nil, nil
		}
	}

	if best := bestOverlap(rawText, lastResults); best != nil {
		if campaign := r.fromResult(ctx, *best); campaign != nil {
			return campaign, nil, nil
		}
	}

	query := title
	if query == "" {
		query = rawText
	}
	matches, err := r.titleSearch(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	switch len(matches) {
	case 0:
		return nil, nil, nil
	case 1:
		return &matches[0], nil, nil
	default:
		return nil, matches, nil
	}
}

func (r *Resolver) fromResult(ctx context.Context, ref domain.ResultRef) *domain.Campaign {
	campaign, err := r.catalog.ByID(ctx, ref.ID)
	if err != nil {
		return nil
	}
	return campaign
}

func (r *Resolver) titleSearch(ctx context.Context, query string) ([]domain.Campaign, error) {
	tokens := Normalize(query)
	if len(tokens) == 0 {
		return nil, nil
	}
	campaigns, err := r.catalog.All(ctx)
	if err != nil {
		return nil, err
	}
	var matches []domain.Campaign
	for _, campaign := range campaigns {
		for _, tok := range tokens {
			if wordMatcher(tok).MatchString(campaign.Title) {
				matches = append(matches, campaign)
				break
			}
		}
	}
	return matches, nil
}

var ordinalPatterns = []struct {
	re *regexp.Regexp
	n  int
}{
	{regexp.MustCompile(`(?i)\b(?:first|1st|1)\b`), 1},
	{regexp.MustCompile(`(?i)\b(?:second|2nd|2)\b`), 2},
	{regexp.MustCompile(`(?i)\b(?:third|3rd|3)\b`), 3},
}

// ordinalFromText finds the earliest ordinal reference in the text.
func ordinalFromText(text string) int {
	best, bestPos := 0, -1
	for _, p := range ordinalPatterns {
		loc := p.re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		if bestPos < 0 || loc[0] < bestPos {
			best, bestPos = p.n, loc[0]
		}
	}
	return best
}

var splitNonAlnumRe = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// bestOverlap scores each prior result by how many raw-text tokens are
// substrings of its title and returns the max scorer, first-encountered
// on ties, or nil when no token overlaps at all.
func bestOverlap(rawText string, lastResults []domain.ResultRef) *domain.ResultRef {
	if len(lastResults) == 0 {
		return nil
	}
	var tokens []string
	for _, tok := range splitNonAlnumRe.Split(strings.ToLower(rawText), -1) {
		if len(tok) >= 3 {
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) == 0 {
		return nil
	}
	bestScore := 0
	var best *domain.ResultRef
	for i := range lastResults {
		title := strings.ToLower(lastResults[i].Title)
		score := 0
		for _, tok := range tokens {
			if strings.Contains(title, tok) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = &lastResults[i]
		}
	}
	return best
}

// The two confirmation shapes the assistant emits after a donation.
// LastDonation only recognizes these, so the deterministic confirmation
// template in the dispatcher must keep matching donationPhraseA.
var (
	donationPhraseA = regexp.MustCompile(`(?i)donated\s+\$?([0-9][0-9,]*(?:\.[0-9]{1,2})?)(\s*grands?)?\s+via\s+([^"]+?)\s+to\s+"([^"]+)"`)
	donationPhraseB = regexp.MustCompile(`(?i)sent\s+\$?([0-9][0-9,]*(?:\.[0-9]{1,2})?)(\s*grands?)?\s+to\s+"([^"]+)"\s+via\s+([A-Za-z0-9 _-]+)`)
)

// LastDonation scans assistant messages newest-first for a donation
// confirmation and returns the captured amount, chain, and title.
func (r *Resolver) LastDonation(messages []domain.Message) (*PriorDonation, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != domain.RoleAssistant {
			continue
		}
		text := messages[i].Text
		if m := donationPhraseA.FindStringSubmatch(text); m != nil {
			if amount, ok := parseAmountParts(m[1], m[2]); ok {
				return &PriorDonation{Amount: amount, Chain: strings.TrimSpace(m[3]), Title: m[4]}, true
			}
		}
		if m := donationPhraseB.FindStringSubmatch(text); m != nil {
			if amount, ok := parseAmountParts(m[1], m[2]); ok {
				return &PriorDonation{Amount: amount, Chain: strings.TrimSpace(m[4]), Title: m[3]}, true
			}
		}
	}
	return nil, false
}

var amountRe = regexp.MustCompile(`\$?\s*([0-9]{1,3}(?:,[0-9]{3})+|[0-9]+)(\.[0-9]{1,2})?(\s*[Gg]rands?)?`)

// ParseAmount extracts a dollar amount from free text. A leading "$" is
// optional, thousands separators are tolerated, decimals are capped at
// two places, and a trailing "grand(s)" multiplies by 1000. Any "%" in
// the text voids the parse so percentages never read as amounts.
func ParseAmount(text string) (float64, bool) {
	if strings.Contains(text, "%") {
		return 0, false
	}
	for _, loc := range amountRe.FindAllStringSubmatchIndex(text, -1) {
		end := loc[1]
		hasGrand := loc[6] >= 0
		if !hasGrand && end < len(text) && isLetter(text[end]) {
			continue
		}
		start := loc[0]
		if start > 0 && (isLetter(text[start-1]) || isDigit(text[start-1])) {
			continue
		}
		number := text[loc[2]:loc[3]]
		decimals := ""
		if loc[4] >= 0 {
			decimals = text[loc[4]:loc[5]]
		}
		grand := ""
		if hasGrand {
			grand = text[loc[6]:loc[7]]
		}
		if amount, ok := parseAmountParts(number+decimals, grand); ok {
			return amount, true
		}
	}
	return 0, false
}

func parseAmountParts(number, grand string) (float64, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(number), ",", "")
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || amount <= 0 {
		return 0, false
	}
	if strings.TrimSpace(grand) != "" {
		amount *= 1000
	}
	return amount, true
}

func isLetter(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

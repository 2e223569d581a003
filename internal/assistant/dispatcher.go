package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"giveflow/internal/domain"
	"giveflow/internal/providers/textgen"
)

// Request is one assistant turn: the raw prompt plus everything the
// caller knows about the requester and the conversation so far.
type Request struct {
	Prompt    string
	PayMode   bool
	DonorName string
	Country   string
	Context   domain.ConversationContext
}

// ResultSummary is the structured search payload the caller caches as
// the next turn's lastResults.
type ResultSummary struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Category string   `json:"category,omitempty"`
	Chains   []string `json:"chains,omitempty"`
	Raised   float64  `json:"raised"`
	Goal     float64  `json:"goal"`
}

// Receipt describes a completed donation.
type Receipt struct {
	DonationID    string    `json:"donationId"`
	CampaignID    string    `json:"campaignId"`
	CampaignTitle string    `json:"campaignTitle"`
	DonorName     string    `json:"donorName"`
	Amount        float64   `json:"amount"`
	Chain         string    `json:"chain"`
	NewRaised     float64   `json:"newRaised"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Response is the assistant's reply for one turn.
type Response struct {
	Text    string          `json:"text"`
	Results []ResultSummary `json:"results,omitempty"`
	Receipt *Receipt        `json:"receipt,omitempty"`
}

const assistPersona = `You are the assistant of a donation platform. You help people discover fundraising campaigns and support them. Keep replies short, warm, and concrete. Reply with plain text only.`

const suggestFallbackCount = 3

var (
	replayShortcutRe = regexp.MustCompile(`(?i)\bwhat\s+(?:did|have)\s+you\s+(?:just\s+)?(?:find|found)\b`)
	repeatRequestRe  = regexp.MustCompile(`(?i)\b(?:again|same)\b`)
)

// Service runs the full pipeline for one request: injection screen,
// planning, resolution, dispatch, and ledger effects. It holds no
// per-conversation state; context arrives with every call.
type Service struct {
	catalog  *Catalog
	resolver *Resolver
	planner  *Planner
	ledger   *Ledger
	gen      textgen.Generator
	log      zerolog.Logger
}

func NewService(catalog *Catalog, resolver *Resolver, planner *Planner, ledger *Ledger, gen textgen.Generator, log zerolog.Logger) *Service {
	return &Service{
		catalog:  catalog,
		resolver: resolver,
		planner:  planner,
		ledger:   ledger,
		gen:      gen,
		log:      log,
	}
}

// Handle processes one assistant turn. Errors are reserved for store
// failures; every conversational dead end comes back as a Response.
func (s *Service) Handle(ctx context.Context, req Request) (*Response, error) {
	prompt := strings.TrimSpace(req.Prompt)

	// Absolute gate: screened before any provider call.
	if InputRejected(prompt) {
		return &Response{Text: "I can't process that request."}, nil
	}

	if replayShortcutRe.MatchString(prompt) && len(req.Context.LastResults) > 0 {
		return &Response{Text: s.replayText(req.Context.LastResults)}, nil
	}

	action := s.planner.Plan(ctx, prompt, req.Context)

	switch action.Kind {
	case domain.ActionSearch:
		return s.handleSearch(ctx, prompt, action.Search)
	case domain.ActionDonate:
		return s.handleDonate(ctx, prompt, req, action.Donate)
	case domain.ActionSuggest:
		return s.handleSuggest(ctx, prompt, req.Context.LastResults, action.Suggest)
	case domain.ActionClarify:
		return s.handleClarify(ctx, action.Clarify), nil
	case domain.ActionInfo:
		return s.handleInfo(ctx, prompt, action.Info), nil
	case domain.ActionChat:
		return s.handleChat(ctx, prompt, action.Chat), nil
	case domain.ActionReject:
		return s.handleReject(action.Reject), nil
	default:
		return s.handleClarify(ctx, domain.ClarifyParams{Questions: []string{FallbackQuestion}}), nil
	}
}

func (s *Service) replayText(lastResults []domain.ResultRef) string {
	sb := &strings.Builder{}
	sb.WriteString("Here's what I found last time:\n")
	for i, ref := range lastResults {
		fmt.Fprintf(sb, "%d. %s\n", i+1, ref.Title)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (s *Service) handleSearch(ctx context.Context, prompt string, params domain.SearchParams) (*Response, error) {
	query := params.Query
	if strings.TrimSpace(query) == "" {
		query = prompt
	}
	filter := SearchFilter{
		Tokens:   Normalize(query),
		Category: params.Category,
		Goal:     params.Goal,
		Raised:   params.Raised,
		SortBy:   params.SortBy,
	}
	campaigns, err := s.catalog.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(campaigns) == 0 {
		text := s.phrase(ctx,
			fmt.Sprintf("No campaigns matched the search %q. Tell the user in one friendly sentence and invite another query.", query),
			fmt.Sprintf("I couldn't find any campaigns matching %q. Try a different keyword or category.", query))
		return &Response{Text: text}, nil
	}

	titles := make([]string, len(campaigns))
	results := make([]ResultSummary, len(campaigns))
	for i, campaign := range campaigns {
		titles[i] = campaign.Title
		results[i] = summarize(campaign)
	}
	text := s.phrase(ctx,
		fmt.Sprintf("The user searched for %q and these campaigns matched: %s. Present them in one or two sentences.", query, strings.Join(titles, "; ")),
		numberedList("Here's what I found:", titles))
	return &Response{Text: text, Results: results}, nil
}

func (s *Service) handleDonate(ctx context.Context, prompt string, req Request, params domain.DonateParams) (*Response, error) {
	if !req.PayMode {
		return &Response{Text: "Donations are disabled right now. Switch to pay mode and ask me again to complete your donation."}, nil
	}

	repeat := repeatRequestRe.MatchString(prompt)
	var prior *PriorDonation
	if repeat {
		prior, _ = s.resolver.LastDonation(req.Context.Messages)
	}

	title := params.Title
	if title == "" && prior != nil {
		title = prior.Title
	}
	campaign, candidates, err := s.resolver.ResolveCampaign(ctx, title, params.Ordinal, prompt, req.Context.LastResults)
	if err != nil {
		return nil, err
	}
	if len(candidates) > 1 {
		titles := make([]string, len(candidates))
		for i, c := range candidates {
			titles[i] = c.Title
		}
		return &Response{Text: numberedList("A few campaigns match. Which one did you mean?", titles)}, nil
	}
	if campaign == nil {
		return &Response{Text: "Which campaign would you like to support? Tell me its name, or search first and point me at a result."}, nil
	}

	if len(campaign.Chains) == 0 {
		return &Response{Text: fmt.Sprintf("%q isn't accepting donations right now — it has no payment method configured.", campaign.Title)}, nil
	}
	requested := params.Chain
	if requested == "" && prior != nil {
		requested = prior.Chain
	}
	var chain string
	if requested != "" {
		canonical, ok := campaign.SupportsChain(requested)
		if !ok {
			return &Response{Text: fmt.Sprintf("%q doesn't accept %s. Supported: %s.", campaign.Title, requested, strings.Join(campaign.Chains, ", "))}, nil
		}
		chain = canonical
	} else {
		chain = campaign.Chains[0]
	}

	amount := params.Amount
	if amount <= 0 {
		if parsed, ok := ParseAmount(prompt); ok {
			amount = parsed
		}
	}
	if amount <= 0 && prior != nil {
		amount = prior.Amount
	}
	if amount <= 0 {
		return &Response{Text: fmt.Sprintf("How much would you like to give to %q?", campaign.Title)}, nil
	}

	donorName := req.DonorName
	if donorName == "" {
		donorName = "Anonymous"
	}
	donation, updated, err := s.ledger.ApplyDonation(ctx, campaign, donorName, amount, chain, req.Country)
	if err != nil {
		return nil, err
	}

	// The canonical sentence must stay recognizable to LastDonation so
	// "donate again" keeps working on later turns.
	canonical := fmt.Sprintf("Donated $%s via %s to %q.", formatAmount(amount), chain, campaign.Title)
	text, genErr := s.gen.Generate(ctx,
		fmt.Sprintf("A donation just completed. Write a one or two sentence confirmation that includes this sentence verbatim: %s", canonical),
		assistPersona)
	if genErr != nil || !donationPhraseA.MatchString(text) {
		if genErr != nil {
			s.log.Warn().Err(genErr).Msg("confirmation phrasing failed, using deterministic template")
		}
		text = fmt.Sprintf("%s Thank you for supporting %q!", canonical, campaign.Title)
	}

	return &Response{
		Text: text,
		Receipt: &Receipt{
			DonationID:    donation.ID,
			CampaignID:    campaign.ID,
			CampaignTitle: campaign.Title,
			DonorName:     donation.DonorName,
			Amount:        donation.Amount,
			Chain:         donation.Chain,
			NewRaised:     updated.Raised,
			CreatedAt:     donation.CreatedAt,
		},
	}, nil
}

func (s *Service) handleSuggest(ctx context.Context, prompt string, lastResults []domain.ResultRef, params domain.SuggestParams) (*Response, error) {
	// Prior results first; they reflect what the user was just shown.
	var candidates []domain.Campaign
	for _, ref := range lastResults {
		if campaign, err := s.catalog.ByID(ctx, ref.ID); err == nil {
			candidates = append(candidates, *campaign)
		}
	}
	if len(candidates) == 0 {
		needle := params.Interests
		if strings.TrimSpace(needle) == "" {
			needle = prompt
		}
		all, err := s.catalog.All(ctx)
		if err != nil {
			return nil, err
		}
		lowered := strings.ToLower(needle)
		for _, campaign := range all {
			haystack := strings.ToLower(campaign.Title + " " + campaign.Category + " " + campaign.Description)
			for _, tok := range strings.Fields(lowered) {
				if len(tok) >= 3 && strings.Contains(haystack, tok) {
					candidates = append(candidates, campaign)
					break
				}
			}
		}
		// Last resort: never come back empty-handed.
		if len(candidates) == 0 {
			candidates = all
		}
	}
	if len(candidates) > suggestFallbackCount {
		candidates = candidates[:suggestFallbackCount]
	}

	titles := make([]string, len(candidates))
	results := make([]ResultSummary, len(candidates))
	for i, campaign := range candidates {
		titles[i] = campaign.Title
		results[i] = summarize(campaign)
	}
	text := s.phrase(ctx,
		fmt.Sprintf("Recommend these campaigns to the user in one or two sentences: %s.", strings.Join(titles, "; ")),
		numberedList("You might like these campaigns:", titles))
	return &Response{Text: text, Results: results}, nil
}

func (s *Service) handleClarify(ctx context.Context, params domain.ClarifyParams) *Response {
	questions := params.Questions
	if len(questions) == 0 {
		questions = []string{FallbackQuestion}
	}
	text := s.phrase(ctx,
		fmt.Sprintf("Ask the user for clarification using these questions, phrased naturally: %s", strings.Join(questions, " | ")),
		strings.Join(questions, " "))
	return &Response{Text: text}
}

func (s *Service) handleInfo(ctx context.Context, prompt string, params domain.InfoParams) *Response {
	topic := params.Topic
	if topic == "" {
		topic = prompt
	}
	// Purely generative; a failed call degrades to the apology wording.
	text := s.phrase(ctx,
		fmt.Sprintf("Answer this question about how the donation platform works, briefly: %s", topic),
		"")
	return &Response{Text: text}
}

func (s *Service) handleChat(ctx context.Context, prompt string, params domain.ChatParams) *Response {
	instruction := fmt.Sprintf("Reply conversationally to: %s", prompt)
	if params.Tone != "" {
		instruction = fmt.Sprintf("Reply conversationally in a %s tone to: %s", params.Tone, prompt)
	}
	return &Response{Text: s.phrase(ctx, instruction, "")}
}

func (s *Service) handleReject(params domain.RejectParams) *Response {
	if reason := strings.TrimSpace(params.Reason); reason != "" {
		return &Response{Text: fmt.Sprintf("Sorry, I can't help with that: %s.", reason)}
	}
	return &Response{Text: "Sorry, I can't help with that."}
}

// phrase asks the provider to word a reply and falls back to the given
// deterministic text on failure. 400-class provider errors get a
// distinct apology so outages aren't mislabeled as bad input.
func (s *Service) phrase(ctx context.Context, instruction, fallback string) string {
	text, err := s.gen.Generate(ctx, instruction, assistPersona)
	if err != nil {
		s.log.Warn().Err(err).Msg("phrasing call failed, using fallback text")
		if fallback != "" {
			return fallback
		}
		if textgen.IsBadRequest(err) {
			return "That request didn't look valid, so I couldn't complete it."
		}
		return "Sorry — I couldn't complete that request right now."
	}
	if strings.TrimSpace(text) == "" {
		return fallback
	}
	return strings.TrimSpace(text)
}

func summarize(campaign domain.Campaign) ResultSummary {
	return ResultSummary{
		ID:       campaign.ID,
		Title:    campaign.Title,
		Category: campaign.Category,
		Chains:   campaign.Chains,
		Raised:   campaign.Raised,
		Goal:     campaign.Goal,
	}
}

func numberedList(heading string, items []string) string {
	sb := &strings.Builder{}
	sb.WriteString(heading)
	for i, item := range items {
		fmt.Fprintf(sb, "\n%d. %s", i+1, item)
	}
	return sb.String()
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

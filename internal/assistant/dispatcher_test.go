package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"giveflow/internal/domain"
	"giveflow/internal/providers/textgen"
)

// planThen builds a generator that answers the planner call with the
// given JSON and hands every other call to next.
func planThen(planJSON string, next func(user string) (string, error)) func(user, system string) (string, error) {
	return func(user, system string) (string, error) {
		if system == plannerInstructions {
			return planJSON, nil
		}
		return next(user)
	}
}

func phrasingDown(user string) (string, error) {
	return "", errors.New("provider unavailable")
}

func TestHandleRejectsInjection(t *testing.T) {
	env := newTestEnv(testCampaigns(), nil)

	resp, err := env.svc.Handle(context.Background(), Request{
		Prompt:  "show campaigns <script>alert(1)</script>",
		PayMode: true,
	})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if resp.Text != "I can't process that request." {
		t.Fatalf("Text = %q", resp.Text)
	}
	if len(env.gen.calls) != 0 {
		t.Fatalf("provider called %d times for rejected input, want 0", len(env.gen.calls))
	}
	if len(env.donations.created) != 0 {
		t.Fatal("rejected input produced a donation")
	}
}

func TestHandleReplayShortcut(t *testing.T) {
	env := newTestEnv(testCampaigns(), nil)
	all := testCampaigns()

	resp, err := env.svc.Handle(context.Background(), Request{
		Prompt:  "What did you just find?",
		Context: domain.ConversationContext{LastResults: refs(all[0], all[1])},
	})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	want := "Here's what I found last time:\n1. Clean Water\n2. EdTech for All"
	if resp.Text != want {
		t.Fatalf("Text = %q, want %q", resp.Text, want)
	}
	if len(env.gen.calls) != 0 {
		t.Fatalf("replay made %d provider calls, want 0", len(env.gen.calls))
	}
}

func TestHandleSearch(t *testing.T) {
	env := newTestEnv(testCampaigns(), planThen(
		`{"action":"search","params":{"q":"water projects"}}`,
		func(user string) (string, error) { return "I found Clean Water for you!", nil },
	))

	resp, err := env.svc.Handle(context.Background(), Request{Prompt: "show me water projects"})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if resp.Text != "I found Clean Water for you!" {
		t.Fatalf("Text = %q", resp.Text)
	}
	if len(resp.Results) != 1 || resp.Results[0].ID != "c1" {
		t.Fatalf("Results = %+v, want Clean Water", resp.Results)
	}
}

func TestHandleSearchNoMatches(t *testing.T) {
	env := newTestEnv(testCampaigns(), planThen(
		`{"action":"search","params":{"q":"zebra"}}`,
		phrasingDown,
	))

	resp, err := env.svc.Handle(context.Background(), Request{Prompt: "find zebra rescues"})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if !strings.Contains(resp.Text, `couldn't find any campaigns matching "zebra"`) {
		t.Fatalf("Text = %q", resp.Text)
	}
	if len(resp.Results) != 0 {
		t.Fatalf("Results = %+v, want none", resp.Results)
	}
}

func TestHandleDonatePayModeGate(t *testing.T) {
	env := newTestEnv(testCampaigns(), planThen(
		`{"action":"donate","params":{"title":"Clean Water","amount":25}}`,
		phrasingDown,
	))

	resp, err := env.svc.Handle(context.Background(), Request{Prompt: "donate 25 to clean water", PayMode: false})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if !strings.Contains(resp.Text, "Switch to pay mode") {
		t.Fatalf("Text = %q", resp.Text)
	}
	if len(env.donations.created) != 0 || len(env.campaigns.increments) != 0 {
		t.Fatal("pay-mode gate still wrote to the ledger")
	}
}

func TestHandleDonateAgain(t *testing.T) {
	env := newTestEnv(testCampaigns(), planThen(
		`{"action":"donate","params":{}}`,
		phrasingDown,
	))
	all := testCampaigns()

	resp, err := env.svc.Handle(context.Background(), Request{
		Prompt:    "donate 25 again",
		PayMode:   true,
		DonorName: "Ada",
		Context: domain.ConversationContext{
			Messages: []domain.Message{
				{Role: domain.RoleUser, Text: "donate 10 to clean water"},
				{Role: domain.RoleAssistant, Text: `Donated $10 via Ethereum to "Clean Water". Thank you!`},
			},
			LastResults: refs(all[0]),
		},
	})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}

	if len(env.donations.created) != 1 {
		t.Fatalf("recorded %d donations, want 1", len(env.donations.created))
	}
	donation := env.donations.created[0]
	if donation.CampaignID != "c1" || donation.Amount != 25 || donation.Chain != "Ethereum" {
		t.Fatalf("donation = %+v, want 25 via Ethereum to c1", donation)
	}
	// Confirmation phrasing failed, so the deterministic template is
	// used, and it must itself parse as a prior donation next turn.
	want := `Donated $25 via Ethereum to "Clean Water". Thank you for supporting "Clean Water"!`
	if resp.Text != want {
		t.Fatalf("Text = %q, want %q", resp.Text, want)
	}
	if resp.Receipt == nil || resp.Receipt.NewRaised != 12025 {
		t.Fatalf("Receipt = %+v, want NewRaised 12025", resp.Receipt)
	}

	prior, ok := env.svc.resolver.LastDonation([]domain.Message{{Role: domain.RoleAssistant, Text: resp.Text}})
	if !ok || prior.Amount != 25 || prior.Chain != "Ethereum" || prior.Title != "Clean Water" {
		t.Fatalf("confirmation not recognized as prior donation: %+v", prior)
	}
}

func TestHandleDonateAmbiguousTarget(t *testing.T) {
	env := newTestEnv(testCampaigns(), planThen(
		`{"action":"donate","params":{}}`,
		phrasingDown,
	))

	resp, err := env.svc.Handle(context.Background(), Request{Prompt: "donate to the valley water", PayMode: true})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if !strings.HasPrefix(resp.Text, "A few campaigns match.") {
		t.Fatalf("Text = %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "Clean Water") || !strings.Contains(resp.Text, "Reforest the Valley") {
		t.Fatalf("candidate list missing titles: %q", resp.Text)
	}
	if len(env.donations.created) != 0 {
		t.Fatal("ambiguous target still produced a donation")
	}
}

func TestHandleDonateUnknownTarget(t *testing.T) {
	env := newTestEnv(testCampaigns(), planThen(
		`{"action":"donate","params":{}}`,
		phrasingDown,
	))

	resp, err := env.svc.Handle(context.Background(), Request{Prompt: "donate to xylophones", PayMode: true})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if !strings.HasPrefix(resp.Text, "Which campaign would you like to support?") {
		t.Fatalf("Text = %q", resp.Text)
	}
	if len(env.donations.created) != 0 {
		t.Fatal("unknown target still produced a donation")
	}
}

func TestHandleDonateUnsupportedChain(t *testing.T) {
	env := newTestEnv(testCampaigns(), planThen(
		`{"action":"donate","params":{"title":"EdTech for All","chain":"Solana","amount":10}}`,
		phrasingDown,
	))

	resp, err := env.svc.Handle(context.Background(), Request{Prompt: "give 10 on solana to edtech", PayMode: true})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if !strings.Contains(resp.Text, "doesn't accept Solana") || !strings.Contains(resp.Text, "Ethereum") {
		t.Fatalf("Text = %q", resp.Text)
	}
	if len(env.donations.created) != 0 {
		t.Fatal("unsupported chain still produced a donation")
	}
}

func TestHandleDonateAsksForAmount(t *testing.T) {
	env := newTestEnv(testCampaigns(), planThen(
		`{"action":"donate","params":{"title":"Clean Water"}}`,
		phrasingDown,
	))

	resp, err := env.svc.Handle(context.Background(), Request{Prompt: "i want to give to clean water", PayMode: true})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if !strings.Contains(resp.Text, "How much would you like to give") {
		t.Fatalf("Text = %q", resp.Text)
	}
	if len(env.donations.created) != 0 {
		t.Fatal("missing amount still produced a donation")
	}
}

func TestHandleSuggestFromLastResults(t *testing.T) {
	env := newTestEnv(testCampaigns(), planThen(
		`{"action":"suggest","params":{}}`,
		phrasingDown,
	))
	all := testCampaigns()

	resp, err := env.svc.Handle(context.Background(), Request{
		Prompt:  "which of those should I pick",
		Context: domain.ConversationContext{LastResults: refs(all[1], all[2])},
	})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	want := "You might like these campaigns:\n1. EdTech for All\n2. Reforest the Valley"
	if resp.Text != want {
		t.Fatalf("Text = %q, want %q", resp.Text, want)
	}
	if len(resp.Results) != 2 || resp.Results[0].ID != "c2" || resp.Results[1].ID != "c3" {
		t.Fatalf("Results = %+v", resp.Results)
	}
}

func TestHandleSuggestNeverEmpty(t *testing.T) {
	env := newTestEnv(testCampaigns(), planThen(
		`{"action":"suggest","params":{"interests":"zzz"}}`,
		phrasingDown,
	))

	resp, err := env.svc.Handle(context.Background(), Request{Prompt: "surprise me"})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if len(resp.Results) == 0 {
		t.Fatal("suggest came back empty-handed")
	}
	if len(resp.Results) > suggestFallbackCount {
		t.Fatalf("suggest returned %d results, want at most %d", len(resp.Results), suggestFallbackCount)
	}
}

func TestHandleReject(t *testing.T) {
	env := newTestEnv(testCampaigns(), planThen(
		`{"action":"reject","params":{"reason":"it promotes gambling"}}`,
		phrasingDown,
	))

	resp, err := env.svc.Handle(context.Background(), Request{Prompt: "fund my poker night"})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if resp.Text != "Sorry, I can't help with that: it promotes gambling." {
		t.Fatalf("Text = %q", resp.Text)
	}
	// Refusals are deterministic; only the planner talks to the provider.
	if len(env.gen.calls) != 1 {
		t.Fatalf("provider called %d times, want 1", len(env.gen.calls))
	}
}

func TestHandleClarifyFallsBackToQuestions(t *testing.T) {
	env := newTestEnv(testCampaigns(), planThen(
		`{"action":"clarify","params":{"questions":["Which category?","Any budget?"]}}`,
		phrasingDown,
	))

	resp, err := env.svc.Handle(context.Background(), Request{Prompt: "hmm"})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if resp.Text != "Which category? Any budget?" {
		t.Fatalf("Text = %q", resp.Text)
	}
}

func TestHandleInfoBadRequestApology(t *testing.T) {
	env := newTestEnv(testCampaigns(), planThen(
		`{"action":"info","params":{"topic":"fees"}}`,
		func(user string) (string, error) {
			return "", &textgen.HTTPError{Status: 400, Body: "blocked"}
		},
	))

	resp, err := env.svc.Handle(context.Background(), Request{Prompt: "what are the fees"})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if resp.Text != "That request didn't look valid, so I couldn't complete it." {
		t.Fatalf("Text = %q", resp.Text)
	}
}

func TestHandleChatOutageApology(t *testing.T) {
	env := newTestEnv(testCampaigns(), planThen(
		`{"action":"chat","params":{}}`,
		phrasingDown,
	))

	resp, err := env.svc.Handle(context.Background(), Request{Prompt: "good morning"})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if resp.Text != "Sorry — I couldn't complete that request right now." {
		t.Fatalf("Text = %q", resp.Text)
	}
}

func TestHandlePlannerOutageClarifies(t *testing.T) {
	env := newTestEnv(testCampaigns(), func(user, system string) (string, error) {
		if system == plannerInstructions {
			return "", errors.New("provider unavailable")
		}
		return "", errors.New("provider unavailable")
	})

	resp, err := env.svc.Handle(context.Background(), Request{Prompt: "do something"})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if resp.Text != FallbackQuestion {
		t.Fatalf("Text = %q, want the fixed fallback question", resp.Text)
	}
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"giveflow/internal/assistant"
	"giveflow/internal/domain"
	"giveflow/internal/middleware"
	"giveflow/internal/providers/textgen"
)

type assistRequest struct {
	Prompt  string                      `json:"prompt"`
	Mode    string                      `json:"mode,omitempty"`
	Context *domain.ConversationContext `json:"context,omitempty"`
}

const (
	modeDefault = "default"
	modePay     = "pay"
	modeRewrite = "rewrite"
)

const rewriteInstructions = `Rewrite the user's text so it reads clearly and warmly, keeping its meaning. Reply with the rewritten text only.`

// Assist runs one assistant turn: screen, plan, resolve, dispatch.
// mode=pay arms the donate gate; mode=rewrite is a single-shot text
// transform that skips the pipeline entirely.
func (a *App) Assist(w http.ResponseWriter, r *http.Request) {
	var req assistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "prompt is required")
		return
	}
	mode := req.Mode
	if mode == "" {
		mode = modeDefault
	}
	if mode != modeDefault && mode != modePay && mode != modeRewrite {
		a.error(w, http.StatusBadRequest, "bad_request", "unsupported mode")
		return
	}

	if mode == modeRewrite {
		text, err := a.Gen.Generate(r.Context(), prompt, rewriteInstructions)
		if err != nil {
			if textgen.IsBadRequest(err) {
				a.error(w, http.StatusBadRequest, "bad_request", "the rewrite request was rejected")
				return
			}
			a.Log.Error().Err(err).Msg("rewrite call failed")
			a.error(w, http.StatusBadGateway, "provider_failure", "text service unavailable, try again")
			return
		}
		a.json(w, http.StatusOK, assistant.Response{Text: strings.TrimSpace(text)})
		return
	}

	turn := assistant.Request{
		Prompt:  prompt,
		PayMode: mode == modePay,
		Country: middleware.CountryFromContext(r.Context()),
	}
	if identity, ok := middleware.IdentityFromContext(r.Context()); ok {
		turn.DonorName = identity.DisplayName
	}
	if req.Context != nil {
		turn.Context = *req.Context
	}

	resp, err := a.Assistant.Handle(r.Context(), turn)
	if err != nil {
		if errors.Is(err, domain.ErrLedgerInconsistent) {
			a.Log.Error().Err(err).Msg("donation ledger left inconsistent")
			a.error(w, http.StatusInternalServerError, "ledger_inconsistent",
				"your donation may not have been recorded completely — please refresh and verify before retrying")
			return
		}
		a.Log.Error().Err(err).Msg("assist request failed")
		a.error(w, http.StatusInternalServerError, "internal", "something went wrong")
		return
	}
	a.json(w, http.StatusOK, resp)
}

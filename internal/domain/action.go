package domain

// ActionKind enumerates the assistant's action vocabulary. The planner
// produces exactly one kind per user turn.
type ActionKind string

const (
	ActionSearch  ActionKind = "search"
	ActionDonate  ActionKind = "donate"
	ActionSuggest ActionKind = "suggest"
	ActionClarify ActionKind = "clarify"
	ActionInfo    ActionKind = "info"
	ActionChat    ActionKind = "chat"
	ActionReject  ActionKind = "reject"
)

// Valid reports whether the kind is one of the seven known actions.
func (k ActionKind) Valid() bool {
	switch k {
	case ActionSearch, ActionDonate, ActionSuggest, ActionClarify, ActionInfo, ActionChat, ActionReject:
		return true
	}
	return false
}

// Range is an optional inclusive numeric bound pair. A nil side imposes
// no constraint.
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Contains reports whether v satisfies both bounds.
func (r *Range) Contains(v float64) bool {
	if r == nil {
		return true
	}
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// SearchParams carries the planner's filters for a catalog search.
type SearchParams struct {
	Query    string `json:"q,omitempty"`
	Category string `json:"category,omitempty"`
	Goal     *Range `json:"goal,omitempty"`
	Raised   *Range `json:"raised,omitempty"`
	SortBy   string `json:"sortBy,omitempty"`
}

// DonateParams carries the planner's best guess at a donation target.
type DonateParams struct {
	Title   string  `json:"title,omitempty"`
	Chain   string  `json:"chain,omitempty"`
	Amount  float64 `json:"amount,omitempty"`
	Ordinal int     `json:"useContextOrdinal,omitempty"`
}

// SuggestParams carries interest hints for recommendations.
type SuggestParams struct {
	Interests string `json:"interests,omitempty"`
}

// ClarifyParams carries candidate follow-up questions.
type ClarifyParams struct {
	Questions []string `json:"questions,omitempty"`
}

// InfoParams names the topic for a platform-info reply.
type InfoParams struct {
	Topic string `json:"topic,omitempty"`
}

// ChatParams tunes small-talk phrasing.
type ChatParams struct {
	Tone string `json:"tone,omitempty"`
}

// RejectParams carries the one-line refusal reason.
type RejectParams struct {
	Reason string `json:"reason,omitempty"`
}

// Action is the planner's structured decision: a tagged union with
// exactly the variant matching Kind populated.
type Action struct {
	Kind    ActionKind
	Search  SearchParams
	Donate  DonateParams
	Suggest SuggestParams
	Clarify ClarifyParams
	Info    InfoParams
	Chat    ChatParams
	Reject  RejectParams
}

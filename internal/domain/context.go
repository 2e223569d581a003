package domain

// ResultRef is one entry of the most recent search output, as held by
// the client between turns.
type ResultRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Message is one turn of the recent chat transcript.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationContext is the caller-supplied snapshot used for
// disambiguation. It is rebuilt from client state on every request and
// never persisted server-side.
type ConversationContext struct {
	LastResults []ResultRef `json:"lastResults,omitempty"`
	Messages    []Message   `json:"messages,omitempty"`
}
